package models

import (
	"context"
	"strings"
	"sync"

	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/logger"
)

// ErrFetchInFlight is returned by Session.Fetch while a fetch is outstanding.
var ErrFetchInFlight = exitcodes.PreconditionError("a model fetch is already in progress")

// Lister performs the remote listing. The host bridge implements it.
type Lister interface {
	FetchProviderModels(ctx context.Context, req ListRequest) (*ListResponse, error)
}

// Session drives a FetchState through a Lister. Dispatch and Fetch may be
// called from different goroutines (for example a UI loop and a worker).
type Session struct {
	lister Lister

	mu    sync.Mutex
	state FetchState
}

// NewSession opens a workflow for the given provider settings.
func NewSession(lister Lister, in Inputs, existing ...string) *Session {
	return &Session{lister: lister, state: NewFetchState(in, existing...)}
}

// State returns the current state.
func (s *Session) State() FetchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action and returns the resulting state.
func (s *Session) Dispatch(a Action) FetchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Fetch lists models for the current inputs and URL. On failure the error is
// recorded in the state and returned; the previously fetched list stays.
func (s *Session) Fetch(ctx context.Context) error {
	log := logger.Component("models")

	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	req := s.state.Request()
	if err := validate(s.state); err != nil {
		s.state = Reduce(s.state, FetchFailed{Err: err})
		s.mu.Unlock()
		return err
	}
	s.state = Reduce(s.state, FetchStarted{})
	s.mu.Unlock()

	log.Debug("fetching models", "url", req.CustomURL, "api_type", req.APIType, "sdk", req.SDKType)
	resp, err := s.lister.FetchProviderModels(ctx, req)
	if err != nil {
		log.Warn("model fetch failed", "url", req.CustomURL, "err", err)
		s.Dispatch(FetchFailed{Err: err})
		return err
	}

	total := resp.Total
	if total == 0 {
		total = len(resp.Models)
	}
	s.Dispatch(FetchSucceeded{Models: resp.Models, Total: total})
	log.Debug("models fetched", "count", len(resp.Models))
	return nil
}

// validate rejects a fetch with nothing to call. A manually edited URL is
// enough on its own; a computed one needs a base URL.
func validate(st FetchState) error {
	manual := st.URL.Source == URLUserEdited && strings.TrimSpace(st.URL.Value) != ""
	if !manual && strings.TrimSpace(st.Inputs.BaseURL) == "" {
		return exitcodes.ValidationErr("base URL is required")
	}
	if _, ok := ParseAPIType(string(st.Inputs.APIType)); !ok {
		return exitcodes.ValidationErrf("unknown api type %q", st.Inputs.APIType)
	}
	return nil
}
