// Package models reconciles remote provider model listings with the models
// already configured locally, and owns the state of the fetch-models
// workflow (derived listing URL, search, selection, busy and error state).
package models

import "encoding/json"

// FetchedModel is one entry of a provider's model listing.
type FetchedModel struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	OwnedBy string `json:"ownedBy,omitempty"`
	Created *int64 `json:"created,omitempty"`
}

// UnmarshalJSON accepts both the camelCase host shape and the snake_case
// owned_by used by OpenAI-style listings.
func (m *FetchedModel) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		OwnedBy  string `json:"ownedBy"`
		OwnedBy2 string `json:"owned_by"`
		Created  *int64 `json:"created"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ID = raw.ID
	m.Name = raw.Name
	m.OwnedBy = raw.OwnedBy
	if m.OwnedBy == "" {
		m.OwnedBy = raw.OwnedBy2
	}
	m.Created = raw.Created
	return nil
}

// ReconciledModel is a fetched model marked against the locally known ids.
// AlreadyExists entries stay visible but cannot be selected.
type ReconciledModel struct {
	Model         FetchedModel `json:"model"`
	AlreadyExists bool         `json:"alreadyExists"`
}

// APIType selects between a provider's native listing endpoint and the
// generic OpenAI-compatible one.
type APIType string

const (
	APINative       APIType = "native"
	APIOpenAICompat APIType = "openai_compat"
)

// ParseAPIType validates a user-supplied api type.
func ParseAPIType(s string) (APIType, bool) {
	switch APIType(s) {
	case APINative, APIOpenAICompat:
		return APIType(s), true
	}
	return "", false
}

// ListRequest is sent to the host's fetch_provider_models command.
type ListRequest struct {
	BaseURL   string            `json:"baseUrl"`
	APIKey    string            `json:"apiKey,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	APIType   APIType           `json:"apiType"`
	SDKType   string            `json:"sdkType,omitempty"`
	CustomURL string            `json:"customUrl"`
}

// ListResponse is the host's answer to a ListRequest.
type ListResponse struct {
	Models []FetchedModel `json:"models"`
	Total  int            `json:"total"`
}
