package models

// Inputs are the provider settings the listing URL is derived from.
type Inputs struct {
	BaseURL string
	APIKey  string
	Headers map[string]string
	APIType APIType
	SDKType string
}

// FetchState is the state of one fetch-models workflow. Values are treated
// as immutable: Reduce returns a new state and never writes into maps or
// slices owned by its input.
type FetchState struct {
	Inputs   Inputs
	URL      URLField
	Existing map[string]struct{}
	Models   []FetchedModel
	Total    int
	Selected map[string]bool
	Query    string
	Loading  bool
	Err      error
}

// Row is one line of the model list as presented to the user.
type Row struct {
	ReconciledModel
	Selected bool
}

// Action is an event applied to a FetchState by Reduce.
type Action interface{ isAction() }

type (
	// Opened starts a fresh workflow; everything from a previous open is dropped.
	Opened struct {
		Inputs   Inputs
		Existing []string
	}
	// InputsChanged updates provider settings; a computed URL follows them.
	InputsChanged struct{ Inputs Inputs }
	// URLEdited records a manual URL edit.
	URLEdited struct{ Value string }
	// URLReset discards a manual edit and recomputes the URL.
	URLReset struct{}
	// SearchChanged updates the filter query.
	SearchChanged struct{ Query string }
	// FetchStarted marks a request as outstanding.
	FetchStarted struct{}
	// FetchSucceeded replaces the list with a fresh result.
	FetchSucceeded struct {
		Models []FetchedModel
		Total  int
	}
	// FetchFailed records an error. The previous list is kept.
	FetchFailed struct{ Err error }
	// Toggled flips selection of one model.
	Toggled struct{ ID string }
	// SelectAllVisible selects every selectable model matching the query.
	SelectAllVisible struct{}
	// ClearSelection deselects everything.
	ClearSelection struct{}
)

func (Opened) isAction()           {}
func (InputsChanged) isAction()    {}
func (URLEdited) isAction()        {}
func (URLReset) isAction()         {}
func (SearchChanged) isAction()    {}
func (FetchStarted) isAction()     {}
func (FetchSucceeded) isAction()   {}
func (FetchFailed) isAction()      {}
func (Toggled) isAction()          {}
func (SelectAllVisible) isAction() {}
func (ClearSelection) isAction()   {}

// NewFetchState returns the state right after opening the workflow.
func NewFetchState(in Inputs, existing ...string) FetchState {
	return Reduce(FetchState{}, Opened{Inputs: in, Existing: existing})
}

// Reduce applies a to s.
func Reduce(s FetchState, a Action) FetchState {
	switch a := a.(type) {
	case Opened:
		return FetchState{
			Inputs:   a.Inputs,
			URL:      Computed(a.Inputs),
			Existing: ExistingIDs(a.Existing...),
			Selected: map[string]bool{},
		}
	case InputsChanged:
		s.Inputs = a.Inputs
		s.URL = s.URL.Recompute(a.Inputs)
	case URLEdited:
		s.URL = URLField{Source: URLUserEdited, Value: a.Value}
	case URLReset:
		s.URL = Computed(s.Inputs)
	case SearchChanged:
		s.Query = a.Query
	case FetchStarted:
		s.Loading = true
		s.Err = nil
	case FetchSucceeded:
		s.Loading = false
		s.Err = nil
		s.Models = append([]FetchedModel(nil), a.Models...)
		s.Total = a.Total
		s.Selected = map[string]bool{}
	case FetchFailed:
		s.Loading = false
		s.Err = a.Err
	case Toggled:
		if !s.selectable(a.ID) {
			return s
		}
		sel := s.copySelected()
		if sel[a.ID] {
			delete(sel, a.ID)
		} else {
			sel[a.ID] = true
		}
		s.Selected = sel
	case SelectAllVisible:
		sel := s.copySelected()
		for _, m := range Selectable(Reconcile(s.Existing, FilterBySearch(s.Models, s.Query))) {
			sel[m.ID] = true
		}
		s.Selected = sel
	case ClearSelection:
		s.Selected = map[string]bool{}
	}
	return s
}

// Rows returns the filtered, reconciled list with selection marks.
func (s FetchState) Rows() []Row {
	rec := Reconcile(s.Existing, FilterBySearch(s.Models, s.Query))
	rows := make([]Row, len(rec))
	for i, r := range rec {
		rows[i] = Row{ReconciledModel: r, Selected: s.Selected[r.Model.ID]}
	}
	return rows
}

// SelectedModels returns the selected models in listing order. A duplicated
// id is returned once.
func (s FetchState) SelectedModels() []FetchedModel {
	var out []FetchedModel
	seen := map[string]bool{}
	for _, m := range s.Models {
		if s.Selected[m.ID] && !seen[m.ID] {
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out
}

// Request builds the host request for the current state.
func (s FetchState) Request() ListRequest {
	return ListRequest{
		BaseURL:   s.Inputs.BaseURL,
		APIKey:    s.Inputs.APIKey,
		Headers:   s.Inputs.Headers,
		APIType:   s.Inputs.APIType,
		SDKType:   s.Inputs.SDKType,
		CustomURL: s.URL.Value,
	}
}

func (s FetchState) selectable(id string) bool {
	if _, exists := s.Existing[id]; exists {
		return false
	}
	for _, m := range s.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s FetchState) copySelected() map[string]bool {
	sel := make(map[string]bool, len(s.Selected)+1)
	for k, v := range s.Selected {
		sel[k] = v
	}
	return sel
}
