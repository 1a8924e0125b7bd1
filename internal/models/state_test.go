package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var googleInputs = Inputs{
	BaseURL: "https://generativelanguage.googleapis.com/v1beta",
	APIKey:  "KEY",
	APIType: APINative,
	SDKType: SDKGoogle,
}

func loaded(t *testing.T) FetchState {
	t.Helper()
	s := NewFetchState(googleInputs, "gemini-pro")
	s = Reduce(s, FetchStarted{})
	return Reduce(s, FetchSucceeded{Models: []FetchedModel{
		{ID: "gemini-pro", OwnedBy: "google"},
		{ID: "gemini-2.5-flash", OwnedBy: "google"},
		{ID: "gemma-3", Name: "Gemma 3"},
	}, Total: 3})
}

func TestOpened_ComputesURL(t *testing.T) {
	s := NewFetchState(googleInputs, "a")

	assert.Equal(t, URLComputed, s.URL.Source)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models?key=KEY", s.URL.Value)
	assert.Contains(t, s.Existing, "a")
	assert.False(t, s.Loading)
	assert.Empty(t, s.Models)
}

func TestInputsChanged_FollowsComputedURL(t *testing.T) {
	s := NewFetchState(googleInputs)
	in := googleInputs
	in.APIType = APIOpenAICompat

	s = Reduce(s, InputsChanged{Inputs: in})

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1/models", s.URL.Value)
	assert.Equal(t, URLComputed, s.URL.Source)
}

func TestUserEditedURL_SurvivesInputChanges(t *testing.T) {
	s := NewFetchState(googleInputs)
	s = Reduce(s, URLEdited{Value: "https://proxy.local/models"})

	in := googleInputs
	in.BaseURL = "https://elsewhere.example"
	s = Reduce(s, InputsChanged{Inputs: in})

	assert.Equal(t, URLField{Source: URLUserEdited, Value: "https://proxy.local/models"}, s.URL)
	assert.Equal(t, "https://proxy.local/models", s.Request().CustomURL)

	s = Reduce(s, URLReset{})
	assert.Equal(t, URLField{Source: URLComputed, Value: "https://elsewhere.example/v1beta/models?key=KEY"}, s.URL)
}

func TestOpened_DiscardsUserEdit(t *testing.T) {
	s := NewFetchState(googleInputs)
	s = Reduce(s, URLEdited{Value: "https://proxy.local/models"})

	s = Reduce(s, Opened{Inputs: googleInputs})

	assert.Equal(t, URLComputed, s.URL.Source)
}

func TestFetchFailed_RetainsPreviousList(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, Toggled{ID: "gemma-3"})

	s = Reduce(s, FetchStarted{})
	assert.True(t, s.Loading)
	s = Reduce(s, FetchFailed{Err: errors.New("502 Bad Gateway")})

	assert.False(t, s.Loading)
	assert.EqualError(t, s.Err, "502 Bad Gateway")
	assert.Len(t, s.Models, 3)
	assert.True(t, s.Selected["gemma-3"])
}

func TestFetchSucceeded_ClearsErrorAndSelection(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, Toggled{ID: "gemma-3"})
	s = Reduce(s, FetchFailed{Err: errors.New("boom")})

	s = Reduce(s, FetchSucceeded{Models: []FetchedModel{{ID: "only"}}, Total: 1})

	assert.NoError(t, s.Err)
	assert.Empty(t, s.Selected)
	assert.Equal(t, []FetchedModel{{ID: "only"}}, s.Models)
}

func TestToggled(t *testing.T) {
	s := loaded(t)

	s = Reduce(s, Toggled{ID: "gemini-pro"})
	assert.Empty(t, s.Selected, "existing models cannot be selected")

	s = Reduce(s, Toggled{ID: "not-listed"})
	assert.Empty(t, s.Selected)

	s = Reduce(s, Toggled{ID: "gemma-3"})
	assert.Equal(t, map[string]bool{"gemma-3": true}, s.Selected)

	s = Reduce(s, Toggled{ID: "gemma-3"})
	assert.Empty(t, s.Selected)
}

func TestReduce_DoesNotShareSelection(t *testing.T) {
	before := loaded(t)
	after := Reduce(before, Toggled{ID: "gemma-3"})

	assert.Empty(t, before.Selected)
	assert.True(t, after.Selected["gemma-3"])
}

func TestSelectAllVisible(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, SearchChanged{Query: "gemini"})
	s = Reduce(s, SelectAllVisible{})

	assert.Equal(t, map[string]bool{"gemini-2.5-flash": true}, s.Selected)

	s = Reduce(s, SearchChanged{Query: ""})
	s = Reduce(s, SelectAllVisible{})
	assert.Equal(t, []FetchedModel{
		{ID: "gemini-2.5-flash", OwnedBy: "google"},
		{ID: "gemma-3", Name: "Gemma 3"},
	}, s.SelectedModels())

	s = Reduce(s, ClearSelection{})
	assert.Empty(t, s.SelectedModels())
}

func TestRows(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, Toggled{ID: "gemma-3"})
	s = Reduce(s, SearchChanged{Query: "GEM"})

	rows := s.Rows()
	require.Len(t, rows, 3)
	assert.True(t, rows[0].AlreadyExists)
	assert.False(t, rows[0].Selected)
	assert.Equal(t, "gemma-3", rows[2].Model.ID)
	assert.True(t, rows[2].Selected)

	s = Reduce(s, SearchChanged{Query: "flash"})
	rows = s.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "gemini-2.5-flash", rows[0].Model.ID)
}

func TestSelectedModels_DuplicateIDsOnce(t *testing.T) {
	s := NewFetchState(googleInputs)
	s = Reduce(s, FetchSucceeded{Models: []FetchedModel{{ID: "a"}, {ID: "a"}, {ID: "b"}}})
	s = Reduce(s, SelectAllVisible{})

	assert.Len(t, s.Rows(), 3)
	assert.Equal(t, []FetchedModel{{ID: "a"}, {ID: "b"}}, s.SelectedModels())
}

func TestRequest(t *testing.T) {
	in := googleInputs
	in.Headers = map[string]string{"X-Org": "1"}
	s := NewFetchState(in)

	req := s.Request()
	assert.Equal(t, ListRequest{
		BaseURL:   googleInputs.BaseURL,
		APIKey:    "KEY",
		Headers:   map[string]string{"X-Org": "1"},
		APIType:   APINative,
		SDKType:   SDKGoogle,
		CustomURL: "https://generativelanguage.googleapis.com/v1beta/models?key=KEY",
	}, req)
}
