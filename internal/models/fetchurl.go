package models

import (
	"net/url"
	"strings"
)

// SDK identifiers as they appear in provider configs.
const (
	SDKGoogle    = "@ai-sdk/google"
	SDKAnthropic = "@ai-sdk/anthropic"
)

// SDKStyle is the listing convention implied by an sdk type.
type SDKStyle int

const (
	StyleOpenAI SDKStyle = iota
	StyleGoogle
	StyleAnthropic
)

// ClassifySDK maps an sdk type to its listing convention. Anything not
// recognizably Google or Anthropic falls back to the OpenAI convention.
func ClassifySDK(sdkType string) SDKStyle {
	switch strings.ToLower(strings.TrimSpace(sdkType)) {
	case SDKGoogle, "google", "google-style", "gemini":
		return StyleGoogle
	case SDKAnthropic, "anthropic", "anthropic-style":
		return StyleAnthropic
	default:
		return StyleOpenAI
	}
}

// StripVersionSuffix removes trailing slashes and a trailing /v1 or /v1beta.
func StripVersionSuffix(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	for _, suffix := range []string{"/v1beta", "/v1"} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}

// BuildFetchURL derives the model listing endpoint.
//
//	openai_compat, any sdk      -> {base}/v1/models
//	native, google              -> {base}/v1beta/models[?key={apiKey}]
//	native, anthropic or other  -> {base}/v1/models
func BuildFetchURL(baseURL string, apiType APIType, sdkType string, apiKey string) string {
	base := StripVersionSuffix(baseURL)
	if apiType == APINative && ClassifySDK(sdkType) == StyleGoogle {
		u := base + "/v1beta/models"
		if apiKey != "" {
			u += "?key=" + url.QueryEscape(apiKey)
		}
		return u
	}
	return base + "/v1/models"
}

// URLSource records where the current listing URL came from.
type URLSource string

const (
	URLComputed   URLSource = "computed"
	URLUserEdited URLSource = "user-edited"
)

// URLField is the listing URL shown to the user. A computed value follows
// its inputs; a user-edited value is kept until an explicit reset or a fresh
// open of the workflow.
type URLField struct {
	Source URLSource `json:"source"`
	Value  string    `json:"value"`
}

// Computed returns a computed field for the given inputs.
func Computed(in Inputs) URLField {
	return URLField{Source: URLComputed, Value: BuildFetchURL(in.BaseURL, in.APIType, in.SDKType, in.APIKey)}
}

// Recompute refreshes a computed field and leaves a user-edited one alone.
func (f URLField) Recompute(in Inputs) URLField {
	if f.Source == URLUserEdited {
		return f
	}
	return Computed(in)
}
