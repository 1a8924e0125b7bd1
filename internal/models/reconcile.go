package models

import "strings"

// ExistingIDs builds the set of locally configured model ids.
func ExistingIDs(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Reconcile marks every fetched model with whether its id is already
// configured. Output order follows fetched; duplicate ids are passed
// through as-is. existing is only read.
func Reconcile(existing map[string]struct{}, fetched []FetchedModel) []ReconciledModel {
	out := make([]ReconciledModel, len(fetched))
	for i, m := range fetched {
		_, ok := existing[m.ID]
		out[i] = ReconciledModel{Model: m, AlreadyExists: ok}
	}
	return out
}

// Selectable returns the models of rows that are not already configured.
func Selectable(rows []ReconciledModel) []FetchedModel {
	var out []FetchedModel
	for _, r := range rows {
		if !r.AlreadyExists {
			out = append(out, r.Model)
		}
	}
	return out
}

// FilterBySearch keeps models whose id, name or owner contains query,
// ignoring case. An empty query returns models unchanged.
func FilterBySearch(models []FetchedModel, query string) []FetchedModel {
	if query == "" {
		return models
	}
	q := strings.ToLower(query)
	out := make([]FetchedModel, 0, len(models))
	for _, m := range models {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func matches(m FetchedModel, q string) bool {
	if strings.Contains(strings.ToLower(m.ID), q) {
		return true
	}
	if m.Name != "" && strings.Contains(strings.ToLower(m.Name), q) {
		return true
	}
	return m.OwnedBy != "" && strings.Contains(strings.ToLower(m.OwnedBy), q)
}
