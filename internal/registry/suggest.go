package registry

import (
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Suggest returns up to three candidate names that fuzzily match name, best
// match first.
func Suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	matches := fuzzy.Find(name, candidates)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
