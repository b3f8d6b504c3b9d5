// Package sources adapts heuristics, classifiers, web search and LLM judges
// to the ensemble.Source interface.
package sources

import "strings"

// Truncate shortens text to at most limit runes. When the cut keeps more
// than 70% of the budget it ends at the last sentence terminator;
// otherwise "..." is appended to the hard cut.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	last := strings.LastIndexAny(cut, ".!?")
	if last >= 0 {
		// LastIndexAny is a byte offset; compare in runes.
		runeIdx := len([]rune(cut[:last]))
		if float64(runeIdx) > float64(limit)*0.7 {
			return cut[:last+1]
		}
	}
	return cut + "..."
}
