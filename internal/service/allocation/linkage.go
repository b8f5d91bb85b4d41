package allocation

import (
	"strings"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/textmatch"
)

// ResolveLinkedPlot matches a transaction's linked-area text to a plot. An exact
// normalized match wins; otherwise the first plot whose name contains, or is
// contained in, the text is returned.
func ResolveLinkedPlot(freeText string, plots []models.Plot) (models.Plot, bool) {
	idx := resolveIndex(freeText, plots)
	if idx < 0 {
		return models.Plot{}, false
	}
	return plots[idx], true
}

func resolveIndex(freeText string, plots []models.Plot) int {
	text := textmatch.Normalize(freeText)
	if text == "" {
		return -1
	}

	names := make([]string, len(plots))
	for i, p := range plots {
		names[i] = textmatch.Normalize(p.Name)
		if names[i] == text {
			return i
		}
	}

	for i, name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(text, name) || strings.Contains(name, text) {
			return i
		}
	}
	return -1
}
