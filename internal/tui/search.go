package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/milovmv/larek/internal/wizard"
)

// rankCatalog orders cards by how well their titles match the query.
// Substring hits rank first, the rest by edit-distance similarity. An empty
// query returns the catalog untouched.
func rankCatalog(query string, cards []wizard.CardData) []wizard.CardData {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cards
	}
	type scored struct {
		card  wizard.CardData
		score float64
	}
	ranked := make([]scored, 0, len(cards))
	for _, c := range cards {
		title := strings.ToLower(c.Title)
		score := similarity(q, title)
		if strings.Contains(title, q) {
			score = 1
		}
		ranked = append(ranked, scored{card: c, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	out := make([]wizard.CardData, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.card)
	}
	return out
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
