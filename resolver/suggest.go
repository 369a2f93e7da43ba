package resolver

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Suggest returns up to n names from the table that resemble name, best
// match first. A name resembles another if either contains the other's
// letters in order.
func (t *Table) Suggest(name string, n int) []string {
	if name == "" || n <= 0 {
		return nil
	}
	names := t.Names()
	score := make(map[string]int)
	for _, m := range fuzzy.Find(name, names) {
		score[m.Str] = m.Score
	}
	// Also catch typos that add letters, like "sqrtt".
	for _, c := range names {
		if _, ok := score[c]; ok || len(c) < 2 {
			continue
		}
		if m := fuzzy.Find(c, []string{name}); len(m) != 0 {
			score[c] = m[0].Score
		}
	}
	r := make([]string, 0, len(score))
	for c := range score {
		if c != name {
			r = append(r, c)
		}
	}
	sort.Slice(r, func(i, j int) bool {
		if score[r[i]] != score[r[j]] {
			return score[r[i]] > score[r[j]]
		}
		return r[i] < r[j]
	})
	if len(r) > n {
		r = r[:n]
	}
	return r
}
