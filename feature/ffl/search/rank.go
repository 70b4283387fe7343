package search

import (
	"sort"
	"strings"

	"ffl-directory/feature/ffl/models"

	"golang.org/x/text/cases"
)

// Match tiers, best first.
const (
	tierNone = iota
	tierSubstring
	tierPrefix
	tierExact
)

// lookupScore is reserved for the canonical license hit; field tiers score below it.
const lookupScore = 1.0

var tierScores = map[int]float64{
	tierExact:     0.9,
	tierPrefix:    0.75,
	tierSubstring: 0.5,
	tierNone:      0.5,
}

type ranked struct {
	rec    models.FflRecord
	tier   int
	lookup bool
}

// Rank orders candidates for query and truncates to limit.
//
// An exact license hit always comes first and is the only MatchExact result. The rest are
// partial matches ordered by their best field match (equal, then prefix, then substring),
// then by shorter business name, then by license number. Records repeated in candidates
// are kept once.
func Rank(query string, t Type, exact *models.FflRecord, candidates []models.FflRecord, source string, limit int) []models.SearchResult {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	seen := make(map[string]struct{}, len(candidates)+1)
	list := make([]ranked, 0, len(candidates)+1)
	if exact != nil {
		seen[exact.LicenseNumber] = struct{}{}
		list = append(list, ranked{rec: *exact, tier: tierExact, lookup: true})
	}
	for _, c := range candidates {
		if _, dup := seen[c.LicenseNumber]; dup {
			continue
		}
		seen[c.LicenseNumber] = struct{}{}
		list = append(list, ranked{rec: c, tier: bestTier(fold, q, fieldValues(c, t))})
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.lookup != b.lookup {
			return a.lookup
		}
		if a.tier != b.tier {
			return a.tier > b.tier
		}
		if la, lb := len(a.rec.BusinessName), len(b.rec.BusinessName); la != lb {
			return la < lb
		}
		return a.rec.LicenseNumber < b.rec.LicenseNumber
	})

	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}

	out := make([]models.SearchResult, len(list))
	for i, r := range list {
		kind, score := models.MatchPartial, tierScores[r.tier]
		if r.lookup {
			kind, score = models.MatchExact, lookupScore
		}
		out[i] = models.SearchResult{
			LicenseNumber: r.rec.LicenseNumber,
			BusinessName:  r.rec.BusinessName,
			TradeName:     r.rec.TradeName,
			Address:       r.rec.Address,
			MatchKind:     kind,
			Score:         score,
			Source:        source,
		}
	}
	return out
}

func bestTier(fold cases.Caser, q string, values []string) int {
	best := tierNone
	for _, v := range values {
		v = fold.String(v)
		switch {
		case v == q:
			return tierExact
		case strings.HasPrefix(v, q):
			best = max(best, tierPrefix)
		case strings.Contains(v, q):
			best = max(best, tierSubstring)
		}
	}
	return best
}

func fieldValues(r models.FflRecord, t Type) []string {
	switch t {
	case TypeFfl:
		return []string{r.LicenseNumber}
	case TypeName:
		return []string{r.BusinessName, r.TradeName, r.Address.Street, r.Address.City, r.Address.Zip}
	default:
		return []string{r.LicenseNumber, r.BusinessName, r.TradeName, r.Address.Street, r.Address.City, r.Address.Zip}
	}
}
