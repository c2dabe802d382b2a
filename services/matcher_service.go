package services

import (
	"math"
	"sort"

	"museum_recommender/models"
)

// Author similarity tiers. An exact preference match scores highest,
// then first- and second-degree neighbors in the curated graph, then
// an era-distance fallback floored just above zero.
const (
	authorExactScore    = 6.0
	authorNeighborScore = 5.0
	authorSecondScore   = 3.0
	authorScoreFloor    = 0.1
	authorNeutralScore  = 1.0

	themeMatchScore   = 2.0
	themeNeutralScore = 1.0

	eraBaseScore       = 2.0
	eraDistancePenalty = 0.1

	neighborMaxDepth = 2
)

// MatcherService scores catalog artworks against a preference profile.
type MatcherService struct {
	catalog *models.Catalog
	authors *models.AuthorRegistry
}

// NewMatcherService builds a matcher over the immutable reference data.
func NewMatcherService(catalog *models.Catalog, authors *models.AuthorRegistry) *MatcherService {
	return &MatcherService{catalog: catalog, authors: authors}
}

// MatchAll scores every catalog artwork and returns the matches in
// descending score order; ties keep catalog order. This ordering is
// the canonical ideal route for the profile.
func (m *MatcherService) MatchAll(p *models.PreferenceProfile) []models.Match {
	arts := m.catalog.Artworks()
	matches := make([]models.Match, 0, len(arts))
	for i := range arts {
		a := &arts[i]
		matches = append(matches, models.Match{
			ArtworkID:          a.ID,
			Score:              m.Score(p, a),
			ScaledVisitMinutes: float64(a.BaseVisitMinutes) * p.PacingCoefficient,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// MatchMap returns the per-artwork scores keyed by artwork id.
func (m *MatcherService) MatchMap(p *models.PreferenceProfile) map[int64]float64 {
	arts := m.catalog.Artworks()
	out := make(map[int64]float64, len(arts))
	for i := range arts {
		out[arts[i].ID] = m.Score(p, &arts[i])
	}
	return out
}

// Score is the total content score of one artwork for one profile:
// author + theme + era similarity at equal unit weights, rounded to
// two decimals.
func (m *MatcherService) Score(p *models.PreferenceProfile, a *models.Artwork) float64 {
	total := m.AuthorSimilarity(p, a) + m.ThemeSimilarity(p, a) + m.EraSimilarity(p, a)
	return round2(total)
}

// AuthorSimilarity walks the curated similar-author graph to at most
// two hops; beyond that the score degrades with era distance. A
// missing author preference, or reference data we do not know about,
// contributes a neutral 1.0 instead of failing.
func (m *MatcherService) AuthorSimilarity(p *models.PreferenceProfile, a *models.Artwork) float64 {
	if p.PreferredAuthor == "" {
		return authorNeutralScore
	}
	pref, ok := m.authors.ByName(p.PreferredAuthor)
	if !ok {
		return authorNeutralScore
	}
	if a.AuthorID == pref.ID {
		return authorExactScore
	}
	switch m.authors.NeighborDepth(pref.ID, a.AuthorID, neighborMaxDepth) {
	case 1:
		return authorNeighborScore
	case 2:
		return authorSecondScore
	}

	minDist, ok := minEraDistance(a.EraIDs, p.PreferredEras)
	if !ok {
		return authorScoreFloor
	}
	s := eraBaseScore - eraDistancePenalty*minDist
	if s < authorScoreFloor {
		s = authorScoreFloor
	}
	return s
}

// ThemeSimilarity is binary: full credit when the artwork's theme is
// among the preferred labels, neutral when there is no restriction.
func (m *MatcherService) ThemeSimilarity(p *models.PreferenceProfile, a *models.Artwork) float64 {
	if len(p.PreferredThemes) == 0 {
		return themeNeutralScore
	}
	for _, t := range p.PreferredThemes {
		if t == a.Theme {
			return themeMatchScore
		}
	}
	return 0
}

// EraSimilarity keeps the best pairing between the artwork's eras and
// the preferred eras; zero when either side has none.
func (m *MatcherService) EraSimilarity(p *models.PreferenceProfile, a *models.Artwork) float64 {
	if len(a.EraIDs) == 0 || len(p.PreferredEras) == 0 {
		return 0
	}
	best := 0.0
	for _, ea := range a.EraIDs {
		for _, eb := range p.PreferredEras {
			s := eraBaseScore - eraDistancePenalty*math.Abs(float64(ea-eb))
			if s > best {
				best = s
			}
		}
	}
	return best
}

// minEraDistance returns the smallest id distance across all era
// pairs, and false when either side is empty.
func minEraDistance(a, b []int) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	min := math.MaxFloat64
	for _, ea := range a {
		for _, eb := range b {
			d := math.Abs(float64(ea - eb))
			if d < min {
				min = d
			}
		}
	}
	return min, true
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
