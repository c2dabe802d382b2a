package services

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"

	"museum_recommender/config"
	"museum_recommender/logger"
	"museum_recommender/models"
	"museum_recommender/repository"
)

// similarityWeights is one fixed weight table for case-to-profile
// similarity. Each table sums to 1.0, so a perfect match scores
// exactly 1.
type similarityWeights struct {
	Size        float64
	Type        float64
	Knowledge   float64
	Era         float64
	Author      float64
	Theme       float64
	Pacing      float64
	Description float64
}

var (
	// Used when no textual description is available on either side.
	weightsNoDescription = similarityWeights{
		Size: 0.05, Type: 0.1, Knowledge: 0.2, Era: 0.2,
		Author: 0.2, Theme: 0.2, Pacing: 0.05, Description: 0,
	}
	// Used when both the query and the stored case carry a
	// description; part of the structured weight is shifted onto the
	// text signal.
	weightsWithDescription = similarityWeights{
		Size: 0.05, Type: 0.05, Knowledge: 0.1, Era: 0.2,
		Author: 0.2, Theme: 0.2, Pacing: 0.05, Description: 0.15,
	}
)

// CBRService runs the Retrieve / Reuse / Revise / Retain cycle over
// the persisted case base.
type CBRService struct {
	cfg        *config.Config
	matcher    *MatcherService
	catalog    *models.Catalog
	authors    *models.AuthorRegistry
	embedder   TextSimilarity    // nil = description signal unused
	classifier ClusterClassifier // nil = profiles must arrive pre-clustered
}

// NewCBRService wires the reasoner to its collaborators.
func NewCBRService(cfg *config.Config, matcher *MatcherService, catalog *models.Catalog, authors *models.AuthorRegistry, embedder TextSimilarity, classifier ClusterClassifier) *CBRService {
	return &CBRService{
		cfg:        cfg,
		matcher:    matcher,
		catalog:    catalog,
		authors:    authors,
		embedder:   embedder,
		classifier: classifier,
	}
}

// CaseSimilarity computes the weighted similarity between a query
// profile and one stored case, in [0,1].
func (s *CBRService) CaseSimilarity(p *models.PreferenceProfile, c *models.VisitCase) float64 {
	stored := c.Profile()

	useDescription := s.embedder != nil && p.Description != "" && stored.Description != ""
	w := weightsNoDescription
	if useDescription {
		w = weightsWithDescription
	}

	sim := 0.0
	sim += creditByDistance(absInt(p.GroupSizeClass-stored.GroupSizeClass), w.Size)
	if p.GroupType == stored.GroupType {
		sim += w.Type
	}
	sim += creditByDistance(absInt(p.KnowledgeLevel-stored.KnowledgeLevel), w.Knowledge)
	sim += s.eraOverlapCredit(p.PreferredEras, stored.PreferredEras, w.Era)
	sim += s.authorCredit(p.PreferredAuthor, stored.PreferredAuthor, w.Author)
	if hasCommonString(p.PreferredThemes, stored.PreferredThemes) {
		sim += w.Theme
	}
	sim += pacingCredit(math.Abs(p.PacingCoefficient-stored.PacingCoefficient), w.Pacing)
	if useDescription {
		sim += s.descriptionCredit(p.Description, stored.Description, w.Description)
	}
	return sim
}

// creditByDistance maps an integer attribute distance to full, half or
// 10% of the weight.
func creditByDistance(d int, w float64) float64 {
	switch d {
	case 0:
		return w
	case 1:
		return 0.5 * w
	default:
		return 0.1 * w
	}
}

// pacingCredit applies the same tiering to the pacing coefficient
// difference with thresholds at 0.25 and beyond.
func pacingCredit(d, w float64) float64 {
	switch {
	case d < 1e-9:
		return w
	case d <= 0.25:
		return 0.5 * w
	default:
		return 0.1 * w
	}
}

// eraOverlapCredit grants era credit only when at least one stored era
// is also preferred by the query; the weight scales down with every
// stored era left unmatched.
func (s *CBRService) eraOverlapCredit(query, stored []int, w float64) float64 {
	matched := 0
	for _, e := range stored {
		for _, q := range query {
			if e == q {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}
	factor := 1.0 - math.Abs(float64(len(stored)-matched))
	if factor < 0 {
		factor = 0
	}
	return w * factor
}

// authorCredit gives full weight on an exact name match. Otherwise the
// two authors are compared through their principal-era overlap, with a
// bonus when the curated graph lists one as a neighbor of the other;
// the total is capped at the full weight.
func (s *CBRService) authorCredit(query, stored string, w float64) float64 {
	if query == stored {
		return w
	}
	a, okA := s.authors.ByName(query)
	b, okB := s.authors.ByName(stored)
	if !okA || !okB {
		return 0
	}
	credit := 0.5 * w * eraOverlapFraction(a.EraIDs, b.EraIDs)
	if s.authors.Lists(a.ID, b.ID) || s.authors.Lists(b.ID, a.ID) {
		credit += 0.8 * w
	}
	if credit > w {
		credit = w
	}
	return credit
}

// eraOverlapFraction is the fraction of the two era sets that is
// shared (intersection over union); 0 when both are empty.
func eraOverlapFraction(a, b []int) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[int]bool, len(a))
	for _, e := range a {
		set[e] = true
	}
	inter := 0
	union := len(set)
	for _, e := range b {
		if set[e] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// descriptionCredit rescales the collaborator's text similarity
// through a logistic centered on the configured threshold, so scores
// just below it contribute almost nothing.
func (s *CBRService) descriptionCredit(a, b string, w float64) float64 {
	sim, err := s.embedder.Similarity(a, b)
	if err != nil {
		logger.Warn("description similarity unavailable", "error", err)
		return 0
	}
	scaled := 1.0 / (1.0 + math.Exp(-s.cfg.CBR.DescSteepness*(sim-s.cfg.CBR.DescThreshold)))
	return w * scaled
}

// Retrieve returns the top-k cases of the profile's cluster ranked by
// similarity x stored rating, incrementing usage_count on each one
// returned. An empty cluster yields EmptyCaseBaseError.
func (s *CBRService) Retrieve(p *models.PreferenceProfile, k int) ([]models.RetrievedCase, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cases, err := repository.ListCasesByCluster(p.ClusterID)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, &models.EmptyCaseBaseError{ClusterID: p.ClusterID}
	}

	retrieved := make([]models.RetrievedCase, 0, len(cases))
	for i := range cases {
		c := &cases[i]
		sim := s.CaseSimilarity(p, c)
		retrieved = append(retrieved, models.RetrievedCase{
			Case:       c,
			Similarity: sim,
			Score:      sim * c.Rating,
		})
	}
	sort.SliceStable(retrieved, func(i, j int) bool {
		return retrieved[i].Score > retrieved[j].Score
	})
	if k > 0 && len(retrieved) > k {
		retrieved = retrieved[:k]
	}

	ids := make([]int64, len(retrieved))
	for i, rc := range retrieved {
		ids[i] = rc.Case.ID
	}
	if err := repository.IncrementUsage(ids); err != nil {
		return nil, err
	}
	for _, rc := range retrieved {
		rc.Case.UsageCount++
	}
	return retrieved, nil
}

// Reuse fuses three signals per catalog artwork: how often the
// retrieved cases visited it, how early in their routes it appeared,
// and its content-matcher score for the query profile. Each signal is
// min-max normalized over the catalog before weighting. With no
// retrievable cases the route degrades to a pure content ranking.
func (s *CBRService) Reuse(p *models.PreferenceProfile) ([]models.RankedArtwork, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	retrieved, err := s.Retrieve(p, s.cfg.CBR.TopK)
	if err != nil {
		var empty *models.EmptyCaseBaseError
		if !errors.As(err, &empty) {
			return nil, err
		}
		logger.Info("case base empty for cluster, using content ranking only", "cluster_id", p.ClusterID)
		retrieved = nil
	}

	arts := s.catalog.Artworks()
	index := make(map[int64]int, len(arts))
	for i := range arts {
		index[arts[i].ID] = i
	}

	freq := make([]float64, len(arts))
	posTotal := make([]float64, len(arts))
	matchScores := make([]float64, len(arts))

	scores := s.matcher.MatchMap(p)
	for i := range arts {
		matchScores[i] = scores[arts[i].ID]
	}
	for _, rc := range retrieved {
		visited, _ := rc.Case.Visited()
		for pos, id := range visited {
			i, ok := index[id]
			if !ok {
				continue // artwork no longer in the catalog
			}
			freq[i]++
			posTotal[i] += float64(pos + 1)
		}
	}

	// 1/avg ranks earlier average positions higher; never-visited
	// artworks stay at zero.
	posSignal := make([]float64, len(arts))
	for i := range arts {
		if freq[i] > 0 {
			avg := posTotal[i] / freq[i]
			posSignal[i] = 1.0 / avg
		}
	}

	normFreq := minMaxNormalize(freq)
	normMatch := minMaxNormalize(matchScores)
	normPos := minMaxNormalize(posSignal)

	ranked := make([]models.RankedArtwork, len(arts))
	for i := range arts {
		total := s.cfg.CBR.FreqWeight*normFreq[i] +
			s.cfg.CBR.MatchWeight*normMatch[i] +
			s.cfg.CBR.PositionWeight*normPos[i]
		ranked[i] = models.RankedArtwork{ArtworkID: arts[i].ID, Score: total}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit := s.cfg.Matcher.RouteLength; limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Revise honors explicit negative feedback about one artwork by
// demoting it to the end of the route. The artwork stays in the route;
// it is not removed.
func (s *CBRService) Revise(route []models.RankedArtwork, demoteTitle string) []models.RankedArtwork {
	art, ok := s.catalog.GetByTitle(demoteTitle)
	if !ok {
		return route
	}
	for i := range route {
		if route[i].ArtworkID == art.ID {
			demoted := route[i]
			out := make([]models.RankedArtwork, 0, len(route))
			out = append(out, route[:i]...)
			out = append(out, route[i+1:]...)
			return append(out, demoted)
		}
	}
	return route
}

// Retain stores a concluded visit as a new case. A visit UUID already
// present in the store makes the call a no-op returning the existing
// case id, so retried retains never double-count.
func (s *CBRService) Retain(p *models.PreferenceProfile, outcome *models.VisitOutcome) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := s.validateOutcome(outcome); err != nil {
		return 0, err
	}

	visitID := outcome.VisitID
	if visitID == "" {
		visitID = uuid.NewString()
	} else {
		existing, err := repository.GetCaseByVisitID(visitID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			logger.Info("visit already retained", "visit_id", visitID, "case_id", existing.ID)
			return existing.ID, nil
		}
	}

	clusterID := p.ClusterID
	if clusterID == "" && s.classifier != nil {
		id, err := s.classifier.Classify(p)
		if err != nil {
			return 0, err
		}
		clusterID = id
	}

	c := &models.VisitCase{
		VisitID:           visitID,
		GroupID:           p.GroupID,
		GroupSizeClass:    p.GroupSizeClass,
		GroupType:         string(p.GroupType),
		KnowledgeLevel:    p.KnowledgeLevel,
		PreferredEras:     models.IntList(p.PreferredEras),
		PreferredAuthor:   p.PreferredAuthor,
		PreferredThemes:   models.StringList(p.PreferredThemes),
		PacingCoefficient: p.PacingCoefficient,
		Description:       p.Description,
		ClusterID:         clusterID,
		OrderedArtworks:   models.Int64List(outcome.OrderedArtworks),
		MatchScores:       models.Float64List(outcome.MatchScores),
		VisitedCount:      outcome.VisitedCount,
		Rating:            outcome.Rating,
		Feedback:          outcome.Feedback,
	}
	id, err := repository.InsertCase(c)
	if err != nil {
		return 0, err
	}
	logger.Info("case retained", "case_id", id, "group_id", p.GroupID, "cluster_id", clusterID)
	return id, nil
}

func (s *CBRService) validateOutcome(outcome *models.VisitOutcome) error {
	if outcome == nil {
		return &models.ValidationError{Field: "outcome", Reason: "must not be nil"}
	}
	if outcome.VisitID != "" {
		if _, err := uuid.Parse(outcome.VisitID); err != nil {
			return &models.ValidationError{Field: "visit_id", Reason: "must be a UUID"}
		}
	}
	if len(outcome.OrderedArtworks) != len(outcome.MatchScores) {
		return &models.ValidationError{Field: "match_scores", Reason: "must parallel ordered_artworks"}
	}
	if outcome.VisitedCount < 0 || outcome.VisitedCount > len(outcome.OrderedArtworks) {
		return &models.ValidationError{Field: "visited_count", Reason: "must be within ordered_artworks"}
	}
	if outcome.Rating < s.cfg.CF.RatingMin || outcome.Rating > s.cfg.CF.RatingMax {
		return &models.ValidationError{Field: "rating", Reason: "outside the configured rating range"}
	}
	return nil
}

// minMaxNormalize rescales to [0,1]; a constant signal keeps the
// denominator at 1 so everything collapses to zero instead of
// dividing by zero.
func minMaxNormalize(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	den := max - min
	if den == 0 {
		den = 1
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - min) / den
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func hasCommonString(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
