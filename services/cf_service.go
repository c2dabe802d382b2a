package services

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"museum_recommender/config"
	"museum_recommender/logger"
	"museum_recommender/models"
	"museum_recommender/repository"
)

// CFService maintains the sparse group x artwork rating matrix and
// produces the collaborative ranking from it.
type CFService struct {
	cfg     *config.Config
	catalog *models.Catalog
}

// NewCFService builds the collaborative filter over the catalog.
func NewCFService(cfg *config.Config, catalog *models.Catalog) *CFService {
	return &CFService{cfg: cfg, catalog: catalog}
}

// StoreGroupRatings derives one rating per visited artwork from the
// single overall visit rating: each visited artwork moves away from
// the visit rating in proportion to how far its match share sits from
// an even split, floored at 70% of the rating and capped at the
// rating ceiling. Out-of-range visit ratings are rejected, not
// clamped. Each pair upsert runs in its own transaction.
func (s *CFService) StoreGroupRatings(groupID string, orderedItems []int64, matches []float64, visitedCount int, globalRating float64) error {
	if groupID == "" {
		return &models.ValidationError{Field: "group_id", Reason: "must not be empty"}
	}
	if len(orderedItems) != len(matches) {
		return &models.ValidationError{Field: "matches", Reason: "must parallel ordered items"}
	}
	if globalRating < s.cfg.CF.RatingMin || globalRating > s.cfg.CF.RatingMax {
		return &models.ValidationError{Field: "rating", Reason: "outside the configured rating range"}
	}
	if visitedCount < 0 || visitedCount > len(orderedItems) {
		return &models.ValidationError{Field: "visited_count", Reason: "must be within ordered items"}
	}

	items, ratings := s.DeriveItemRatings(orderedItems, matches, visitedCount, globalRating)
	for i, itemID := range items {
		if err := repository.UpsertRating(groupID, itemID, ratings[i], s.cfg.CF.Decay); err != nil {
			return err
		}
	}
	logger.Debug("group ratings stored", "group_id", groupID, "items", len(items))
	return nil
}

// DeriveItemRatings computes the per-artwork ratings for the visited
// subset: rating = global + gamma * (match share - 1/n).
func (s *CFService) DeriveItemRatings(orderedItems []int64, matches []float64, visitedCount int, globalRating float64) ([]int64, []float64) {
	n := visitedCount
	if n > len(orderedItems) {
		n = len(orderedItems)
	}
	if n == 0 {
		return nil, nil
	}

	visited := orderedItems[:n]
	visitedMatches := matches[:n]

	total := 0.0
	for _, m := range visitedMatches {
		total += m
	}

	floor := 0.7 * globalRating
	even := 1.0 / float64(n)
	ratings := make([]float64, n)
	for i, m := range visitedMatches {
		share := even
		if total > 0 {
			share = m / total
		}
		r := globalRating + s.cfg.CF.Gamma*(share-even)
		if r < floor {
			r = floor
		}
		if r > s.cfg.CF.RatingMax {
			r = s.cfg.CF.RatingMax
		}
		ratings[i] = r
	}
	return visited, ratings
}

// GroupSimilarity compares two groups over the items they both rated.
// No overlap means 0; identical overlap vectors score 1.
func (s *CFService) GroupSimilarity(a, b map[int64]float64) float64 {
	ids := make([]int64, 0, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	xs := make([]float64, len(ids))
	ys := make([]float64, len(ids))
	for i, id := range ids {
		xs[i] = a[id]
		ys[i] = b[id]
	}
	return s.similarityFromPairs(xs, ys)
}

// ItemSimilarity compares two artworks over the groups that rated
// both.
func (s *CFService) ItemSimilarity(a, b map[string]float64) float64 {
	groups := make([]string, 0, len(a))
	for g := range a {
		if _, ok := b[g]; ok {
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)

	xs := make([]float64, len(groups))
	ys := make([]float64, len(groups))
	for i, g := range groups {
		xs[i] = a[g]
		ys[i] = b[g]
	}
	return s.similarityFromPairs(xs, ys)
}

// similarityFromPairs scores two aligned rating vectors in [0,1].
// Cosine needs at least one common point, Pearson at least two; below
// that the similarity is a defined 0, never an error.
func (s *CFService) similarityFromPairs(xs, ys []float64) float64 {
	if s.cfg.CF.Similarity == "pearson" {
		if len(xs) < 2 {
			return 0
		}
		r := stat.Correlation(xs, ys, nil)
		if math.IsNaN(r) {
			return 0
		}
		return (r + 1) / 2
	}

	if len(xs) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range xs {
		dot += xs[i] * ys[i]
		na += xs[i] * xs[i]
		nb += ys[i] * ys[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if cos > 1 {
		cos = 1 // guard against float drift
	}
	return (cos + 1) / 2
}

type neighbor struct {
	key string
	sim float64
}

// RecommendItems blends a user-based and an item-based prediction per
// catalog artwork, each min-max normalized over the catalog, into one
// descending ranking.
func (s *CFService) RecommendItems(groupID string) ([]models.RankedArtwork, error) {
	matrix, err := repository.RatingMatrix()
	if err != nil {
		return nil, err
	}
	target, ok := matrix[groupID]
	if !ok {
		return nil, &models.NotFoundError{Kind: "group ratings", Key: groupID}
	}

	arts := s.catalog.Artworks()

	userPreds := s.userBasedPredictions(groupID, target, matrix, arts)
	itemPreds := s.itemBasedPredictions(target, matrix, arts)

	normUser := minMaxNormalize(userPreds)
	normItem := minMaxNormalize(itemPreds)

	alpha := s.cfg.CF.Alpha
	ranked := make([]models.RankedArtwork, len(arts))
	for i := range arts {
		ranked[i] = models.RankedArtwork{
			ArtworkID: arts[i].ID,
			Score:     alpha*normUser[i] + (1-alpha)*normItem[i],
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

// userBasedPredictions predicts each artwork's rating as the
// similarity-weighted average of the ratings the most similar other
// groups gave it.
func (s *CFService) userBasedPredictions(groupID string, target map[int64]float64, matrix map[string]map[int64]float64, arts []models.Artwork) []float64 {
	groups := make([]string, 0, len(matrix))
	for g := range matrix {
		if g != groupID {
			groups = append(groups, g)
		}
	}
	sort.Strings(groups) // map order is random; fix it for reproducibility

	neighbors := make([]neighbor, 0, len(groups))
	for _, g := range groups {
		if sim := s.GroupSimilarity(target, matrix[g]); sim > 0 {
			neighbors = append(neighbors, neighbor{key: g, sim: sim})
		}
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].sim > neighbors[j].sim
	})
	if k := s.cfg.CF.TopK; k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	preds := make([]float64, len(arts))
	for i := range arts {
		var num, den float64
		for _, nb := range neighbors {
			if r, ok := matrix[nb.key][arts[i].ID]; ok {
				num += nb.sim * r
				den += nb.sim
			}
		}
		if den > 0 {
			preds[i] = num / den
		}
	}
	return preds
}

// itemBasedPredictions predicts each artwork's rating from the target
// group's own ratings of the most similar rated items.
func (s *CFService) itemBasedPredictions(target map[int64]float64, matrix map[string]map[int64]float64, arts []models.Artwork) []float64 {
	// Column views of the matrix for the items involved.
	itemVec := make(map[int64]map[string]float64)
	column := func(itemID int64) map[string]float64 {
		if v, ok := itemVec[itemID]; ok {
			return v
		}
		v := make(map[string]float64)
		for g, row := range matrix {
			if r, ok := row[itemID]; ok {
				v[g] = r
			}
		}
		itemVec[itemID] = v
		return v
	}

	ratedItems := make([]int64, 0, len(target))
	for id := range target {
		ratedItems = append(ratedItems, id)
	}
	sort.Slice(ratedItems, func(i, j int) bool { return ratedItems[i] < ratedItems[j] })

	type itemNeighbor struct {
		id  int64
		sim float64
	}

	preds := make([]float64, len(arts))
	for i := range arts {
		itemID := arts[i].ID
		sims := make([]itemNeighbor, 0, len(ratedItems))
		for _, rated := range ratedItems {
			if rated == itemID {
				continue
			}
			if sim := s.ItemSimilarity(column(itemID), column(rated)); sim > 0 {
				sims = append(sims, itemNeighbor{id: rated, sim: sim})
			}
		}
		sort.SliceStable(sims, func(a, b int) bool {
			return sims[a].sim > sims[b].sim
		})
		if k := s.cfg.CF.TopK; k > 0 && len(sims) > k {
			sims = sims[:k]
		}

		var num, den float64
		for _, nb := range sims {
			num += nb.sim * target[nb.id]
			den += nb.sim
		}
		if den > 0 {
			preds[i] = num / den
		}
	}
	return preds
}
