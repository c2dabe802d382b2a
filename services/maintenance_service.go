package services

import (
	"math/rand"

	"museum_recommender/config"
	"museum_recommender/logger"
	"museum_recommender/models"
	"museum_recommender/repository"
)

// MaintenanceService recomputes the derived case fields (redundancy,
// utility) over the whole case base and forgets cases that stopped
// paying for themselves. It runs as a whole-table batch; callers must
// serialize runs against concurrent retains.
type MaintenanceService struct {
	cfg  *config.Config
	cbr  *CBRService
	seed int64
}

// NewMaintenanceService builds the maintenance batch. The seed fixes
// the redundancy sampling order so runs are reproducible.
func NewMaintenanceService(cfg *config.Config, cbr *CBRService, seed int64) *MaintenanceService {
	return &MaintenanceService{cfg: cfg, cbr: cbr, seed: seed}
}

// RunOnce recomputes utility for every case and deletes the ones at or
// below the forgetting threshold. Returns how many cases were updated
// and how many forgotten.
func (s *MaintenanceService) RunOnce() (int, int64, error) {
	cases, err := repository.ListAllCases()
	if err != nil {
		return 0, 0, err
	}
	if len(cases) == 0 {
		return 0, 0, nil
	}

	maxUsage := 0
	for i := range cases {
		if cases[i].UsageCount > maxUsage {
			maxUsage = cases[i].UsageCount
		}
	}

	updates := make([]repository.CaseMaintenanceUpdate, 0, len(cases))
	for i := range cases {
		c := &cases[i]

		feedback := normalizedFeedback(c)

		usage := 0.0
		if maxUsage > 0 {
			usage = float64(c.UsageCount) / float64(maxUsage)
		}

		redundancy := s.redundancy(i, cases)
		nonRedundancy := 1.0 - redundancy
		if nonRedundancy < 0 {
			nonRedundancy = 0
		}

		utility := round2(0.5*feedback + 0.3*usage + 0.2*nonRedundancy)
		utility = clamp01(utility)

		updates = append(updates, repository.CaseMaintenanceUpdate{
			CaseID:     c.ID,
			Redundancy: redundancy,
			Utility:    utility,
		})
	}

	if err := repository.UpdateMaintenance(updates); err != nil {
		return 0, 0, err
	}

	forgotten, err := repository.ForgetCases(s.cfg.CBR.ForgetThreshold)
	if err != nil {
		return len(updates), 0, err
	}
	logger.Info("case maintenance complete",
		"cases", len(updates), "forgotten", forgotten, "threshold", s.cfg.CBR.ForgetThreshold)
	return len(updates), forgotten, nil
}

// normalizedFeedback spreads the visit's single rating over the
// visited artworks by match-score share, floors each value at 70% of
// the rating so one poorly matched artwork cannot crater far below the
// overall satisfaction, then averages and maps onto [0,1].
func normalizedFeedback(c *models.VisitCase) float64 {
	_, scores := c.Visited()
	n := len(scores)
	if n == 0 {
		return clamp01(c.Rating / 5.0)
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}

	floor := 0.7 * c.Rating
	sum := 0.0
	for _, sc := range scores {
		share := 1.0 / float64(n)
		if total > 0 {
			share = sc / total
		}
		v := c.Rating * share * float64(n)
		if v < floor {
			v = floor
		}
		sum += v
	}
	return clamp01(sum / float64(n) / 5.0)
}

// redundancy is the mean similarity of case i against every other
// case; 0 when it is the only one. This is quadratic in the case base
// by construction; SamplePairs > 0 caps the comparisons per case with
// a deterministic sample, at the cost of an approximate value.
func (s *MaintenanceService) redundancy(i int, cases []models.VisitCase) float64 {
	if len(cases) < 2 {
		return 0
	}

	profile := cases[i].Profile()
	others := make([]int, 0, len(cases)-1)
	for j := range cases {
		if j != i {
			others = append(others, j)
		}
	}

	if limit := s.cfg.CBR.SamplePairs; limit > 0 && len(others) > limit {
		rng := rand.New(rand.NewSource(s.seed + cases[i].ID))
		rng.Shuffle(len(others), func(a, b int) {
			others[a], others[b] = others[b], others[a]
		})
		others = others[:limit]
	}

	sum := 0.0
	for _, j := range others {
		sum += s.cbr.CaseSimilarity(profile, &cases[j])
	}
	return sum / float64(len(others))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
