package services

import (
	"errors"

	"museum_recommender/logger"
	"museum_recommender/models"
)

// RecommenderService is the hybrid orchestrator: it exposes the CBR
// and CF rankings side by side for the same profile and coordinates
// the after-visit write-back into both stores. It never merges the two
// rankings; that choice belongs to the caller.
type RecommenderService struct {
	cbr        *CBRService
	cf         *CFService
	classifier ClusterClassifier
}

// NewRecommenderService wires the orchestrator.
func NewRecommenderService(cbr *CBRService, cf *CFService, classifier ClusterClassifier) *RecommenderService {
	return &RecommenderService{cbr: cbr, cf: cf, classifier: classifier}
}

// ensureCluster assigns the profile's cluster bucket when the caller
// did not supply one.
func (s *RecommenderService) ensureCluster(p *models.PreferenceProfile) error {
	if p.ClusterID != "" || s.classifier == nil {
		return nil
	}
	id, err := s.classifier.Classify(p)
	if err != nil {
		return err
	}
	p.ClusterID = id
	return nil
}

// Recommend returns both named rankings for the profile, keyed by
// artwork id. A group with no rating history simply gets an empty CF
// ranking next to the CBR one.
func (s *RecommenderService) Recommend(p *models.PreferenceProfile) (*models.HybridRecommendation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCluster(p); err != nil {
		return nil, err
	}

	cbrRanked, err := s.cbr.Reuse(p)
	if err != nil {
		return nil, err
	}

	cfRanked, err := s.cf.RecommendItems(p.GroupID)
	if err != nil {
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logger.Info("no rating history for group, CF ranking empty", "group_id", p.GroupID)
		cfRanked = nil
	}

	return &models.HybridRecommendation{CBR: cbrRanked, CF: cfRanked}, nil
}

// RetainVisit writes a concluded visit into the case base and the
// rating matrix. The case insert dedupes on the visit UUID; the rating
// upserts are idempotent only per retain, so a failure between the two
// writes is reported to the caller rather than retried blindly.
func (s *RecommenderService) RetainVisit(p *models.PreferenceProfile, outcome *models.VisitOutcome) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := s.ensureCluster(p); err != nil {
		return 0, err
	}

	caseID, err := s.cbr.Retain(p, outcome)
	if err != nil {
		return 0, err
	}

	err = s.cf.StoreGroupRatings(p.GroupID, outcome.OrderedArtworks, outcome.MatchScores, outcome.VisitedCount, outcome.Rating)
	if err != nil {
		logger.Error("case retained but rating write-back failed", "case_id", caseID, "error", err)
		return caseID, err
	}
	return caseID, nil
}

// Retrieve, Reuse and Revise are exposed for the web layer.

func (s *RecommenderService) Retrieve(p *models.PreferenceProfile, k int) ([]models.RetrievedCase, error) {
	if err := s.ensureCluster(p); err != nil {
		return nil, err
	}
	return s.cbr.Retrieve(p, k)
}

func (s *RecommenderService) Reuse(p *models.PreferenceProfile) ([]models.RankedArtwork, error) {
	if err := s.ensureCluster(p); err != nil {
		return nil, err
	}
	return s.cbr.Reuse(p)
}

func (s *RecommenderService) Revise(route []models.RankedArtwork, demoteTitle string) []models.RankedArtwork {
	return s.cbr.Revise(route, demoteTitle)
}

func (s *RecommenderService) RecommendItems(groupID string) ([]models.RankedArtwork, error) {
	return s.cf.RecommendItems(groupID)
}
