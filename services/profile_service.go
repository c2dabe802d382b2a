package services

import (
	"museum_recommender/models"
	"museum_recommender/utils"
)

// Pacing adjustments. The coefficient scales every artwork's base
// visit minutes for this group.
const (
	pacingBase            = 1.0
	pacingFamilyExtra     = 0.2
	pacingScholarExtra    = 0.5
	pacingMobilityExtra   = 0.3
	pacingLargeGroupExtra = 0.2
)

// ResolveProfile turns a raw questionnaire into a normalized,
// validated preference profile. The profile is immutable from here on.
func ResolveProfile(q *models.Questionnaire) (*models.PreferenceProfile, error) {
	if q == nil {
		return nil, &models.ValidationError{Field: "questionnaire", Reason: "must not be nil"}
	}
	if q.GroupID == "" {
		return nil, &models.ValidationError{Field: "group_id", Reason: "must not be empty"}
	}
	total := q.AdultCount + q.ChildCount
	if total <= 0 {
		return nil, &models.ValidationError{Field: "group size", Reason: "group must have at least one member"}
	}
	if q.AdultCount < 0 || q.ChildCount < 0 {
		return nil, &models.ValidationError{Field: "group size", Reason: "member counts must not be negative"}
	}
	if q.KnowledgeLevel < 1 || q.KnowledgeLevel > 4 {
		return nil, &models.ValidationError{Field: "knowledge_level", Reason: "must be in 1..4"}
	}

	sizeClass := groupSizeClass(total)
	groupType := inferGroupType(q)

	pacing := pacingBase
	switch groupType {
	case models.GroupFamily:
		pacing += pacingFamilyExtra
	case models.GroupScholar:
		pacing += pacingScholarExtra
	}
	if q.ReducedMobility {
		pacing += pacingMobilityExtra
	}
	if sizeClass == 4 {
		pacing += pacingLargeGroupExtra
	}

	p := &models.PreferenceProfile{
		GroupID:           q.GroupID,
		GroupSizeClass:    sizeClass,
		GroupType:         groupType,
		KnowledgeLevel:    q.KnowledgeLevel,
		PreferredEras:     utils.DeduplicateInts(q.PreferredEras),
		PreferredAuthor:   q.PreferredAuthor,
		PreferredThemes:   utils.DeduplicateSlice(q.PreferredThemes),
		PacingCoefficient: round2(pacing),
		Description:       q.Description,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func groupSizeClass(total int) int {
	switch {
	case total == 1:
		return 1
	case total == 2:
		return 2
	case total <= 5:
		return 3
	default:
		return 4
	}
}

// inferGroupType: any minors make it a family visit; a knowledgeable
// adult-only group is treated as scholars; everyone else is casual.
func inferGroupType(q *models.Questionnaire) models.GroupType {
	if q.ChildCount > 0 {
		return models.GroupFamily
	}
	if q.KnowledgeLevel >= 3 {
		return models.GroupScholar
	}
	return models.GroupCasual
}
