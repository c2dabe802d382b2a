package models

// GroupType classifies the visiting group.
type GroupType string

const (
	GroupCasual  GroupType = "casual"
	GroupFamily  GroupType = "family"
	GroupScholar GroupType = "scholar"
)

// Questionnaire is the raw questionnaire a group fills in before the
// visit. The resolver turns it into a PreferenceProfile.
type Questionnaire struct {
	GroupID         string   `json:"group_id"`
	AdultCount      int      `json:"adult_count"`
	ChildCount      int      `json:"child_count"`
	KnowledgeLevel  int      `json:"knowledge_level"` // 1..4
	PreferredEras   []int    `json:"preferred_eras"`
	PreferredAuthor string   `json:"preferred_author"`
	PreferredThemes []string `json:"preferred_themes"`
	ReducedMobility bool     `json:"reduced_mobility"`
	Description     string   `json:"description"`
}

// PreferenceProfile is the normalized preference record derived from a
// questionnaire. It is created once and never mutated afterwards.
type PreferenceProfile struct {
	GroupID           string    `json:"group_id"`
	GroupSizeClass    int       `json:"group_size_class"` // 1..4
	GroupType         GroupType `json:"group_type"`
	KnowledgeLevel    int       `json:"knowledge_level"` // 1..4
	PreferredEras     []int     `json:"preferred_eras"`  // empty = any
	PreferredAuthor   string    `json:"preferred_author"`
	PreferredThemes   []string  `json:"preferred_themes"`
	PacingCoefficient float64   `json:"pacing_coefficient"`
	Description       string    `json:"description"`
	ClusterID         string    `json:"cluster_id"` // assigned by the external classifier
}

// Validate checks the profile's range invariants. A failure means the
// profile must not be processed at all.
func (p *PreferenceProfile) Validate() error {
	if p.GroupID == "" {
		return &ValidationError{Field: "group_id", Reason: "must not be empty"}
	}
	if p.GroupSizeClass < 1 || p.GroupSizeClass > 4 {
		return &ValidationError{Field: "group_size_class", Reason: "must be in 1..4"}
	}
	switch p.GroupType {
	case GroupCasual, GroupFamily, GroupScholar:
	default:
		return &ValidationError{Field: "group_type", Reason: "must be casual, family or scholar"}
	}
	if p.KnowledgeLevel < 1 || p.KnowledgeLevel > 4 {
		return &ValidationError{Field: "knowledge_level", Reason: "must be in 1..4"}
	}
	if p.PacingCoefficient <= 0 {
		return &ValidationError{Field: "pacing_coefficient", Reason: "must be positive"}
	}
	return nil
}
