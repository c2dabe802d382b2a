package models

// VisitCase is one persisted visit outcome: the profile that produced
// the route, what was actually visited, and how it was received.
// usage_count, redundancy and utility are derived by the maintenance
// batch, not set by callers.
type VisitCase struct {
	ID                int64       `db:"id" json:"id"`
	VisitID           string      `db:"visit_id" json:"visit_id"`
	GroupID           string      `db:"group_id" json:"group_id"`
	GroupSizeClass    int         `db:"group_size_class" json:"group_size_class"`
	GroupType         string      `db:"group_type" json:"group_type"`
	KnowledgeLevel    int         `db:"knowledge_level" json:"knowledge_level"`
	PreferredEras     IntList     `db:"preferred_eras" json:"preferred_eras"`
	PreferredAuthor   string      `db:"preferred_author" json:"preferred_author"`
	PreferredThemes   StringList  `db:"preferred_themes" json:"preferred_themes"`
	PacingCoefficient float64     `db:"pacing_coefficient" json:"pacing_coefficient"`
	Description       string      `db:"description" json:"description"`
	ClusterID         string      `db:"cluster_id" json:"cluster_id"`
	OrderedArtworks   Int64List   `db:"ordered_artworks" json:"ordered_artworks"`
	MatchScores       Float64List `db:"match_scores" json:"match_scores"`
	VisitedCount      int         `db:"visited_count" json:"visited_count"`
	Rating            float64     `db:"rating" json:"rating"`
	Feedback          string      `db:"feedback" json:"feedback"`
	UsageCount        int         `db:"usage_count" json:"usage_count"`
	Redundancy        float64     `db:"redundancy" json:"redundancy"`
	Utility           float64     `db:"utility" json:"utility"`
}

// Profile reconstructs the preference profile stored in the case.
func (c *VisitCase) Profile() *PreferenceProfile {
	return &PreferenceProfile{
		GroupID:           c.GroupID,
		GroupSizeClass:    c.GroupSizeClass,
		GroupType:         GroupType(c.GroupType),
		KnowledgeLevel:    c.KnowledgeLevel,
		PreferredEras:     []int(c.PreferredEras),
		PreferredAuthor:   c.PreferredAuthor,
		PreferredThemes:   []string(c.PreferredThemes),
		PacingCoefficient: c.PacingCoefficient,
		Description:       c.Description,
		ClusterID:         c.ClusterID,
	}
}

// Visited returns the prefix of the route that was actually walked,
// with the match scores recorded at recommendation time.
func (c *VisitCase) Visited() ([]int64, []float64) {
	n := c.VisitedCount
	if n > len(c.OrderedArtworks) {
		n = len(c.OrderedArtworks)
	}
	if n > len(c.MatchScores) {
		n = len(c.MatchScores)
	}
	return c.OrderedArtworks[:n], c.MatchScores[:n]
}

// VisitOutcome is what a concluded visit reports back for Retain.
type VisitOutcome struct {
	VisitID         string    `json:"visit_id"` // client-supplied UUID, dedupes retries
	OrderedArtworks []int64   `json:"ordered_artworks"`
	MatchScores     []float64 `json:"match_scores"`
	VisitedCount    int       `json:"visited_count"`
	Rating          float64   `json:"rating"` // 1-5, one decimal
	Feedback        string    `json:"feedback"`
}

// RetrievedCase is one Retrieve hit with its similarity to the query
// profile and the rating-weighted retrieval score.
type RetrievedCase struct {
	Case       *VisitCase `json:"case"`
	Similarity float64    `json:"similarity"`
	Score      float64    `json:"score"` // similarity x stored rating
}
