package models

// RatingEntry is one row of the sparse group x artwork rating matrix.
// The rating is a decayed running average over visits, not a plain
// mean.
type RatingEntry struct {
	GroupID    string  `db:"group_id" json:"group_id"`
	ArtworkID  int64   `db:"artwork_id" json:"artwork_id"`
	Rating     float64 `db:"rating" json:"rating"`
	VisitCount int     `db:"visit_count" json:"visit_count"`
}
