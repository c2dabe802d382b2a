package repository

import (
	"database/sql"
	"errors"
	"math"

	"museum_recommender/db"
	"museum_recommender/models"
)

// UpsertRating blends a freshly observed rating into the stored one
// for a (group, artwork) pair. The read-modify-write runs inside one
// transaction so two concurrent retains for the same group cannot lose
// an update.
//
// The old value keeps weight decay^n after n prior visits: decay 0
// overwrites, decay 1 keeps the stored rating untouched, and anything
// in between lets the prior fade as visits accumulate.
func UpsertRating(groupID string, artworkID int64, rating, decay float64) error {
	tx, err := db.DB.Beginx()
	if err != nil {
		return &models.StoreError{Op: "upsert rating", Err: err}
	}
	defer tx.Rollback()

	var prev models.RatingEntry
	err = tx.Get(&prev, `SELECT group_id, artwork_id, rating, visit_count FROM ratings WHERE group_id = ? AND artwork_id = ?`,
		groupID, artworkID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(`INSERT INTO ratings (group_id, artwork_id, rating, visit_count) VALUES (?, ?, ?, 1)`,
			groupID, artworkID, rating)
	case err == nil:
		w := math.Pow(decay, float64(prev.VisitCount))
		blended := w*prev.Rating + (1-w)*rating
		_, err = tx.Exec(`UPDATE ratings SET rating = ?, visit_count = visit_count + 1 WHERE group_id = ? AND artwork_id = ?`,
			blended, groupID, artworkID)
	}
	if err != nil {
		return &models.StoreError{Op: "upsert rating", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "upsert rating", Err: err}
	}
	return nil
}

// GroupRatings returns one group's row of the rating matrix.
func GroupRatings(groupID string) (map[int64]float64, error) {
	var rows []models.RatingEntry
	err := db.DB.Select(&rows, `SELECT group_id, artwork_id, rating, visit_count FROM ratings WHERE group_id = ?`, groupID)
	if err != nil {
		return nil, &models.StoreError{Op: "group ratings", Err: err}
	}
	out := make(map[int64]float64, len(rows))
	for _, r := range rows {
		out[r.ArtworkID] = r.Rating
	}
	return out, nil
}

// RatingMatrix loads the full sparse matrix keyed by group then
// artwork.
func RatingMatrix() (map[string]map[int64]float64, error) {
	var rows []models.RatingEntry
	err := db.DB.Select(&rows, `SELECT group_id, artwork_id, rating, visit_count FROM ratings`)
	if err != nil {
		return nil, &models.StoreError{Op: "rating matrix", Err: err}
	}
	matrix := make(map[string]map[int64]float64)
	for _, r := range rows {
		row, ok := matrix[r.GroupID]
		if !ok {
			row = make(map[int64]float64)
			matrix[r.GroupID] = row
		}
		row[r.ArtworkID] = r.Rating
	}
	return matrix, nil
}
