package repository

import (
	"museum_recommender/db"
	"museum_recommender/models"
)

// artworkRow mirrors the artworks table; the list columns use the JSON
// codec types.
type artworkRow struct {
	ID               int64          `db:"id"`
	Title            string         `db:"title"`
	AuthorID         int64          `db:"author_id"`
	EraIDs           models.IntList `db:"era_ids"`
	Theme            string         `db:"theme"`
	BaseVisitMinutes int            `db:"base_visit_minutes"`
}

type authorRow struct {
	ID         int64            `db:"id"`
	Name       string           `db:"name"`
	EraIDs     models.IntList   `db:"era_ids"`
	SimilarIDs models.Int64List `db:"similar_ids"`
}

// LoadCatalog reads the full artwork catalog in id order. The result
// becomes the immutable Catalog built once at startup.
func LoadCatalog() ([]models.Artwork, error) {
	var rows []artworkRow
	if err := db.DB.Select(&rows, `SELECT id, title, author_id, era_ids, theme, base_visit_minutes FROM artworks ORDER BY id`); err != nil {
		return nil, &models.StoreError{Op: "load catalog", Err: err}
	}

	artworks := make([]models.Artwork, 0, len(rows))
	for _, r := range rows {
		artworks = append(artworks, models.Artwork{
			ID:               r.ID,
			Title:            r.Title,
			AuthorID:         r.AuthorID,
			EraIDs:           []int(r.EraIDs),
			Theme:            r.Theme,
			BaseVisitMinutes: r.BaseVisitMinutes,
		})
	}
	return artworks, nil
}

// LoadAuthors reads the curated author table, similar-author graph
// included.
func LoadAuthors() ([]models.Author, error) {
	var rows []authorRow
	if err := db.DB.Select(&rows, `SELECT id, name, era_ids, similar_ids FROM authors ORDER BY id`); err != nil {
		return nil, &models.StoreError{Op: "load authors", Err: err}
	}

	authors := make([]models.Author, 0, len(rows))
	for _, r := range rows {
		authors = append(authors, models.Author{
			ID:         r.ID,
			Name:       r.Name,
			EraIDs:     []int(r.EraIDs),
			SimilarIDs: []int64(r.SimilarIDs),
		})
	}
	return authors, nil
}

// SeedCatalog inserts reference data, used by the sqlite bootstrap and
// tests. Existing rows with the same id are replaced.
func SeedCatalog(authors []models.Author, artworks []models.Artwork) error {
	tx, err := db.DB.Beginx()
	if err != nil {
		return &models.StoreError{Op: "seed catalog", Err: err}
	}
	defer tx.Rollback()

	for _, a := range authors {
		_, err = tx.Exec(`REPLACE INTO authors (id, name, era_ids, similar_ids) VALUES (?, ?, ?, ?)`,
			a.ID, a.Name, models.IntList(a.EraIDs), models.Int64List(a.SimilarIDs))
		if err != nil {
			return &models.StoreError{Op: "seed authors", Err: err}
		}
	}
	for _, a := range artworks {
		_, err = tx.Exec(`REPLACE INTO artworks (id, title, author_id, era_ids, theme, base_visit_minutes) VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.Title, a.AuthorID, models.IntList(a.EraIDs), a.Theme, a.BaseVisitMinutes)
		if err != nil {
			return &models.StoreError{Op: "seed artworks", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "seed catalog", Err: err}
	}
	return nil
}
