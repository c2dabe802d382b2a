package repository

import (
	"database/sql"
	"errors"
	"strings"

	"museum_recommender/db"
	"museum_recommender/models"
)

const caseColumns = `id, visit_id, group_id, group_size_class, group_type, knowledge_level,
	preferred_eras, preferred_author, preferred_themes, pacing_coefficient,
	description, cluster_id, ordered_artworks, match_scores, visited_count,
	rating, feedback, usage_count, redundancy, utility`

// ListCasesByCluster returns every stored case sharing the cluster id.
func ListCasesByCluster(clusterID string) ([]models.VisitCase, error) {
	var cases []models.VisitCase
	err := db.DB.Select(&cases, `SELECT `+caseColumns+` FROM cases WHERE cluster_id = ?`, clusterID)
	if err != nil {
		return nil, &models.StoreError{Op: "list cases by cluster", Err: err}
	}
	return cases, nil
}

// ListAllCases returns the whole case base; used by the utility
// maintenance batch.
func ListAllCases() ([]models.VisitCase, error) {
	var cases []models.VisitCase
	err := db.DB.Select(&cases, `SELECT `+caseColumns+` FROM cases ORDER BY id`)
	if err != nil {
		return nil, &models.StoreError{Op: "list all cases", Err: err}
	}
	return cases, nil
}

// GetCaseByVisitID returns the case retained for a visit UUID, or nil
// when the visit has not been retained yet.
func GetCaseByVisitID(visitID string) (*models.VisitCase, error) {
	var c models.VisitCase
	err := db.DB.Get(&c, `SELECT `+caseColumns+` FROM cases WHERE visit_id = ?`, visitID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StoreError{Op: "get case by visit id", Err: err}
	}
	return &c, nil
}

// InsertCase stores a new case and returns its id.
func InsertCase(c *models.VisitCase) (int64, error) {
	res, err := db.DB.Exec(`INSERT INTO cases
		(visit_id, group_id, group_size_class, group_type, knowledge_level,
		 preferred_eras, preferred_author, preferred_themes, pacing_coefficient,
		 description, cluster_id, ordered_artworks, match_scores, visited_count,
		 rating, feedback, usage_count, redundancy, utility)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0)`,
		c.VisitID, c.GroupID, c.GroupSizeClass, c.GroupType, c.KnowledgeLevel,
		c.PreferredEras, c.PreferredAuthor, c.PreferredThemes, c.PacingCoefficient,
		c.Description, c.ClusterID, c.OrderedArtworks, c.MatchScores, c.VisitedCount,
		c.Rating, c.Feedback)
	if err != nil {
		return 0, &models.StoreError{Op: "insert case", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &models.StoreError{Op: "insert case", Err: err}
	}
	return id, nil
}

// IncrementUsage bumps usage_count for the retrieved cases in one
// short transaction, so a failed retrieval never half-counts.
func IncrementUsage(caseIDs []int64) error {
	if len(caseIDs) == 0 {
		return nil
	}
	tx, err := db.DB.Beginx()
	if err != nil {
		return &models.StoreError{Op: "increment usage", Err: err}
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(caseIDs)), ",")
	args := make([]any, len(caseIDs))
	for i, id := range caseIDs {
		args[i] = id
	}
	_, err = tx.Exec(`UPDATE cases SET usage_count = usage_count + 1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return &models.StoreError{Op: "increment usage", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "increment usage", Err: err}
	}
	return nil
}

// CaseMaintenanceUpdate carries the recomputed derived fields of one
// case.
type CaseMaintenanceUpdate struct {
	CaseID     int64
	Redundancy float64
	Utility    float64
}

// UpdateMaintenance writes a batch of redundancy/utility values in a
// single transaction; the batch is all-or-nothing.
func UpdateMaintenance(updates []CaseMaintenanceUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := db.DB.Beginx()
	if err != nil {
		return &models.StoreError{Op: "update maintenance", Err: err}
	}
	defer tx.Rollback()

	for _, u := range updates {
		_, err = tx.Exec(`UPDATE cases SET redundancy = ?, utility = ? WHERE id = ?`,
			u.Redundancy, u.Utility, u.CaseID)
		if err != nil {
			return &models.StoreError{Op: "update maintenance", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "update maintenance", Err: err}
	}
	return nil
}

// ForgetCases deletes every case whose utility is at or below the
// threshold and reports how many were removed. Deleting nothing is not
// an error.
func ForgetCases(threshold float64) (int64, error) {
	res, err := db.DB.Exec(`DELETE FROM cases WHERE utility <= ?`, threshold)
	if err != nil {
		return 0, &models.StoreError{Op: "forget cases", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &models.StoreError{Op: "forget cases", Err: err}
	}
	return n, nil
}

// CountCases reports the case base size.
func CountCases() (int, error) {
	var n int
	if err := db.DB.Get(&n, `SELECT COUNT(*) FROM cases`); err != nil {
		return 0, &models.StoreError{Op: "count cases", Err: err}
	}
	return n, nil
}
