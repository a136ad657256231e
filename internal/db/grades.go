package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const gradeColumns = `id, user_id, subject, semester, final_grade, created_at, updated_at`

// UpsertFinalGrade saves a final grade. A second save for the same user, subject and
// semester replaces the first.
func (db *DB) UpsertFinalGrade(ctx context.Context, userID uuid.UUID, subject, semester string, grade float64) (*FinalGrade, error) {
	var g FinalGrade
	err := db.pool.QueryRow(ctx,
		`INSERT INTO final_grades (user_id, subject, semester, final_grade)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, subject, semester)
		 DO UPDATE SET final_grade = EXCLUDED.final_grade, updated_at = NOW()
		 RETURNING `+gradeColumns,
		userID, subject, semester, grade,
	).Scan(&g.ID, &g.UserID, &g.Subject, &g.Semester, &g.FinalGrade, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save final grade for %s: %w", subject, err)
	}
	return &g, nil
}

// GetFinalGrade retrieves one saved grade. Returns nil when nothing is saved.
func (db *DB) GetFinalGrade(ctx context.Context, userID uuid.UUID, subject, semester string) (*FinalGrade, error) {
	var g FinalGrade
	err := db.pool.QueryRow(ctx,
		`SELECT `+gradeColumns+` FROM final_grades
		 WHERE user_id = $1 AND subject = $2 AND semester = $3`,
		userID, subject, semester,
	).Scan(&g.ID, &g.UserID, &g.Subject, &g.Semester, &g.FinalGrade, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get final grade for %s: %w", subject, err)
	}
	return &g, nil
}

// ListFinalGrades returns a user's grades for a semester ordered by subject
func (db *DB) ListFinalGrades(ctx context.Context, userID uuid.UUID, semester string) ([]FinalGrade, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+gradeColumns+` FROM final_grades
		 WHERE user_id = $1 AND semester = $2
		 ORDER BY subject`,
		userID, semester,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list final grades: %w", err)
	}
	defer rows.Close()

	var grades []FinalGrade
	for rows.Next() {
		var g FinalGrade
		if err := rows.Scan(&g.ID, &g.UserID, &g.Subject, &g.Semester, &g.FinalGrade, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan final grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate final grades: %w", err)
	}
	return grades, nil
}

// DeleteFinalGrade removes a saved grade and reports whether one existed
func (db *DB) DeleteFinalGrade(ctx context.Context, userID uuid.UUID, subject, semester string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM final_grades WHERE user_id = $1 AND subject = $2 AND semester = $3`,
		userID, subject, semester,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete final grade for %s: %w", subject, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListSemesterGrades returns every saved grade of a semester with the owner's name
func (db *DB) ListSemesterGrades(ctx context.Context, semester string) ([]SemesterGrade, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT g.user_id, u.name, g.subject, g.final_grade
		 FROM final_grades g
		 JOIN users u ON u.id = g.user_id
		 WHERE g.semester = $1
		 ORDER BY g.user_id, g.subject`,
		semester,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list semester grades: %w", err)
	}
	defer rows.Close()

	var grades []SemesterGrade
	for rows.Next() {
		var g SemesterGrade
		if err := rows.Scan(&g.UserID, &g.UserName, &g.Subject, &g.FinalGrade); err != nil {
			return nil, fmt.Errorf("failed to scan semester grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate semester grades: %w", err)
	}
	return grades, nil
}
