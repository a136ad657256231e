package server

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/db"
	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/leaderboard"
	"github.com/jonathan/grade-calculator/internal/subjects"
	"golang.org/x/sync/errgroup"
)

// GradeStore persists final grades. *db.DB implements it.
type GradeStore interface {
	UpsertFinalGrade(ctx context.Context, userID uuid.UUID, subject, semester string, grade float64) (*db.FinalGrade, error)
	ListFinalGrades(ctx context.Context, userID uuid.UUID, semester string) ([]db.FinalGrade, error)
	DeleteFinalGrade(ctx context.Context, userID uuid.UUID, subject, semester string) (bool, error)
	ListSemesterGrades(ctx context.Context, semester string) ([]db.SemesterGrade, error)
}

// GradeService stores final grades and derives the summary and leaderboard views.
type GradeService struct {
	store    GradeStore
	semester string
}

// NewGradeService creates a GradeService writing to the given semester by default.
func NewGradeService(store GradeStore, semester string) *GradeService {
	return &GradeService{store: store, semester: semester}
}

// Dashboard bundles everything the signed-in landing page shows.
type Dashboard struct {
	Semester    string              `json:"semester"`
	Grades      []db.FinalGrade     `json:"grades"`
	Summary     leaderboard.Summary `json:"summary"`
	Leaderboard []leaderboard.Entry `json:"leaderboard"`
	Me          *leaderboard.Entry  `json:"me,omitempty"`
}

func (s *GradeService) resolveSemester(semester string) string {
	if semester = strings.TrimSpace(semester); semester != "" {
		return semester
	}
	return s.semester
}

// ParseFinalGrade validates a submitted percentage: it must be numeric and within 0..100.
func ParseFinalGrade(raw string) (float64, error) {
	grade, ok := grading.ParseOptional(raw)
	if !ok {
		return 0, &ErrValidation{Field: "final_grade", Message: "must be a number"}
	}
	if grade < 0 || grade > 100 {
		return 0, &ErrValidation{Field: "final_grade", Message: "must be between 0 and 100"}
	}
	return grade, nil
}

// Save records a final grade for a catalogued subject; a later save replaces it.
func (s *GradeService) Save(ctx context.Context, userID uuid.UUID, subject, rawGrade, semester string) (*db.FinalGrade, error) {
	name, ok := subjects.CanonicalName(subject)
	if !ok {
		return nil, &subjects.ErrUnknownSubject{Slug: subject}
	}
	grade, err := ParseFinalGrade(rawGrade)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.UpsertFinalGrade(ctx, userID, name, s.resolveSemester(semester), grade)
	if err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}
	log.Printf("[grades] saved %s=%.2f for user %s (%s)", name, grade, userID, saved.Semester)
	return saved, nil
}

// List returns the user's saved grades for a semester.
func (s *GradeService) List(ctx context.Context, userID uuid.UUID, semester string) ([]db.FinalGrade, error) {
	grades, err := s.store.ListFinalGrades(ctx, userID, s.resolveSemester(semester))
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	if grades == nil {
		grades = []db.FinalGrade{}
	}
	return grades, nil
}

// Delete removes one saved grade.
func (s *GradeService) Delete(ctx context.Context, userID uuid.UUID, subject, semester string) error {
	name, ok := subjects.CanonicalName(subject)
	if !ok {
		return &subjects.ErrUnknownSubject{Slug: subject}
	}
	deleted, err := s.store.DeleteFinalGrade(ctx, userID, name, s.resolveSemester(semester))
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if !deleted {
		return &ErrNotFound{Resource: "saved grade", ID: name}
	}
	return nil
}

// Summary averages the user's saved grades.
func (s *GradeService) Summary(ctx context.Context, userID uuid.UUID, semester string) (leaderboard.Summary, error) {
	grades, err := s.List(ctx, userID, semester)
	if err != nil {
		return leaderboard.Summary{}, err
	}
	return summarize(grades), nil
}

func summarize(grades []db.FinalGrade) leaderboard.Summary {
	values := make([]float64, len(grades))
	for i, g := range grades {
		values[i] = g.FinalGrade
	}
	return leaderboard.Summarize(values)
}

// Leaderboard ranks every user with saved grades in the semester.
func (s *GradeService) Leaderboard(ctx context.Context, currentUser uuid.UUID, semester string) ([]leaderboard.Entry, error) {
	rows, err := s.store.ListSemesterGrades(ctx, s.resolveSemester(semester))
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	lbRows := make([]leaderboard.Row, len(rows))
	for i, r := range rows {
		lbRows[i] = leaderboard.Row{
			UserID:     r.UserID.String(),
			Name:       r.UserName,
			Subject:    r.Subject,
			FinalGrade: r.FinalGrade,
		}
	}

	current := ""
	if currentUser != uuid.Nil {
		current = currentUser.String()
	}
	entries := leaderboard.Build(lbRows, current)
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return entries, nil
}

// Dashboard loads the user's grades and the leaderboard concurrently.
func (s *GradeService) Dashboard(ctx context.Context, userID uuid.UUID, semester string) (*Dashboard, error) {
	semester = s.resolveSemester(semester)
	d := &Dashboard{Semester: semester}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grades, err := s.List(gctx, userID, semester)
		if err != nil {
			return err
		}
		d.Grades = grades
		d.Summary = summarize(grades)
		return nil
	})
	g.Go(func() error {
		entries, err := s.Leaderboard(gctx, userID, semester)
		if err != nil {
			return err
		}
		d.Leaderboard = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if me, ok := leaderboard.Find(d.Leaderboard, userID.String()); ok {
		d.Me = &me
	}
	return d, nil
}
