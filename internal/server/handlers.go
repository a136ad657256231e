package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/jonathan/grade-calculator/internal/attendance"
	"github.com/jonathan/grade-calculator/internal/budget"
	"github.com/jonathan/grade-calculator/internal/db"
	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/server/middleware"
	"github.com/jonathan/grade-calculator/internal/subjects"
	"github.com/jonathan/grade-calculator/internal/types"
)

// linearOr resolves an optional per-request GPA policy against the server default.
func (s *Server) linearOr(linear *bool) bool {
	if linear != nil {
		return *linear
	}
	return s.cfg.LinearGPA
}

// CalculateRequest is the body of POST /calculate.
type CalculateRequest struct {
	Categories []types.Category `json:"categories" validate:"required,min=1"`
	Linear     *bool            `json:"linear,omitempty"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeJSON(w, r, &req, s.validator); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grading.Evaluate(req.Categories, s.linearOr(req.Linear)))
}

// SubjectSummary is a subject as listed by GET /subjects.
type SubjectSummary struct {
	Name    string   `json:"name"`
	Slug    string   `json:"slug"`
	ItemIDs []string `json:"item_ids"`
}

func (s *Server) handleListSubjects(w http.ResponseWriter, _ *http.Request) {
	list := subjects.List()
	out := make([]SubjectSummary, len(list))
	for i, subj := range list {
		out[i] = SubjectSummary{Name: subj.Name, Slug: subj.Slug, ItemIDs: subj.ItemIDs()}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subjects":  out,
		"catalogue": subjects.Catalogue,
	})
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	subj, err := subjects.Lookup(r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subj)
}

// SubjectCalculateRequest is the body of POST /subjects/{slug}/calculate.
// Save stores the resulting final grade for the signed-in user, under SaveAs when
// the catalogue spells the subject differently (e.g. "Programming Python").
type SubjectCalculateRequest struct {
	Scores   map[string]types.Text `json:"scores"`
	Linear   *bool                 `json:"linear,omitempty"`
	Save     bool                  `json:"save,omitempty"`
	SaveAs   string                `json:"save_as,omitempty"`
	Semester string                `json:"semester,omitempty"`
}

// SubjectCalculateResponse pairs the report with the stored grade when one was saved.
type SubjectCalculateResponse struct {
	Subject string         `json:"subject"`
	Report  types.Report   `json:"report"`
	Saved   *db.FinalGrade `json:"saved,omitempty"`
}

func (s *Server) handleCalculateSubject(w http.ResponseWriter, r *http.Request) {
	var req SubjectCalculateRequest
	if err := decodeJSON(w, r, &req, nil); err != nil {
		writeServiceError(w, err)
		return
	}

	subj, err := subjects.Lookup(r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	scores := make(map[string]string, len(req.Scores))
	for id, v := range req.Scores {
		scores[id] = string(v)
	}
	report, err := subjects.Calculate(subj.Slug, scores, s.linearOr(req.Linear))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := SubjectCalculateResponse{Subject: subj.Name, Report: report}
	if req.Save {
		id := middleware.IdentityFrom(r.Context())
		if !id.Authenticated {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if s.grades == nil {
			writeServiceError(w, &ErrUnavailable{Feature: "saved grades"})
			return
		}
		// Stored grades keep two decimals, like the save dialog shows them.
		grade := strconv.FormatFloat(math.Round(report.FinalGrade*100)/100, 'f', 2, 64)
		name := subj.Name
		if req.SaveAs != "" {
			name = req.SaveAs
		}
		saved, err := s.grades.Save(r.Context(), id.UserID, name, grade, req.Semester)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp.Saved = saved
	}
	writeJSON(w, http.StatusOK, resp)
}

// GPARow is one transcript line in POST /gpa.
type GPARow struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Percent types.Text `json:"percent"`
	Credits types.Text `json:"credits"`
}

// GPARequest is the body of POST /gpa.
type GPARequest struct {
	Rows   []GPARow `json:"rows" validate:"required,min=1"`
	Linear *bool    `json:"linear,omitempty"`
}

func (s *Server) handleGPA(w http.ResponseWriter, r *http.Request) {
	var req GPARequest
	if err := decodeJSON(w, r, &req, s.validator); err != nil {
		writeServiceError(w, err)
		return
	}
	if len(req.Rows) > grading.MaxTranscriptRows {
		writeServiceError(w, &ErrValidation{
			Field:   "rows",
			Message: fmt.Sprintf("at most %d subjects", grading.MaxTranscriptRows),
		})
		return
	}

	rows := make([]types.SubjectRow, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = types.SubjectRow{
			ID:      row.ID,
			Name:    row.Name,
			Percent: string(row.Percent),
			Credits: string(row.Credits),
		}
	}
	writeJSON(w, http.StatusOK, grading.Summarize(rows, s.linearOr(req.Linear)))
}

// AttendanceRequest is the body of POST /attendance.
type AttendanceRequest struct {
	PairsPerWeek types.Text `json:"pairs_per_week"`
	MissedPairs  types.Text `json:"missed_pairs"`
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceRequest
	if err := decodeJSON(w, r, &req, nil); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendance.Compute(string(req.PairsPerWeek), string(req.MissedPairs)))
}

// BudgetSource is one income line in POST /budget.
type BudgetSource struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Amount types.Text        `json:"amount"`
	Type   budget.SourceType `json:"type"`
}

// BudgetRequest is the body of POST /budget.
type BudgetRequest struct {
	Sources []BudgetSource `json:"sources" validate:"required,min=1"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if err := decodeJSON(w, r, &req, s.validator); err != nil {
		writeServiceError(w, err)
		return
	}

	sources := make([]budget.Source, len(req.Sources))
	for i, src := range req.Sources {
		if src.Type == "" {
			src.Type = budget.SourcePersonal
		}
		if !src.Type.Valid() {
			writeServiceError(w, &ErrValidation{Field: "type", Message: "must be grant or personal"})
			return
		}
		sources[i] = budget.Source{ID: src.ID, Name: src.Name, Amount: string(src.Amount), Type: src.Type}
	}
	writeJSON(w, http.StatusOK, budget.Summarize(sources))
}
