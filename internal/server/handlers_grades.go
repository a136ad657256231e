package server

import (
	"net/http"

	"github.com/jonathan/grade-calculator/internal/server/middleware"
	"github.com/jonathan/grade-calculator/internal/types"
)

// All handlers here sit behind AuthMiddleware; an optional ?semester= query
// parameter overrides the configured semester.

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	grades, err := s.grades.List(r.Context(), userID, r.URL.Query().Get("semester"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"grades": grades})
}

func (s *Server) handleGradeSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	summary, err := s.grades.Summary(r.Context(), userID, r.URL.Query().Get("semester"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSaveGrade(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req types.SaveGradeRequest
	if err := decodeJSON(w, r, &req, s.validator); err != nil {
		writeServiceError(w, err)
		return
	}

	saved, err := s.grades.Save(r.Context(), userID, r.PathValue("subject"), req.FinalGrade.String(), r.URL.Query().Get("semester"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	if err := s.grades.Delete(r.Context(), userID, r.PathValue("subject"), r.URL.Query().Get("semester")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	entries, err := s.grades.Leaderboard(r.Context(), userID, r.URL.Query().Get("semester"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	dashboard, err := s.grades.Dashboard(r.Context(), userID, r.URL.Query().Get("semester"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
