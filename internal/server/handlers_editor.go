package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/editor"
	"github.com/jonathan/grade-calculator/internal/types"
)

// SessionView is the state of an editor session after every request.
type SessionView struct {
	ID         uuid.UUID        `json:"id"`
	Linear     bool             `json:"linear"`
	Categories []types.Category `json:"categories"`
	Report     types.Report     `json:"report"`
}

func viewOf(id uuid.UUID, e *editor.Editor) SessionView {
	return SessionView{
		ID:         id,
		Linear:     e.Linear(),
		Categories: e.Categories(),
		Report:     e.Result(),
	}
}

// CreateSessionRequest is the optional body of POST /editor. Without categories the
// session starts from the default Mid Term / End Term / Final Exam layout.
type CreateSessionRequest struct {
	Categories []types.Category `json:"categories,omitempty"`
	Linear     *bool            `json:"linear,omitempty"`
}

// UpdateSessionRequest is the body of PATCH /editor/{id}.
type UpdateSessionRequest struct {
	Linear *bool `json:"linear"`
}

// ItemPatch is the body of PATCH /editor/{id}/categories/{cid}/items/{iid}.
// Values are raw text; weight text is parsed like a score.
type ItemPatch struct {
	Name   *types.Text `json:"name,omitempty"`
	Score  *types.Text `json:"score,omitempty"`
	Weight *types.Text `json:"weight,omitempty"`
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid session id"}
	}
	return id, nil
}

// withSession parses the session id and runs fn under the store lock, then answers
// with the resulting session view.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, status int, fn func(*editor.Editor) error) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var view SessionView
	err = s.sessions.Do(id, func(e *editor.Editor) error {
		if err := fn(e); err != nil {
			return err
		}
		view = viewOf(id, e)
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, status, view)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req, nil); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	opts := []editor.Option{editor.WithLinearGPA(s.linearOr(req.Linear))}
	var e *editor.Editor
	if len(req.Categories) > 0 {
		e = editor.New(withIDs(req.Categories), opts...)
	} else {
		e = editor.NewDefault(opts...)
	}

	id := s.sessions.Create(e)
	writeJSON(w, http.StatusCreated, viewOf(id, e))
}

// withIDs fills in missing category and item ids of a client-supplied seed.
func withIDs(categories []types.Category) []types.Category {
	out := types.CloneCategories(categories)
	for ci := range out {
		if out[ci].ID == "" {
			out[ci].ID = uuid.NewString()
		}
		for ii := range out[ci].Items {
			if out[ci].Items[ii].ID == "" {
				out[ci].Items[ii].ID = uuid.NewString()
			}
		}
	}
	return out
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(*editor.Editor) error { return nil })
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if err := decodeJSON(w, r, &req, nil); err != nil {
		writeServiceError(w, err)
		return
	}
	s.withSession(w, r, http.StatusOK, func(e *editor.Editor) error {
		if req.Linear != nil {
			e.SetLinear(*req.Linear)
		}
		return nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusCreated, func(e *editor.Editor) error {
		e.AddCategory()
		return nil
	})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch editor.CategoryPatch
	if err := decodeJSON(w, r, &patch, nil); err != nil {
		writeServiceError(w, err)
		return
	}
	cid := r.PathValue("cid")
	s.withSession(w, r, http.StatusOK, func(e *editor.Editor) error {
		if !e.HasCategory(cid) {
			return &ErrNotFound{Resource: "category", ID: cid}
		}
		if !e.UpdateCategory(cid, patch) {
			return &ErrConflict{Message: "a category needs at least one item"}
		}
		return nil
	})
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	cid := r.PathValue("cid")
	s.withSession(w, r, http.StatusOK, func(e *editor.Editor) error {
		if !e.HasCategory(cid) {
			return &ErrNotFound{Resource: "category", ID: cid}
		}
		if !e.RemoveCategory(cid) {
			return &ErrConflict{Message: "cannot remove the last category"}
		}
		return nil
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	cid := r.PathValue("cid")
	s.withSession(w, r, http.StatusCreated, func(e *editor.Editor) error {
		if _, ok := e.AddItem(cid); !ok {
			return &ErrNotFound{Resource: "category", ID: cid}
		}
		return nil
	})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch ItemPatch
	if err := decodeJSON(w, r, &patch, nil); err != nil {
		writeServiceError(w, err)
		return
	}
	cid, iid := r.PathValue("cid"), r.PathValue("iid")

	s.withSession(w, r, http.StatusOK, func(e *editor.Editor) error {
		if !e.HasItem(cid, iid) {
			return &ErrNotFound{Resource: "item", ID: iid}
		}
		updates := []struct {
			field editor.Field
			value *types.Text
		}{
			{editor.FieldName, patch.Name},
			{editor.FieldScore, patch.Score},
			{editor.FieldWeight, patch.Weight},
		}
		for _, u := range updates {
			if u.value != nil {
				e.UpdateItem(cid, iid, u.field, string(*u.value))
			}
		}
		return nil
	})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	cid, iid := r.PathValue("cid"), r.PathValue("iid")
	s.withSession(w, r, http.StatusOK, func(e *editor.Editor) error {
		if !e.HasItem(cid, iid) {
			return &ErrNotFound{Resource: "item", ID: iid}
		}
		if !e.RemoveItem(cid, iid) {
			return &ErrConflict{Message: "cannot remove the last item of a category"}
		}
		return nil
	})
}
