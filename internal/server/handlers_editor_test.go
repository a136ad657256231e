package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSession(t *testing.T, s *Server) SessionView {
	t.Helper()
	w := do(t, s, http.MethodPost, "/editor", CreateSessionRequest{Categories: scenarioCategories()}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionView](t, w)
}

func TestEditor_CreateDefault(t *testing.T) {
	s := newCalculatorOnlyServer(t)

	w := do(t, s, http.MethodPost, "/editor", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	view := decode[SessionView](t, w)
	assert.NotEqual(t, uuid.Nil, view.ID)
	require.Len(t, view.Categories, 3)
	assert.Equal(t, "Mid Term", view.Categories[0].Name)
	assert.InDelta(t, 100.0, view.Report.TotalWeightPercentage, 1e-9)
	assert.Equal(t, 1, s.sessions.Len())
}

func TestEditor_CreateFillsMissingIDs(t *testing.T) {
	s := newCalculatorOnlyServer(t)

	body := `{"categories": [{"name": "Labs", "total_weight": 100, "items": [{"name": "Lab 1", "score": "90", "weight": 1}]}]}`
	w := do(t, s, http.MethodPost, "/editor", body, "")
	require.Equal(t, http.StatusCreated, w.Code)

	view := decode[SessionView](t, w)
	require.Len(t, view.Categories, 1)
	assert.NotEmpty(t, view.Categories[0].ID)
	assert.NotEmpty(t, view.Categories[0].Items[0].ID)
	assert.InDelta(t, 90.0, view.Report.FinalGrade, 1e-9)
}

func TestEditor_GetAndDelete(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)
	path := "/editor/" + view.ID.String()

	w := do(t, s, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 68.0, decode[SessionView](t, w).Report.FinalGrade, 1e-9)

	w = do(t, s, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditor_InvalidSessionID(t *testing.T) {
	s := newCalculatorOnlyServer(t)

	w := do(t, s, http.MethodGet, "/editor/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/editor/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditor_ToggleLinear(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)

	w := do(t, s, http.MethodPatch, "/editor/"+view.ID.String(), `{"linear": true}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[SessionView](t, w)
	assert.True(t, updated.Linear)
	assert.InDelta(t, 2.72, updated.Report.GPA, 1e-9)
}

func TestEditor_AddCategoryDoesNotRebalance(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)

	w := do(t, s, http.MethodPost, "/editor/"+view.ID.String()+"/categories", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)

	updated := decode[SessionView](t, w)
	require.Len(t, updated.Categories, 4)
	added := updated.Categories[3]
	assert.Equal(t, "Category 4", added.Name)
	assert.Equal(t, 0.0, added.TotalWeight)
	assert.Len(t, added.Items, 1)
	assert.InDelta(t, 68.0, updated.Report.FinalGrade, 1e-9)
	assert.InDelta(t, 100.0, updated.Report.TotalWeightPercentage, 1e-9)
}

func TestEditor_UpdateCategory(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)
	base := "/editor/" + view.ID.String() + "/categories/"

	w := do(t, s, http.MethodPatch, base+"final", `{"name": "Finals", "total_weight": 20}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[SessionView](t, w)
	assert.Equal(t, "Finals", updated.Categories[2].Name)
	assert.InDelta(t, 80.0, updated.Report.TotalWeightPercentage, 1e-9)
	assert.False(t, updated.Report.WeightsBalanced)
	assert.InDelta(t, 58.0, updated.Report.FinalGrade, 1e-9)

	w = do(t, s, http.MethodPatch, base+"missing", `{"name": "x"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditor_UpdateCategoryItems(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)
	base := "/editor/" + view.ID.String() + "/categories/"

	w := do(t, s, http.MethodPatch, base+"end", `{"items": []}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorMessage(t, w), "at least one item")

	w = do(t, s, http.MethodPatch, base+"mid", `{"items": [
		{"id": "m1", "score": 100, "weight": 1},
		{"id": "m1", "score": 50, "weight": 1},
		{"id": "e1", "score": 0, "weight": 1}
	]}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	items := decode[SessionView](t, w).Categories[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, "m1", items[0].ID)
	assert.NotEqual(t, "m1", items[1].ID, "repeated ids are replaced")
	assert.NotEqual(t, "e1", items[2].ID, "ids from other categories are replaced")
	assert.NotEqual(t, items[1].ID, items[2].ID)

	// The item that kept its id is still addressable on its own.
	w = do(t, s, http.MethodDelete, base+"mid/items/m1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[SessionView](t, w).Categories[0].Items, 2)
}

func TestEditor_RemoveCategory(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)
	base := "/editor/" + view.ID.String() + "/categories/"

	w := do(t, s, http.MethodDelete, base+"missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, id := range []string{"mid", "end"} {
		w = do(t, s, http.MethodDelete, base+id, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = do(t, s, http.MethodDelete, base+"final", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorMessage(t, w), "last category")
}

func TestEditor_ItemLifecycle(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)
	base := "/editor/" + view.ID.String() + "/categories/"

	// Raise the mid term quiz: mid = (100+60)/2 = 80, final grade 24+27+20 = 71.
	w := do(t, s, http.MethodPatch, base+"mid/items/m1", `{"score": 100, "name": "Quiz 1"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[SessionView](t, w)
	assert.Equal(t, "Quiz 1", updated.Categories[0].Items[0].Name)
	assert.Equal(t, "100", updated.Categories[0].Items[0].Score)
	assert.InDelta(t, 71.0, updated.Report.FinalGrade, 1e-9)

	// Triple the exam's weight: mid = (100 + 60*3)/4 = 70.
	w = do(t, s, http.MethodPatch, base+"mid/items/m2", `{"weight": "3"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 70.0, decode[SessionView](t, w).Report.Categories[0].CategoryScore, 1e-9)

	// A new empty item in the end term counts as 0: end = (90+0)/2 = 45.
	w = do(t, s, http.MethodPost, base+"end/items", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	updated = decode[SessionView](t, w)
	require.Len(t, updated.Categories[1].Items, 2)
	assert.InDelta(t, 45.0, updated.Report.Categories[1].CategoryScore, 1e-9)

	added := updated.Categories[1].Items[1].ID
	w = do(t, s, http.MethodDelete, base+"end/items/"+added, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 90.0, decode[SessionView](t, w).Report.Categories[1].CategoryScore, 1e-9)

	w = do(t, s, http.MethodDelete, base+"end/items/e1", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEditor_ItemErrors(t *testing.T) {
	s := newCalculatorOnlyServer(t)
	view := createSession(t, s)
	base := "/editor/" + view.ID.String() + "/categories/"

	w := do(t, s, http.MethodPatch, base+"mid/items/missing", `{"score": 1}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPatch, base+"missing/items/m1", `{"score": 1}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, base+"missing/items", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodDelete, base+"end/items/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
