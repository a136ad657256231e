package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/config"
	"github.com/jonathan/grade-calculator/internal/db"
	"github.com/jonathan/grade-calculator/internal/server/ratelimit"
	"github.com/jonathan/grade-calculator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gradeKey struct {
	userID   uuid.UUID
	subject  string
	semester string
}

// fakeStore is an in-memory DBClient and GradeStore.
type fakeStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*db.User
	grades map[gradeKey]db.FinalGrade
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[uuid.UUID]*db.User),
		grades: make(map[gradeKey]db.FinalGrade),
	}
}

func (f *fakeStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(context.Background(), email)
	return u != nil, err
}

func (f *fakeStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{ID: id, Name: name, Email: strings.ToLower(email), CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	for k := range f.grades {
		if k.userID == id {
			delete(f.grades, k)
		}
	}
	return true, nil
}

func (f *fakeStore) UpsertFinalGrade(_ context.Context, userID uuid.UUID, subject, semester string, grade float64) (*db.FinalGrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	key := gradeKey{userID, subject, semester}
	g, ok := f.grades[key]
	if !ok {
		g = db.FinalGrade{ID: uuid.New(), UserID: userID, Subject: subject, Semester: semester, CreatedAt: time.Now()}
	}
	g.FinalGrade = grade
	g.UpdatedAt = time.Now()
	f.grades[key] = g
	return &g, nil
}

func (f *fakeStore) ListFinalGrades(_ context.Context, userID uuid.UUID, semester string) ([]db.FinalGrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []db.FinalGrade
	for k, g := range f.grades {
		if k.userID == userID && k.semester == semester {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

func (f *fakeStore) DeleteFinalGrade(_ context.Context, userID uuid.UUID, subject, semester string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := gradeKey{userID, subject, semester}
	_, ok := f.grades[key]
	delete(f.grades, key)
	return ok, nil
}

func (f *fakeStore) ListSemesterGrades(_ context.Context, semester string) ([]db.SemesterGrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []db.SemesterGrade
	for k, g := range f.grades {
		if k.semester != semester {
			continue
		}
		out = append(out, db.SemesterGrade{
			UserID:     k.userID,
			UserName:   f.users[k.userID].Name,
			Subject:    k.subject,
			FinalGrade: g.FinalGrade,
		})
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:       8080,
		Semester:   config.DefaultSemester,
		SessionTTL: time.Hour,
		CORSOrigin: "*",
	}
}

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	s, err := NewWithDeps(testConfig(), Deps{
		Users:     store,
		Grades:    store,
		Password:  &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
		JWT:       testJWTConfig(),
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, store
}

func newCalculatorOnlyServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewWithDeps(testConfig(), Deps{RateLimit: &ratelimit.Config{Enabled: false}})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// do sends a request through the full middleware chain.
func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, w)["error"]
}

// register creates an account and returns its token and user.
func register(t *testing.T, s *Server, name, email string) (string, *types.User) {
	t.Helper()
	w := do(t, s, http.MethodPost, "/auth/register", types.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "correct-horse",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[types.LoginResponse](t, w)
	return resp.Token, resp.User
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, config.DefaultSemester, body["semester"])
	assert.Equal(t, true, body["accounts"])
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodOptions, "/calculate", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestNewWithDeps_RequiresCredentialConfig(t *testing.T) {
	_, err := NewWithDeps(testConfig(), Deps{Users: newFakeStore()})
	assert.Error(t, err)
}

func TestNewWithDeps_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Semester = ""
	_, err := NewWithDeps(cfg, Deps{})
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	store := newFakeStore()
	s, err := NewWithDeps(testConfig(), Deps{
		Users:    store,
		Grades:   store,
		Password: &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
		JWT:      testJWTConfig(),
		RateLimit: &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  2,
			DefaultWindow: time.Minute,
		},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	for i := 0; i < 2; i++ {
		w := do(t, s, http.MethodGet, "/subjects", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, s, http.MethodGet, "/subjects", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	w = do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "health is never limited")
}

func TestWithoutDatabase(t *testing.T) {
	s := newCalculatorOnlyServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/register"},
		{http.MethodPost, "/auth/login"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/grades"},
		{http.MethodGet, "/leaderboard"},
	}
	for _, tt := range tests {
		w := do(t, s, tt.method, tt.path, "{}", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tt.path)
	}

	w := do(t, s, http.MethodGet, "/subjects", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5123"
	assert.Equal(t, "192.0.2.7", extractClientID(req))

	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", extractClientID(req))
}
