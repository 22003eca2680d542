// Package apitest runs an in-memory stand-in for the JobTracker REST API so
// the client can be exercised end to end without the hosted backend.
//
// It implements the consumed contract only: POST /api/token, GET /api/ping
// and the /api/jobs collection, with HS256 bearer tokens, bcrypt-checked
// passwords and uuid job ids.
package apitest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobtracker/jobtracker/internal/client/models"
	"golang.org/x/crypto/bcrypt"
)

// Claims are the claims of tokens issued by the fake. Gen ties a token to a
// revocation generation; RevokeTokens bumps it.
type Claims struct {
	jwt.RegisteredClaims
	Gen int `json:"gen"`
}

// Recorded is one request as seen by the fake.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	HasAuthHeader bool
	ContentType   string
	RequestID     string
}

type Server struct {
	srv    *httptest.Server
	secret []byte

	mu       sync.Mutex
	now      func() time.Time
	tokenTTL time.Duration
	gen      int
	users    map[string][]byte
	jobs     []models.Job
	requests []Recorded
}

// New starts a fake API server that is shut down when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte("apitest-secret"),
		now:      time.Now,
		tokenTTL: time.Hour,
		users:    make(map[string][]byte),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL is the absolute API base, ending in /api.
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api"
}

// URL is the server root.
func (s *Server) URL() string {
	return s.srv.URL
}

// SetTokenTTL changes the lifetime of tokens issued by POST /api/token.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = d
}

// AddUser registers credentials accepted by POST /api/token.
func (s *Server) AddUser(username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = hash
}

// MintToken issues a token for subject that expires after ttl (negative
// ttl yields an already expired token).
func (s *Server) MintToken(subject string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked(subject, ttl)
}

func (s *Server) mintLocked(subject string, ttl time.Duration) string {
	now := s.now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Gen: s.gen,
	}).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

// RevokeTokens makes every token issued so far fail with 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

// SeedJobs appends jobs as if they had been created earlier. Missing ids
// and timestamps are filled in.
func (s *Server) SeedJobs(jobs ...models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range jobs {
		if j.ID == "" {
			j.ID = models.JobID(uuid.NewString())
		}
		if j.CreatedAt.IsZero() {
			j.CreatedAt = s.now().UTC()
			j.UpdatedAt = j.CreatedAt
		}
		s.jobs = append(s.jobs, j)
	}
}

// Jobs returns a copy of the stored collection.
func (s *Server) Jobs() []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Job(nil), s.jobs...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)
	api.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)

	jobs := api.PathPrefix("/jobs").Subrouter()
	jobs.Use(s.requireBearer)
	jobs.HandleFunc("", s.handleList).Methods(http.MethodGet)
	jobs.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	jobs.HandleFunc("/{id}", s.handleGet).Methods(http.MethodGet)
	jobs.HandleFunc("/{id}", s.handleUpdate).Methods(http.MethodPut)
	jobs.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has := r.Header["Authorization"]
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			HasAuthHeader: has,
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		s.mu.Lock()
		gen, now := s.gen, s.now
		s.mu.Unlock()

		var claims Claims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
		if err != nil || claims.Gen != gen {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	s.mu.Lock()
	hash, ok := s.users[username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	s.mu.Lock()
	tok := s.mintLocked(username, s.tokenTTL)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok, "token_type": "bearer"})
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backend is alive!"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Jobs())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(mux.Vars(r)["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, s.jobs[i])
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeValidation(w, err)
		return
	}

	s.mu.Lock()
	now := s.now().UTC()
	job := models.Job{
		ID:          models.JobID(uuid.NewString()),
		JobNumber:   in.JobNumber,
		ClientName:  in.ClientName,
		JobRef:      in.JobRef,
		M2Area:      in.M2Area,
		HoursWorked: in.HoursWorked,
		DesignFee:   in.DesignFee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeValidation(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(mux.Vars(r)["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	job := &s.jobs[i]
	job.JobNumber = in.JobNumber
	job.ClientName = in.ClientName
	job.JobRef = in.JobRef
	job.M2Area = in.M2Area
	job.HoursWorked = in.HoursWorked
	job.DesignFee = in.DesignFee
	job.UpdatedAt = s.now().UTC()

	writeJSON(w, http.StatusOK, *job)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(mux.Vars(r)["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) indexLocked(id string) int {
	for i, j := range s.jobs {
		if string(j.ID) == id {
			return i
		}
	}
	return -1
}

// decodeInput accepts the body only when all six business fields are
// present, which is what the hosted API enforces.
func decodeInput(r *http.Request) (models.JobInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return models.JobInput{}, errors.New("body is not a JSON object")
	}
	for _, f := range []string{"jobNumber", "clientName", "jobRef", "m2Area", "hoursWorked", "designFee"} {
		if _, ok := raw[f]; !ok {
			return models.JobInput{}, errors.New(f + ": field required")
		}
	}

	b, _ := json.Marshal(raw)
	var in models.JobInput
	if err := json.Unmarshal(b, &in); err != nil {
		return models.JobInput{}, err
	}
	if err := in.Validate(); err != nil {
		return models.JobInput{}, err
	}
	return in, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]string{{"msg": err.Error(), "type": "value_error"}},
	})
}
