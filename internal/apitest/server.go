package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// Request is one recorded request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Authorized reports whether the request carried an Authorization header.
func (r Request) Authorized() bool {
	return r.Header.Get("Authorization") != ""
}

type account struct {
	user         domain.User
	passwordHash []byte
}

type failure struct {
	status int
	detail string
}

// Server is a fake backend.
type Server struct {
	*httptest.Server

	secret []byte
	now    func() time.Time

	mu       sync.Mutex
	byEmail  map[string]*account
	byID     map[string]*account
	profiles map[string]*domain.FinancialProfile
	progress map[string]*domain.Progress
	income   map[string][]domain.IncomeOpportunity
	budgets  map[string][]domain.BudgetAnalysis
	advice   map[string][]domain.InvestmentAdvice
	scans    map[string][]domain.OpportunityScan
	chats    map[string][]domain.ChatMessage
	requests []Request
	failNext map[string]failure
	tokenTTL time.Duration
}

// NewServer starts a fake backend. Call Close when done.
func NewServer() *Server {
	s := &Server{
		secret:   []byte(uuid.NewString()),
		now:      func() time.Time { return time.Now().UTC() },
		byEmail:  make(map[string]*account),
		byID:     make(map[string]*account),
		profiles: make(map[string]*domain.FinancialProfile),
		progress: make(map[string]*domain.Progress),
		income:   make(map[string][]domain.IncomeOpportunity),
		budgets:  make(map[string][]domain.BudgetAnalysis),
		advice:   make(map[string][]domain.InvestmentAdvice),
		scans:    make(map[string][]domain.OpportunityScan),
		chats:    make(map[string][]domain.ChatMessage),
		failNext: make(map[string]failure),
		tokenTTL: 7 * 24 * time.Hour,
	}
	s.Server = httptest.NewServer(s.record(s.routes()))
	return s
}

// New starts a fake backend closed at the end of the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := NewServer()
	t.Cleanup(s.Close)
	return s
}

// Requests returns a copy of every recorded request, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// FailNext makes the next request matching method and path (without the
// /api prefix) answer with status and detail instead of being handled.
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	s.failNext[method+" "+path] = failure{status: status, detail: detail}
	s.mu.Unlock()
}

// SeedUser registers an account directly and returns a valid token for it.
func (s *Server) SeedUser(email, password, fullName string) (token string, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.createAccountLocked(email, password, fullName)
	return s.issueToken(acc.user.ID, s.tokenTTL), acc.user
}

// SetProfile overwrites money fields of a user's profile.
func (s *Server) SetProfile(userID string, income, expenses, goal float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		p.MonthlyIncome = domain.A(income)
		p.MonthlyExpenses = domain.A(expenses)
		p.SavingsGoal = domain.A(goal)
	}
}

// ExpiredToken returns a correctly signed token that has already expired.
func (s *Server) ExpiredToken(userID string) string {
	return s.issueToken(userID, -time.Minute)
}

func (s *Server) issueToken(userID string, ttl time.Duration) string {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

// userFromRequest validates the bearer token and returns the user id.
func (s *Server) userFromRequest(r *http.Request) (string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return "", false
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	uid, _ := claims["user_id"].(string)
	if uid == "" {
		return "", false
	}

	s.mu.Lock()
	_, exists := s.byID[uid]
	s.mu.Unlock()
	return uid, exists
}

func (s *Server) createAccountLocked(email, password, fullName string) *account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	now := s.now()
	acc := &account{
		user: domain.User{
			ID:        uuid.NewString(),
			Email:     email,
			FullName:  fullName,
			CreatedAt: now,
		},
		passwordHash: hash,
	}
	s.byEmail[email] = acc
	s.byID[acc.user.ID] = acc
	s.profiles[acc.user.ID] = &domain.FinancialProfile{
		ID:             uuid.NewString(),
		UserID:         acc.user.ID,
		RiskTolerance:  domain.RiskModerate,
		Skills:         []string{},
		FinancialLevel: domain.LevelBeginner,
		UpdatedAt:      now,
	}
	s.progress[acc.user.ID] = &domain.Progress{
		ID:               uuid.NewString(),
		UserID:           acc.user.ID,
		CompletedLessons: []string{},
		Achievements:     []string{},
		UpdatedAt:        now,
	}
	return acc
}

// record captures each request and applies FailNext before routing.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		f, fail := s.failNext[key]
		if fail {
			delete(s.failNext, key)
		}
		s.mu.Unlock()

		if fail {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation mimics FastAPI's 422 body.
func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body"}, "msg": msg, "type": "value_error"}},
	})
}
