package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// Lessons is the fixed lesson catalogue served by the fake.
var Lessons = []domain.Lesson{
	{ID: "1", Title: "Understanding Compound Interest", Category: "Basics", Level: domain.LevelBeginner,
		Content: "Learn how your money can grow exponentially over time", DurationMinutes: 15, Points: 100},
	{ID: "2", Title: "Creating Your First Budget", Category: "Budgeting", Level: domain.LevelBeginner,
		Content: "Step-by-step guide to tracking income and expenses", DurationMinutes: 20, Points: 150},
	{ID: "3", Title: "Introduction to Stock Market", Category: "Investing", Level: domain.LevelIntermediate,
		Content: "Understanding stocks, bonds, and market basics", DurationMinutes: 30, Points: 200},
	{ID: "4", Title: "Tax Optimization Strategies", Category: "Advanced", Level: domain.LevelAdvanced,
		Content: "Legal ways to minimize tax burden and maximize savings", DurationMinutes: 45, Points: 300},
}

// LessonPoints returns the points awarded for lesson id.
func LessonPoints(id string) int {
	for _, l := range Lessons {
		if l.ID == id {
			return l.Points
		}
	}
	return 0
}

// Stocks is the canned market overview.
var Stocks = []domain.StockQuote{
	{Symbol: "SPY", Price: domain.A(512.34), ChangePercent: domain.A(0.42)},
	{Symbol: "AAPL", Price: domain.A(189.5), ChangePercent: domain.A(-1.1)},
	{Symbol: "NVDA", Price: domain.A(880.08), ChangePercent: domain.A(3.27)},
}

// Crypto is the canned crypto overview.
var Crypto = []domain.CryptoQuote{
	{Symbol: "BTC", Name: "Bitcoin", Price: domain.A(45000), ChangePercent: domain.A(2.5)},
	{Symbol: "ETH", Name: "Ethereum", Price: domain.A(2800), ChangePercent: domain.A(3.2)},
	{Symbol: "BNB", Name: "Binance Coin", Price: domain.A(350), ChangePercent: domain.A(-1.2)},
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.authed(s.handleMe))

	mux.HandleFunc("GET /api/profile", s.authed(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.authed(s.handleUpdateProfile))

	mux.HandleFunc("POST /api/income-generation", s.authed(s.handleGenerateIncome))
	mux.HandleFunc("GET /api/income-generation", s.authed(s.handleListIncome))

	mux.HandleFunc("POST /api/budget/analyze", s.authed(s.handleAnalyzeBudget))
	mux.HandleFunc("GET /api/budget/latest", s.authed(s.handleLatestBudget))

	mux.HandleFunc("POST /api/investment/advice", s.authed(s.handleAdvice))
	mux.HandleFunc("GET /api/investment/latest", s.authed(s.handleLatestAdvice))

	mux.HandleFunc("POST /api/opportunities/scan", s.authed(s.handleScan))
	mux.HandleFunc("GET /api/opportunities/latest", s.authed(s.handleLatestScan))

	mux.HandleFunc("GET /api/education/lessons", s.handleLessons)
	mux.HandleFunc("POST /api/education/complete/{id}", s.authed(s.handleCompleteLesson))
	mux.HandleFunc("GET /api/education/progress", s.authed(s.handleProgress))

	mux.HandleFunc("POST /api/ai-chat", s.authed(s.handleChat))
	mux.HandleFunc("GET /api/ai-chat/history", s.authed(s.handleChatHistory))

	mux.HandleFunc("GET /api/market/overview", s.handleMarketOverview)
	mux.HandleFunc("GET /api/market/stock/{symbol}", s.handleStock)

	mux.HandleFunc("GET /api/dashboard/stats", s.authed(s.handleDashboard))

	return mux
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		uid, ok := s.userFromRequest(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		h(w, r, uid)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeValidation(w, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeValidation(w, "Field required")
		return
	}

	s.mu.Lock()
	if _, exists := s.byEmail[req.Email]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	acc := s.createAccountLocked(req.Email, req.Password, req.FullName)
	token := s.issueToken(acc.user.ID, s.tokenTTL)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]string{"id": acc.user.ID, "email": acc.user.Email, "full_name": acc.user.FullName},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc, ok := s.byEmail[req.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.issueToken(acc.user.ID, s.tokenTTL),
		"user":  map[string]string{"id": acc.user.ID, "email": acc.user.Email, "full_name": acc.user.FullName},
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	acc := s.byID[uid]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	p := *s.profiles[uid]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, uid string) {
	var upd domain.ProfileUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	s.mu.Lock()
	p := s.profiles[uid]
	if upd.MonthlyIncome != nil {
		p.MonthlyIncome = *upd.MonthlyIncome
	}
	if upd.MonthlyExpenses != nil {
		p.MonthlyExpenses = *upd.MonthlyExpenses
	}
	if upd.SavingsGoal != nil {
		p.SavingsGoal = *upd.SavingsGoal
	}
	if upd.RiskTolerance != nil {
		p.RiskTolerance = *upd.RiskTolerance
	}
	if upd.Skills != nil {
		p.Skills = upd.Skills
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	if upd.TimeAvailability != nil {
		p.TimeAvailability = *upd.TimeAvailability
	}
	if upd.FinancialLevel != nil {
		p.FinancialLevel = *upd.FinancialLevel
	}
	p.UpdatedAt = s.now()
	out := *p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenerateIncome(w http.ResponseWriter, r *http.Request, uid string) {
	now := s.now()
	ideas := []domain.IncomeOpportunity{
		{Title: "Freelance Consulting", Description: "Offer your expertise as a consultant in your field",
			Category: "freelance", EstimatedIncome: "$500-2000/month", EffortLevel: "medium",
			TimeCommitment: "10-20 hours/week", SkillsRequired: []string{"consulting", "communication"}},
		{Title: "Online Course Creation", Description: "Create and sell online courses teaching your skills",
			Category: "side-hustle", EstimatedIncome: "$300-1500/month", EffortLevel: "high",
			TimeCommitment: "15-25 hours/week initially", SkillsRequired: []string{"teaching", "content creation"}},
		{Title: "Gig Economy Work", Description: "Flexible delivery, rideshare, or task-based work",
			Category: "gig", EstimatedIncome: "$400-1200/month", EffortLevel: "low",
			TimeCommitment: "Flexible", SkillsRequired: []string{"driving", "time management"}},
	}
	for i := range ideas {
		ideas[i].ID = uuid.NewString()
		ideas[i].UserID = uid
		ideas[i].CreatedAt = now
	}

	s.mu.Lock()
	s.income[uid] = append(ideas, s.income[uid]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ideas)
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	ideas := s.income[uid]
	if len(ideas) > 10 {
		ideas = ideas[:10]
	}
	out := append([]domain.IncomeOpportunity{}, ideas...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalyzeBudget(w http.ResponseWriter, r *http.Request, uid string) {
	a := domain.BudgetAnalysis{
		ID:     uuid.NewString(),
		UserID: uid,
		SpendingLeaks: []domain.SpendingLeak{
			{Category: "Subscriptions", Amount: domain.A(50), Description: "Unused streaming services"},
			{Category: "Dining Out", Amount: domain.A(200), Description: "Frequent restaurant meals"},
			{Category: "Impulse Purchases", Amount: domain.A(100), Description: "Online shopping"},
		},
		Recommendations: []string{
			"Cancel unused subscriptions to save $50/month",
			"Meal prep on weekends to reduce dining out by 50%",
			"Implement 24-hour rule for non-essential purchases",
			"Set up automatic savings transfer on payday",
		},
		PotentialSavings: domain.A(350),
		CreatedAt:        s.now(),
	}

	s.mu.Lock()
	s.budgets[uid] = append(s.budgets[uid], a)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleLatestBudget(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	list := s.budgets[uid]
	s.mu.Unlock()
	if len(list) == 0 {
		writeDetail(w, http.StatusNotFound, "No budget analysis found")
		return
	}
	writeJSON(w, http.StatusOK, list[len(list)-1])
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	level := s.profiles[uid].FinancialLevel
	s.mu.Unlock()

	a := domain.InvestmentAdvice{
		ID:     uuid.NewString(),
		UserID: uid,
		Level:  level,
		Recommendations: []domain.Allocation{
			{Type: "Index Funds", Allocation: domain.A(60), Description: "Low-cost, diversified stock market exposure", Risk: "moderate"},
			{Type: "Bonds", Allocation: domain.A(30), Description: "Stable income with lower volatility", Risk: "low"},
			{Type: "Cash/Emergency Fund", Allocation: domain.A(10), Description: "3-6 months expenses for emergencies", Risk: "none"},
		},
		RiskAssessment: "Moderate risk profile suitable for long-term growth with some stability",
		PortfolioSuggestion: domain.PortfolioSuggestion{
			Strategy:           "60/30/10 diversified portfolio",
			RebalanceFrequency: "quarterly",
			ExpectedReturn:     "6-8% annually",
		},
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.advice[uid] = append(s.advice[uid], a)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleLatestAdvice(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	list := s.advice[uid]
	s.mu.Unlock()
	if len(list) == 0 {
		writeDetail(w, http.StatusNotFound, "No investment advice found")
		return
	}
	writeJSON(w, http.StatusOK, list[len(list)-1])
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request, uid string) {
	scan := domain.OpportunityScan{
		ID:     uuid.NewString(),
		UserID: uid,
		Opportunities: []domain.ScanItem{
			{Type: "Grant", Title: "Small Business Innovation Grant", Description: "$5,000 grant for tech entrepreneurs", Deadline: "2025-03-31"},
			{Type: "Investment", Title: "Emerging Tech ETF", Description: "High-growth technology sector opportunity", RiskLevel: "high"},
		},
		MarketTrends: []string{
			"AI and automation skills in high demand",
			"Remote work opportunities expanding globally",
			"Sustainable investing gaining momentum",
		},
		PersonalizedAlerts: []string{
			"Your skills in data analysis are currently in top 10% demand",
			"3 new freelance opportunities matching your profile this week",
		},
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.scans[uid] = append(s.scans[uid], scan)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, scan)
}

func (s *Server) handleLatestScan(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	list := s.scans[uid]
	s.mu.Unlock()
	if len(list) == 0 {
		writeDetail(w, http.StatusNotFound, "No opportunity scan found")
		return
	}
	writeJSON(w, http.StatusOK, list[len(list)-1])
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	if level == "" {
		level = domain.LevelBeginner
	}
	out := []domain.Lesson{}
	for _, l := range Lessons {
		if level == domain.LevelAll || l.Level == level {
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request, uid string) {
	id := r.PathValue("id")
	points := LessonPoints(id)
	if points == 0 {
		writeDetail(w, http.StatusNotFound, "Lesson not found")
		return
	}

	s.mu.Lock()
	p := s.progress[uid]
	if !slices.Contains(p.CompletedLessons, id) {
		p.CompletedLessons = append(p.CompletedLessons, id)
		p.TotalPoints += points
		p.CurrentStreak++
		p.UpdatedAt = s.now()
		if len(p.CompletedLessons) == 1 {
			p.Achievements = append(p.Achievements, "First Lesson")
		}
		if len(p.CompletedLessons) == len(Lessons) {
			p.Achievements = append(p.Achievements, "Curriculum Complete")
		}
	}
	out := *p
	out.CompletedLessons = slices.Clone(p.CompletedLessons)
	out.Achievements = slices.Clone(p.Achievements)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	out := *s.progress[uid]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, uid string) {
	var req domain.ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeValidation(w, "message must not be empty")
		return
	}

	reply := fmt.Sprintf("## Advice\n\nYou asked: *%s*\n\n- Track every expense for a month\n- Automate your savings", req.Message)
	now := s.now()

	s.mu.Lock()
	s.chats[uid] = append(s.chats[uid],
		domain.ChatMessage{ID: uuid.NewString(), UserID: uid, Role: domain.RoleUser, Content: req.Message, Timestamp: now},
		domain.ChatMessage{ID: uuid.NewString(), UserID: uid, Role: domain.RoleAssistant, Content: reply, Timestamp: now},
	)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	msgs := s.chats[uid]
	if len(msgs) > 50 {
		msgs = msgs[len(msgs)-50:]
	}
	out := append([]domain.ChatMessage{}, msgs...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarketOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.MarketOverview{
		Stocks:      Stocks,
		Crypto:      Crypto,
		LastUpdated: s.now(),
	})
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	for _, q := range Stocks {
		if strings.EqualFold(q.Symbol, symbol) {
			vol := domain.A(1250000)
			q.Volume = &vol
			writeJSON(w, http.StatusOK, q)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "price": 0, "change_percent": 0})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	p := *s.profiles[uid]
	prog := *s.progress[uid]
	s.mu.Unlock()

	income := p.MonthlyIncome.Decimal()
	savings := income.Sub(p.MonthlyExpenses.Decimal())
	hundred := decimal.NewFromInt(100)

	rate := decimal.Zero
	if income.IsPositive() {
		rate = savings.Div(income).Mul(hundred).Round(1)
	}
	goal := p.SavingsGoal.Decimal()
	progress := decimal.Zero
	if goal.IsPositive() {
		progress = savings.Div(goal).Mul(hundred).Round(1)
	}

	writeJSON(w, http.StatusOK, domain.DashboardStats{
		MonthlyIncome:    p.MonthlyIncome,
		MonthlyExpenses:  p.MonthlyExpenses,
		MonthlySavings:   domain.NewAmount(savings),
		SavingsRate:      domain.NewAmount(rate),
		SavingsGoal:      p.SavingsGoal,
		GoalProgress:     domain.NewAmount(progress),
		TotalPoints:      prog.TotalPoints,
		CompletedLessons: len(prog.CompletedLessons),
		CurrentStreak:    prog.CurrentStreak,
	})
}
