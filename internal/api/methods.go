package api

import (
	"context"
	"net/url"

	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// Register creates an account and returns the issued token. The session is
// not touched.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out domain.AuthResponse
	if err := c.call(ctx, mustLookup(OpRegister), nil, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token. The session is not touched.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out domain.AuthResponse
	if err := c.call(ctx, mustLookup(OpLogin), nil, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMe returns the current user.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.call(ctx, mustLookup(OpGetMe), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the financial profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.FinancialProfile, error) {
	var out domain.FinancialProfile
	if err := c.call(ctx, mustLookup(OpGetProfile), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends the set fields of upd and returns the stored profile.
func (c *Client) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.FinancialProfile, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	var out domain.FinancialProfile
	if err := c.call(ctx, mustLookup(OpUpdateProfile), nil, nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateIncomeOpportunities asks the backend for new ideas.
func (c *Client) GenerateIncomeOpportunities(ctx context.Context) ([]domain.IncomeOpportunity, error) {
	var out []domain.IncomeOpportunity
	if err := c.call(ctx, mustLookup(OpGenerateIncomeOpportunities), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetIncomeOpportunities lists the most recent ideas.
func (c *Client) GetIncomeOpportunities(ctx context.Context) ([]domain.IncomeOpportunity, error) {
	var out []domain.IncomeOpportunity
	if err := c.call(ctx, mustLookup(OpGetIncomeOpportunities), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeBudget runs a new budget analysis.
func (c *Client) AnalyzeBudget(ctx context.Context) (*domain.BudgetAnalysis, error) {
	var out domain.BudgetAnalysis
	if err := c.call(ctx, mustLookup(OpAnalyzeBudget), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestBudgetAnalysis returns the last analysis; 404 when none exists.
func (c *Client) GetLatestBudgetAnalysis(ctx context.Context) (*domain.BudgetAnalysis, error) {
	var out domain.BudgetAnalysis
	if err := c.call(ctx, mustLookup(OpGetLatestBudgetAnalysis), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvestmentAdvice generates new investment advice.
func (c *Client) GetInvestmentAdvice(ctx context.Context) (*domain.InvestmentAdvice, error) {
	var out domain.InvestmentAdvice
	if err := c.call(ctx, mustLookup(OpGetInvestmentAdvice), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestInvestmentAdvice returns the last advice; 404 when none exists.
func (c *Client) GetLatestInvestmentAdvice(ctx context.Context) (*domain.InvestmentAdvice, error) {
	var out domain.InvestmentAdvice
	if err := c.call(ctx, mustLookup(OpGetLatestInvestmentAdvice), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScanOpportunities runs a new opportunity scan.
func (c *Client) ScanOpportunities(ctx context.Context) (*domain.OpportunityScan, error) {
	var out domain.OpportunityScan
	if err := c.call(ctx, mustLookup(OpScanOpportunities), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestOpportunityScan returns the last scan; 404 when none exists.
func (c *Client) GetLatestOpportunityScan(ctx context.Context) (*domain.OpportunityScan, error) {
	var out domain.OpportunityScan
	if err := c.call(ctx, mustLookup(OpGetLatestOpportunityScan), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLessons lists lessons of the given level. An empty level means "all".
func (c *Client) GetLessons(ctx context.Context, level string) ([]domain.Lesson, error) {
	if level == "" {
		level = domain.LevelAll
	}
	if err := domain.ValidateLessonLevel(level); err != nil {
		return nil, err
	}
	var out []domain.Lesson
	q := url.Values{"level": {level}}
	if err := c.call(ctx, mustLookup(OpGetLessons), nil, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteLesson marks lesson id complete and returns the progress exactly
// as the backend reports it.
func (c *Client) CompleteLesson(ctx context.Context, id string) (*domain.Progress, error) {
	if err := domain.ValidateLessonID(id); err != nil {
		return nil, err
	}
	var out domain.Progress
	if err := c.call(ctx, mustLookup(OpCompleteLesson), []string{id}, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProgress returns the learning progress.
func (c *Client) GetProgress(ctx context.Context) (*domain.Progress, error) {
	var out domain.Progress
	if err := c.call(ctx, mustLookup(OpGetProgress), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChatMessage sends one message to the advisor. chatContext is optional.
func (c *Client) SendChatMessage(ctx context.Context, message string, chatContext map[string]any) (*domain.ChatReply, error) {
	req := domain.ChatRequest{Message: message, Context: chatContext}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out domain.ChatReply
	if err := c.call(ctx, mustLookup(OpSendChatMessage), nil, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChatHistory returns the conversation, oldest first.
func (c *Client) GetChatHistory(ctx context.Context) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	if err := c.call(ctx, mustLookup(OpGetChatHistory), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMarketOverview returns the public market snapshot.
func (c *Client) GetMarketOverview(ctx context.Context) (*domain.MarketOverview, error) {
	var out domain.MarketOverview
	if err := c.call(ctx, mustLookup(OpGetMarketOverview), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStockData returns a quote for symbol.
func (c *Client) GetStockData(ctx context.Context, symbol string) (*domain.StockQuote, error) {
	symbol, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var out domain.StockQuote
	if err := c.call(ctx, mustLookup(OpGetStockData), []string{symbol}, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDashboardStats returns the aggregate dashboard metrics.
func (c *Client) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := c.call(ctx, mustLookup(OpGetDashboardStats), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
