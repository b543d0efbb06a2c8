package domain

import "time"

// IncomeOpportunity is one generated side-income idea.
type IncomeOpportunity struct {
	ID              string    `json:"id" yaml:"id"`
	UserID          string    `json:"user_id" yaml:"-"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	Category        string    `json:"category" yaml:"category"`
	EstimatedIncome string    `json:"estimated_income" yaml:"estimated_income"`
	EffortLevel     string    `json:"effort_level" yaml:"effort_level"`
	TimeCommitment  string    `json:"time_commitment" yaml:"time_commitment"`
	SkillsRequired  []string  `json:"skills_required" yaml:"skills_required"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// SpendingLeak is a category where money is being lost each month.
type SpendingLeak struct {
	Category    string `json:"category" yaml:"category"`
	Amount      Amount `json:"amount" yaml:"amount"`
	Description string `json:"description" yaml:"description"`
}

// BudgetAnalysis is the result of analysing the user's budget.
type BudgetAnalysis struct {
	ID               string         `json:"id" yaml:"id"`
	UserID           string         `json:"user_id" yaml:"-"`
	SpendingLeaks    []SpendingLeak `json:"spending_leaks" yaml:"spending_leaks"`
	Recommendations  []string       `json:"recommendations" yaml:"recommendations"`
	PotentialSavings Amount         `json:"potential_savings" yaml:"potential_savings"`
	CreatedAt        time.Time      `json:"created_at" yaml:"created_at"`
}

// Allocation is one slice of a suggested portfolio.
type Allocation struct {
	Type        string `json:"type" yaml:"type"`
	Allocation  Amount `json:"allocation" yaml:"allocation"`
	Description string `json:"description" yaml:"description"`
	Risk        string `json:"risk" yaml:"risk"`
}

// PortfolioSuggestion summarises the suggested strategy.
type PortfolioSuggestion struct {
	Strategy           string `json:"strategy" yaml:"strategy"`
	RebalanceFrequency string `json:"rebalance_frequency" yaml:"rebalance_frequency"`
	ExpectedReturn     string `json:"expected_return" yaml:"expected_return"`
}

// InvestmentAdvice is a level-appropriate allocation proposal.
type InvestmentAdvice struct {
	ID                  string              `json:"id" yaml:"id"`
	UserID              string              `json:"user_id" yaml:"-"`
	Level               string              `json:"level" yaml:"level"`
	Recommendations     []Allocation        `json:"recommendations" yaml:"recommendations"`
	RiskAssessment      string              `json:"risk_assessment" yaml:"risk_assessment"`
	PortfolioSuggestion PortfolioSuggestion `json:"portfolio_suggestion" yaml:"portfolio_suggestion"`
	CreatedAt           time.Time           `json:"created_at" yaml:"created_at"`
}

// TotalAllocation sums the recommendation percentages.
func (a InvestmentAdvice) TotalAllocation() Amount {
	var total Amount
	for _, r := range a.Recommendations {
		total = total.Add(r.Allocation)
	}
	return total
}

// ScanItem is a grant, competition or investment found by a scan.
// Deadline and RiskLevel are only set for some item types.
type ScanItem struct {
	Type        string `json:"type" yaml:"type"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Deadline    string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	RiskLevel   string `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
}

// OpportunityScan groups alerts, market trends and found opportunities.
type OpportunityScan struct {
	ID                 string     `json:"id" yaml:"id"`
	UserID             string     `json:"user_id" yaml:"-"`
	Opportunities      []ScanItem `json:"opportunities" yaml:"opportunities"`
	MarketTrends       []string   `json:"market_trends" yaml:"market_trends"`
	PersonalizedAlerts []string   `json:"personalized_alerts" yaml:"personalized_alerts"`
	CreatedAt          time.Time  `json:"created_at" yaml:"created_at"`
}
