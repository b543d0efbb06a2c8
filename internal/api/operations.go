package api

import (
	"net/http"
	"net/url"
	"strings"
)

// Operation names. They match the backend contract one to one.
const (
	OpRegister                    = "register"
	OpLogin                       = "login"
	OpGetMe                       = "getMe"
	OpGetProfile                  = "getProfile"
	OpUpdateProfile               = "updateProfile"
	OpGenerateIncomeOpportunities = "generateIncomeOpportunities"
	OpGetIncomeOpportunities      = "getIncomeOpportunities"
	OpAnalyzeBudget               = "analyzeBudget"
	OpGetLatestBudgetAnalysis     = "getLatestBudgetAnalysis"
	OpGetInvestmentAdvice         = "getInvestmentAdvice"
	OpGetLatestInvestmentAdvice   = "getLatestInvestmentAdvice"
	OpScanOpportunities           = "scanOpportunities"
	OpGetLatestOpportunityScan    = "getLatestOpportunityScan"
	OpGetLessons                  = "getLessons"
	OpCompleteLesson              = "completeLesson"
	OpGetProgress                 = "getProgress"
	OpSendChatMessage             = "sendChatMessage"
	OpGetChatHistory              = "getChatHistory"
	OpGetMarketOverview           = "getMarketOverview"
	OpGetStockData                = "getStockData"
	OpGetDashboardStats           = "getDashboardStats"
)

// Operation describes one backend call. Path is relative to <origin>/api and
// may hold {name} placeholders filled in order by Expand.
type Operation struct {
	Name      string
	Method    string
	Path      string
	Protected bool
	Mutating  bool
}

// Catalogue lists every backend operation once.
var Catalogue = []Operation{
	{Name: OpRegister, Method: http.MethodPost, Path: "/auth/register", Mutating: true},
	{Name: OpLogin, Method: http.MethodPost, Path: "/auth/login", Mutating: true},
	{Name: OpGetMe, Method: http.MethodGet, Path: "/auth/me", Protected: true},
	{Name: OpGetProfile, Method: http.MethodGet, Path: "/profile", Protected: true},
	{Name: OpUpdateProfile, Method: http.MethodPut, Path: "/profile", Protected: true, Mutating: true},
	{Name: OpGenerateIncomeOpportunities, Method: http.MethodPost, Path: "/income-generation", Protected: true, Mutating: true},
	{Name: OpGetIncomeOpportunities, Method: http.MethodGet, Path: "/income-generation", Protected: true},
	{Name: OpAnalyzeBudget, Method: http.MethodPost, Path: "/budget/analyze", Protected: true, Mutating: true},
	{Name: OpGetLatestBudgetAnalysis, Method: http.MethodGet, Path: "/budget/latest", Protected: true},
	{Name: OpGetInvestmentAdvice, Method: http.MethodPost, Path: "/investment/advice", Protected: true, Mutating: true},
	{Name: OpGetLatestInvestmentAdvice, Method: http.MethodGet, Path: "/investment/latest", Protected: true},
	{Name: OpScanOpportunities, Method: http.MethodPost, Path: "/opportunities/scan", Protected: true, Mutating: true},
	{Name: OpGetLatestOpportunityScan, Method: http.MethodGet, Path: "/opportunities/latest", Protected: true},
	{Name: OpGetLessons, Method: http.MethodGet, Path: "/education/lessons"},
	{Name: OpCompleteLesson, Method: http.MethodPost, Path: "/education/complete/{id}", Protected: true, Mutating: true},
	{Name: OpGetProgress, Method: http.MethodGet, Path: "/education/progress", Protected: true},
	{Name: OpSendChatMessage, Method: http.MethodPost, Path: "/ai-chat", Protected: true, Mutating: true},
	{Name: OpGetChatHistory, Method: http.MethodGet, Path: "/ai-chat/history", Protected: true},
	{Name: OpGetMarketOverview, Method: http.MethodGet, Path: "/market/overview"},
	{Name: OpGetStockData, Method: http.MethodGet, Path: "/market/stock/{symbol}"},
	{Name: OpGetDashboardStats, Method: http.MethodGet, Path: "/dashboard/stats", Protected: true},
}

var catalogueIndex = func() map[string]Operation {
	m := make(map[string]Operation, len(Catalogue))
	for _, op := range Catalogue {
		m[op.Name] = op
	}
	return m
}()

// Lookup returns the operation with the given name.
func Lookup(name string) (Operation, bool) {
	op, ok := catalogueIndex[name]
	return op, ok
}

// mustLookup is for names defined in this package.
func mustLookup(name string) Operation {
	op, ok := Lookup(name)
	if !ok {
		panic("api: unknown operation " + name)
	}
	return op
}

// Expand fills the {placeholders} of Path in order, path-escaping each
// value. Missing values leave the placeholder empty.
func (o Operation) Expand(params ...string) string {
	var b strings.Builder
	path := o.Path
	i := 0
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			b.WriteString(path)
			break
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			b.WriteString(path)
			break
		}
		b.WriteString(path[:start])
		if i < len(params) {
			b.WriteString(url.PathEscape(params[i]))
		}
		i++
		path = path[start+end+1:]
	}
	return b.String()
}
