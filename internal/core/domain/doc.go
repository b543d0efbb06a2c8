// Package domain defines the payloads exchanged with the moneygrowth backend.
//
// The types are plain values with json tags matching the wire names used by
// the backend. Monetary fields use Amount, a decimal type that travels as a
// JSON number. Request types validate themselves before they are sent so the
// client can reject obviously bad input without a round trip:
//
//   - Auth: RegisterRequest, LoginRequest, AuthResponse, User
//   - Profile: FinancialProfile, ProfileUpdate
//   - Advice: IncomeOpportunity, BudgetAnalysis, InvestmentAdvice, OpportunityScan
//   - Education: Lesson, Progress
//   - Chat: ChatRequest, ChatReply, ChatMessage
//   - Market: MarketOverview, StockQuote, CryptoQuote
//   - Dashboard: DashboardStats
//   - Errors: validation error codes
package domain
