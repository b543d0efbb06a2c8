package domain

// DashboardStats are the aggregate metrics shown on the dashboard. Unlike
// Progress, CompletedLessons here is a count.
type DashboardStats struct {
	MonthlyIncome    Amount `json:"monthly_income" yaml:"monthly_income"`
	MonthlyExpenses  Amount `json:"monthly_expenses" yaml:"monthly_expenses"`
	MonthlySavings   Amount `json:"monthly_savings" yaml:"monthly_savings"`
	SavingsRate      Amount `json:"savings_rate" yaml:"savings_rate"`
	SavingsGoal      Amount `json:"savings_goal" yaml:"savings_goal"`
	GoalProgress     Amount `json:"goal_progress" yaml:"goal_progress"`
	TotalPoints      int    `json:"total_points" yaml:"total_points"`
	CompletedLessons int    `json:"completed_lessons" yaml:"completed_lessons"`
	CurrentStreak    int    `json:"current_streak" yaml:"current_streak"`
}
