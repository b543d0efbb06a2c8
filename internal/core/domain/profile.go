package domain

import (
	"strings"
	"time"
)

// Risk tolerances accepted by the backend.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// Financial levels, shared by profiles and lessons.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Time availability values. An empty value means "not set".
const (
	TimePartTime = "part-time"
	TimeFullTime = "full-time"
	TimeWeekends = "weekends"
)

// FinancialProfile is the per-user input to every advice generator.
type FinancialProfile struct {
	ID               string    `json:"id" yaml:"id"`
	UserID           string    `json:"user_id" yaml:"user_id"`
	MonthlyIncome    Amount    `json:"monthly_income" yaml:"monthly_income"`
	MonthlyExpenses  Amount    `json:"monthly_expenses" yaml:"monthly_expenses"`
	SavingsGoal      Amount    `json:"savings_goal" yaml:"savings_goal"`
	RiskTolerance    string    `json:"risk_tolerance" yaml:"risk_tolerance"`
	Skills           []string  `json:"skills" yaml:"skills"`
	Location         string    `json:"location" yaml:"location"`
	TimeAvailability string    `json:"time_availability" yaml:"time_availability"`
	FinancialLevel   string    `json:"financial_level" yaml:"financial_level"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}

// ProfileUpdate is a partial update. Nil fields are left untouched by the
// client; the backend applies defaults for anything missing.
type ProfileUpdate struct {
	MonthlyIncome    *Amount  `json:"monthly_income,omitempty"`
	MonthlyExpenses  *Amount  `json:"monthly_expenses,omitempty"`
	SavingsGoal      *Amount  `json:"savings_goal,omitempty"`
	RiskTolerance    *string  `json:"risk_tolerance,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	Location         *string  `json:"location,omitempty"`
	TimeAvailability *string  `json:"time_availability,omitempty"`
	FinancialLevel   *string  `json:"financial_level,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u ProfileUpdate) IsEmpty() bool {
	return u.MonthlyIncome == nil && u.MonthlyExpenses == nil && u.SavingsGoal == nil &&
		u.RiskTolerance == nil && u.Skills == nil && u.Location == nil &&
		u.TimeAvailability == nil && u.FinancialLevel == nil
}

// Validate checks every set field.
func (u ProfileUpdate) Validate() error {
	for name, amt := range map[string]*Amount{
		"monthly_income":   u.MonthlyIncome,
		"monthly_expenses": u.MonthlyExpenses,
		"savings_goal":     u.SavingsGoal,
	} {
		if amt != nil && amt.IsNegative() {
			return ErrNegativeAmount.WithDetails(name)
		}
	}
	if u.RiskTolerance != nil {
		if err := ValidateRiskTolerance(*u.RiskTolerance); err != nil {
			return err
		}
	}
	if u.FinancialLevel != nil {
		if err := ValidateFinancialLevel(*u.FinancialLevel); err != nil {
			return err
		}
	}
	if u.TimeAvailability != nil {
		if err := ValidateTimeAvailability(*u.TimeAvailability); err != nil {
			return err
		}
	}
	return nil
}

// ParseSkills splits a comma separated list, dropping blanks.
func ParseSkills(s string) []string {
	skills := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

// ValidateRiskTolerance accepts low, moderate or high.
func ValidateRiskTolerance(v string) error {
	switch v {
	case RiskLow, RiskModerate, RiskHigh:
		return nil
	}
	return ErrInvalidRiskTolerance.WithDetails(v)
}

// ValidateFinancialLevel accepts beginner, intermediate or advanced.
func ValidateFinancialLevel(v string) error {
	switch v {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return nil
	}
	return ErrInvalidFinancialLevel.WithDetails(v)
}

// ValidateTimeAvailability accepts the empty value or one of the known slots.
func ValidateTimeAvailability(v string) error {
	switch v {
	case "", TimePartTime, TimeFullTime, TimeWeekends:
		return nil
	}
	return ErrInvalidTimeAvailability.WithDetails(v)
}
