package domain

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"valid", RegisterRequest{Email: "ana@example.com", Password: "pw", FullName: "Ana"}, nil},
		{"missing email", RegisterRequest{Password: "pw", FullName: "Ana"}, ErrMissingArgument},
		{"malformed email", RegisterRequest{Email: "ana", Password: "pw", FullName: "Ana"}, ErrInvalidArgument},
		{"missing password", RegisterRequest{Email: "ana@example.com", FullName: "Ana"}, ErrMissingArgument},
		{"blank name", RegisterRequest{Email: "ana@example.com", Password: "pw", FullName: "  "}, ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	if err := (LoginRequest{Email: "a@b.c", Password: "x"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (LoginRequest{Email: "a@b.c"}).Validate(); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("Validate() error = %v, want missing argument", err)
	}
}

func TestProfileUpdate_Validate(t *testing.T) {
	neg := A(-1)
	income := A(5000)

	tests := []struct {
		name    string
		upd     ProfileUpdate
		wantErr error
	}{
		{"empty", ProfileUpdate{}, nil},
		{"valid", ProfileUpdate{MonthlyIncome: &income, RiskTolerance: strPtr("high"), FinancialLevel: strPtr("advanced"), TimeAvailability: strPtr("weekends")}, nil},
		{"clear time availability", ProfileUpdate{TimeAvailability: strPtr("")}, nil},
		{"negative income", ProfileUpdate{MonthlyIncome: &neg}, ErrNegativeAmount},
		{"bad risk", ProfileUpdate{RiskTolerance: strPtr("yolo")}, ErrInvalidRiskTolerance},
		{"bad level", ProfileUpdate{FinancialLevel: strPtr("expert")}, ErrInvalidFinancialLevel},
		{"bad time", ProfileUpdate{TimeAvailability: strPtr("nights")}, ErrInvalidTimeAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.upd.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	if !(ProfileUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	if (ProfileUpdate{Location: strPtr("Lisbon")}).IsEmpty() {
		t.Error("update with location should not be empty")
	}
}

func TestParseSkills(t *testing.T) {
	got := ParseSkills(" go, writing ,, design ")
	want := []string{"go", "writing", "design"}
	if len(got) != len(want) {
		t.Fatalf("ParseSkills() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseSkills()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := ParseSkills(""); got == nil || len(got) != 0 {
		t.Errorf("ParseSkills(\"\") = %#v, want empty non-nil slice", got)
	}
}

func TestValidateLessonLevel(t *testing.T) {
	for _, lvl := range []string{"all", "beginner", "intermediate", "advanced"} {
		if err := ValidateLessonLevel(lvl); err != nil {
			t.Errorf("ValidateLessonLevel(%q) error = %v", lvl, err)
		}
	}
	if err := ValidateLessonLevel("guru"); !errors.Is(err, ErrInvalidLessonLevel) {
		t.Errorf("ValidateLessonLevel(guru) error = %v", err)
	}
}

func TestChatRequest_Validate(t *testing.T) {
	if err := (ChatRequest{Message: " \t"}).Validate(); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Validate() error = %v, want ErrEmptyMessage", err)
	}
	if err := (ChatRequest{Message: "How do I start?"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	got, err := NormalizeSymbol(" aapl ")
	if err != nil || got != "AAPL" {
		t.Errorf("NormalizeSymbol() = %q, %v", got, err)
	}
	if _, err := NormalizeSymbol("  "); !errors.Is(err, ErrEmptySymbol) {
		t.Errorf("NormalizeSymbol(blank) error = %v", err)
	}
}

func TestProgress_HasCompleted(t *testing.T) {
	p := Progress{CompletedLessons: []string{"1", "3"}}
	if !p.HasCompleted("3") {
		t.Error("HasCompleted(3) = false")
	}
	if p.HasCompleted("2") {
		t.Error("HasCompleted(2) = true")
	}
}
