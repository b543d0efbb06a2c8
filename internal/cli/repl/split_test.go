package repl

import (
	"errors"
	"slices"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"budget latest", []string{"budget", "latest"}},
		{"  market   stock\tAAPL ", []string{"market", "stock", "AAPL"}},
		{`chat send "how do I save?"`, []string{"chat", "send", "how do I save?"}},
		{`chat send 'it''s fine'`, []string{"chat", "send", "its fine"}},
		{`chat send "say \"hi\""`, []string{"chat", "send", `say "hi"`}},
		{`profile update --location New\ York`, []string{"profile", "update", "--location", "New York"}},
		{`profile update --skills ""`, []string{"profile", "update", "--skills", ""}},
		{`a"b c"d`, []string{"ab cd"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Split(tt.line)
			if err != nil {
				t.Fatalf("Split(%q) error = %v", tt.line, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplit_Unterminated(t *testing.T) {
	for _, line := range []string{`chat send "oops`, `it's`, `trailing\`} {
		if _, err := Split(line); !errors.Is(err, ErrUnterminatedQuote) {
			t.Errorf("Split(%q) error = %v, want ErrUnterminatedQuote", line, err)
		}
	}
}
