package output

import "testing"

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text = %d tokens, want 0", got)
	}

	// 40 runes at 4 chars/token is 10 tokens.
	text := "0123456789012345678901234567890123456789"
	if got := EstimateTokens(text); got != 10 {
		t.Errorf("EstimateTokens = %d, want 10", got)
	}
}

func TestEstimateTokensMonotonic(t *testing.T) {
	small := EstimateTokens("def f(): pass")
	large := EstimateTokens("def f(): pass\ndef g(): pass\ndef h(): pass")
	if large <= small {
		t.Errorf("larger text estimated %d tokens, smaller %d", large, small)
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		tokens int
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{12500, "12.5k"},
	}
	for _, tt := range tests {
		if got := FormatTokenCount(tt.tokens); got != tt.want {
			t.Errorf("FormatTokenCount(%d) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}

func TestGetTokenBudgetInfo(t *testing.T) {
	info := GetTokenBudgetInfo("0123456789012345678901234567890123456789", Budget8K)
	if info.Tokens != 10 {
		t.Errorf("Tokens = %d, want 10", info.Tokens)
	}
	if info.Remaining != Budget8K-10 {
		t.Errorf("Remaining = %d, want %d", info.Remaining, Budget8K-10)
	}
	if info.BudgetLabel != "8k" {
		t.Errorf("BudgetLabel = %q, want 8k", info.BudgetLabel)
	}
}

func TestGetTokenBudgetInfoDefaultBudget(t *testing.T) {
	info := GetTokenBudgetInfo("text", 0)
	if info.Budget != DefaultBudget {
		t.Errorf("Budget = %d, want %d", info.Budget, DefaultBudget)
	}
}
