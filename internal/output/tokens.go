package output

import (
	"fmt"
	"unicode/utf8"
)

// TokenBudgetInfo describes how an estimated payload fits a context
// window budget.
type TokenBudgetInfo struct {
	Tokens       int
	Budget       int
	BudgetLabel  string
	UsagePercent float64
	Remaining    int
}

// Common context window sizes.
const (
	Budget8K   = 8000
	Budget16K  = 16000
	Budget32K  = 32000
	Budget64K  = 64000
	Budget128K = 128000
	Budget200K = 200000
)

// DefaultBudget is the context window assumed when none is given.
const DefaultBudget = Budget128K

// CharsPerToken approximates the character-to-token ratio for
// code-heavy text. Exact counts require a model tokenizer; hint
// payloads only need ballpark sizing.
const CharsPerToken = 4.0

// EstimateTokens returns an approximate token count for the text.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	runeCount := utf8.RuneCountInString(text)
	return int(float64(runeCount)/CharsPerToken + 0.5)
}

// FormatTokenCount formats a token count for display. Counts of 1000
// or more render as "X.Xk".
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	return fmt.Sprintf("%.1fk", float64(tokens)/1000)
}

// GetTokenBudgetInfo sizes the text against a budget. A non-positive
// budget falls back to DefaultBudget.
func GetTokenBudgetInfo(text string, budget int) TokenBudgetInfo {
	if budget <= 0 {
		budget = DefaultBudget
	}

	tokens := EstimateTokens(text)
	remaining := budget - tokens
	if remaining < 0 {
		remaining = 0
	}

	return TokenBudgetInfo{
		Tokens:       tokens,
		Budget:       budget,
		BudgetLabel:  formatBudgetLabel(budget),
		UsagePercent: float64(tokens) / float64(budget) * 100,
		Remaining:    remaining,
	}
}

func formatBudgetLabel(budget int) string {
	if budget >= 1000 {
		return fmt.Sprintf("%dk", budget/1000)
	}
	return fmt.Sprintf("%d", budget)
}

// BudgetTiers returns the common budget tiers for display.
func BudgetTiers() []int {
	return []int{Budget8K, Budget16K, Budget32K, Budget64K, Budget128K, Budget200K}
}
