package grading

import (
	"math"
	"testing"

	"github.com/shailesh1606/TestMocker/internal/model"
)

func mcq(i int) *model.Answer {
	return &model.Answer{Type: model.QuestionTypeMCQ, Choice: &i}
}

func num(s string) *model.Answer {
	return &model.Answer{Type: model.QuestionTypeNumeric, Value: &s}
}

func text(s string) *model.Answer {
	return &model.Answer{Type: model.QuestionTypeText, Value: &s}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		user *model.Answer
		key  *model.Answer
		want Comparison
	}{
		{"both nil", nil, nil, Comparison{}},
		{"not attempted with key", nil, mcq(1), Comparison{HasKey: true}},
		{"attempted without key", mcq(1), nil, Comparison{Attempted: true}},
		{"mcq correct", mcq(2), mcq(2), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"mcq incorrect", mcq(0), mcq(3), Comparison{Attempted: true, HasKey: true}},
		{"type mismatch value equivalent", mcq(0), num("0"), Comparison{Attempted: true, HasKey: true}},
		{"numeric exact", num("3.14"), num("3.14"), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"numeric within tolerance", num("3.140001"), num("3.14"), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"numeric outside tolerance", num("3.2"), num("3.14"), Comparison{Attempted: true, HasKey: true}},
		{"numeric fraction vs decimal", num("1/3"), num("0.333333"), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"numeric fallback string match", num("abc"), num("abc"), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"numeric fallback string mismatch", num("abc"), num("abd"), Comparison{Attempted: true, HasKey: true}},
		{"text case insensitive", text("sodium"), text("SODIUM"), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"text whitespace collapsed", text("  hello   world "), text("hello world"), Comparison{Attempted: true, Correct: true, HasKey: true}},
		{"text different", text("sodium"), text("potassium"), Comparison{Attempted: true, HasKey: true}},
		{"legacy letter key", text("b"), mcq(1), Comparison{Attempted: true, HasKey: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.user, tt.key)
			if got != tt.want {
				t.Errorf("Compare() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompareRepairsLegacyMcqLetters(t *testing.T) {
	// An MCQ answer whose payload is still a letter string normalizes to an
	// option index before comparison.
	letter := "B"
	user := &model.Answer{Type: model.QuestionTypeMCQ, Value: &letter}
	got := Compare(user, mcq(1))
	if !got.Correct {
		t.Errorf("Compare(mcq letter B, mcq(1)) = %+v, want correct", got)
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"-7", -7, true},
		{"3.14", 3.14, true},
		{" 2.5 ", 2.5, true},
		{"1/3", 1.0 / 3.0, true},
		{"-1/4", -0.25, true},
		{"1 / 2", 0.5, true},
		{"1/0", 0, false},
		{"a/b", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumeric(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseNumeric(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parseNumeric(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumericFractionPrecision(t *testing.T) {
	got, ok := parseNumeric("1/3")
	if !ok {
		t.Fatal("parseNumeric(1/3) failed")
	}
	if math.Abs(got-1.0/3.0) >= 1e-6 {
		t.Errorf("parseNumeric(1/3) = %v, want within 1e-6 of 0.333333...", got)
	}
}

func TestIsClose(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"equal", 1.0, 1.0, true},
		{"absolute tolerance", 0.0005, 0.0, true},
		{"just outside absolute", 0.002, 0.0, false},
		{"relative on large values", 1e9, 1e9 + 500, true},
		{"outside relative on large values", 1e9, 1e9 + 5000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isClose(tt.a, tt.b); got != tt.want {
				t.Errorf("isClose(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
