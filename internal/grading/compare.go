package grading

import (
	"strings"

	"github.com/shailesh1606/TestMocker/internal/model"
)

// Comparison is the outcome of judging one user answer against the key.
type Comparison struct {
	Attempted bool
	Correct   bool
	HasKey    bool
}

// Compare judges a user answer against a key entry. Both sides are normalized
// first, so legacy answer shapes are accepted. An attempted answer with no key
// entry is unscoreable: counted as attempted but never penalized. A kind
// mismatch between user and key is always wrong, even when the values would
// coincide.
func Compare(user, key *model.Answer) Comparison {
	u := model.Normalize(user)
	k := model.Normalize(key)

	attempted := u.HasValue()
	hasKey := k.HasValue()

	if !attempted {
		return Comparison{HasKey: hasKey}
	}
	if !hasKey {
		return Comparison{Attempted: true}
	}
	if u.Type != k.Type {
		return Comparison{Attempted: true, HasKey: true}
	}

	switch u.Type {
	case model.QuestionTypeMCQ:
		return Comparison{Attempted: true, Correct: *u.Choice == *k.Choice, HasKey: true}

	case model.QuestionTypeNumeric:
		un, uok := parseNumeric(*u.Value)
		kn, kok := parseNumeric(*k.Value)
		if !uok || !kok {
			// Malformed number: fall back to exact trimmed-string equality.
			eq := strings.TrimSpace(*u.Value) == strings.TrimSpace(*k.Value)
			return Comparison{Attempted: true, Correct: eq, HasKey: true}
		}
		return Comparison{Attempted: true, Correct: isClose(un, kn), HasKey: true}

	case model.QuestionTypeText:
		eq := foldText(*u.Value) == foldText(*k.Value)
		return Comparison{Attempted: true, Correct: eq, HasKey: true}
	}

	return Comparison{Attempted: true, HasKey: true}
}

// foldText collapses internal whitespace, trims, and lowercases.
func foldText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
