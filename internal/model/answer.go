package model

import (
	"encoding/json"
	"strings"
)

// QuestionType enumerates the kinds of answers a question accepts.
type QuestionType string

const (
	QuestionTypeMCQ     QuestionType = "MCQ"
	QuestionTypeNumeric QuestionType = "NUMERIC"
	QuestionTypeText    QuestionType = "TEXT"
)

// ParseQuestionType maps a loose type tag to a QuestionType.
// Accepts any casing; returns false for unknown tags.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MCQ":
		return QuestionTypeMCQ, true
	case "NUMERIC":
		return QuestionTypeNumeric, true
	case "TEXT":
		return QuestionTypeText, true
	}
	return "", false
}

// Answer is a tagged union holding a single question's response. Exactly one
// payload field is populated per kind: Choice for MCQ (option index 0..3),
// Value for numeric and text. A nil *Answer, or a populated kind whose payload
// is nil, both mean "no response".
type Answer struct {
	Type   QuestionType
	Choice *int
	Value  *string
}

// HasValue reports whether the answer carries an actual response.
func (a *Answer) HasValue() bool {
	if a == nil {
		return false
	}
	if a.Type == QuestionTypeMCQ {
		return a.Choice != nil
	}
	return a.Value != nil
}

// answerWire is the JSON shape shared with clients and the extraction service.
type answerWire struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the answer as {"type": ..., "value": ...}.
func (a Answer) MarshalJSON() ([]byte, error) {
	out := struct {
		Type  QuestionType `json:"type"`
		Value any          `json:"value"`
	}{Type: a.Type}
	switch {
	case a.Type == QuestionTypeMCQ && a.Choice != nil:
		out.Value = *a.Choice
	case a.Value != nil:
		out.Value = *a.Value
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes {"type", "value"} and normalizes the payload for the
// declared type. An unknown type tag yields a no-response answer of that tag's
// nearest parse, matching Normalize on structured records.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var w answerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t, ok := ParseQuestionType(w.Type)
	if !ok {
		*a = Answer{}
		return nil
	}
	var v any
	if len(w.Value) > 0 {
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return err
		}
	}
	if n := NormalizeForType(t, v); n != nil {
		*a = *n
	} else {
		*a = Answer{Type: t}
	}
	return nil
}

// mcqIndexFromString maps "A".."D" (any casing, first character) to 0..3.
func mcqIndexFromString(s string) *int {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	// exact letter or first character, matching legacy key entry
	c := s[0]
	if c >= 'A' && c <= 'D' {
		idx := int(c - 'A')
		return &idx
	}
	return nil
}

// Normalize coerces a loose answer value into an *Answer, accepting legacy
// shapes kept for backward compatibility:
//   - nil: no response
//   - int / whole float in 0..3: MCQ index
//   - single letter "A".."D" (any casing): MCQ index
//   - any other non-empty string: text
//   - map with "type"/"value" keys: normalized per the declared type
//   - *Answer / Answer: re-normalized per its own type
//
// Unrecognized shapes yield nil. Normalize is idempotent.
func Normalize(raw any) *Answer {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Answer:
		if v == nil {
			return nil
		}
		return normalizeStructured(v.Type, v.payload())
	case Answer:
		return normalizeStructured(v.Type, v.payload())
	case int:
		return mcqBounded(v)
	case int64:
		return mcqBounded(int(v))
	case float64:
		if v == float64(int(v)) {
			return mcqBounded(int(v))
		}
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if len(s) == 1 {
			if idx := mcqIndexFromString(s); idx != nil {
				return &Answer{Type: QuestionTypeMCQ, Choice: idx}
			}
		}
		return &Answer{Type: QuestionTypeText, Value: &s}
	case map[string]any:
		tag, _ := v["type"].(string)
		t, ok := ParseQuestionType(tag)
		if !ok {
			return nil
		}
		return normalizeStructured(t, v["value"])
	}
	return nil
}

// NormalizeForType interprets a raw input value under a question's configured
// type. This is the save path: the active input widget's value is coerced to
// the question's own kind rather than guessed at.
func NormalizeForType(t QuestionType, raw any) *Answer {
	return normalizeStructured(t, raw)
}

// payload extracts the loose value back out of an Answer for re-normalization.
func (a Answer) payload() any {
	switch {
	case a.Type == QuestionTypeMCQ && a.Choice != nil:
		return *a.Choice
	case a.Value != nil:
		return *a.Value
	}
	return nil
}

func normalizeStructured(t QuestionType, v any) *Answer {
	switch t {
	case QuestionTypeMCQ:
		switch mv := v.(type) {
		case nil:
			return &Answer{Type: QuestionTypeMCQ}
		case int:
			return mcqBounded(mv)
		case int64:
			return mcqBounded(int(mv))
		case float64:
			if mv == float64(int(mv)) {
				return mcqBounded(int(mv))
			}
			return &Answer{Type: QuestionTypeMCQ}
		case string:
			return &Answer{Type: QuestionTypeMCQ, Choice: mcqIndexFromString(mv)}
		}
		return &Answer{Type: QuestionTypeMCQ}
	case QuestionTypeNumeric, QuestionTypeText:
		if v == nil {
			return &Answer{Type: t}
		}
		s := strings.TrimSpace(stringify(v))
		if s == "" {
			return &Answer{Type: t}
		}
		return &Answer{Type: t, Value: &s}
	}
	return nil
}

// mcqBounded keeps indices in 0..3; anything else is an empty MCQ answer.
func mcqBounded(i int) *Answer {
	if i < 0 || i > 3 {
		return &Answer{Type: QuestionTypeMCQ}
	}
	return &Answer{Type: QuestionTypeMCQ, Choice: &i}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		b, _ := json.Marshal(s)
		return string(b)
	case int:
		b, _ := json.Marshal(s)
		return string(b)
	}
	b, _ := json.Marshal(v)
	return strings.Trim(string(b), `"`)
}
