package model

import (
	"encoding/json"
	"testing"
)

func answersEqual(a, b *Answer) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch {
	case a.Choice == nil && b.Choice != nil, a.Choice != nil && b.Choice == nil:
		return false
	case a.Choice != nil && *a.Choice != *b.Choice:
		return false
	}
	switch {
	case a.Value == nil && b.Value != nil, a.Value != nil && b.Value == nil:
		return false
	case a.Value != nil && *a.Value != *b.Value:
		return false
	}
	return true
}

func mcq(i int) *Answer     { return &Answer{Type: QuestionTypeMCQ, Choice: &i} }
func num(s string) *Answer  { return &Answer{Type: QuestionTypeNumeric, Value: &s} }
func text(s string) *Answer { return &Answer{Type: QuestionTypeText, Value: &s} }

func TestNormalizeLegacyShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *Answer
	}{
		{"nil", nil, nil},
		{"int index", 2, mcq(2)},
		{"int out of range", 7, &Answer{Type: QuestionTypeMCQ}},
		{"negative int", -1, &Answer{Type: QuestionTypeMCQ}},
		{"float index from json", float64(1), mcq(1)},
		{"fractional float", 1.5, nil},
		{"upper letter", "B", mcq(1)},
		{"lower letter", "d", mcq(3)},
		{"letter with spaces", " C ", mcq(2)},
		{"loose string", "sodium", text("sodium")},
		{"multi letter string", "BA", text("BA")},
		{"empty string", "", nil},
		{"whitespace string", "   ", nil},
		{"structured mcq letter", map[string]any{"type": "mcq", "value": "C"}, mcq(2)},
		{"structured mcq index", map[string]any{"type": "mcq", "value": float64(0)}, mcq(0)},
		{"structured mcq out of range", map[string]any{"type": "mcq", "value": 9}, &Answer{Type: QuestionTypeMCQ}},
		{"structured numeric", map[string]any{"type": "numeric", "value": "3.14"}, num("3.14")},
		{"structured numeric number", map[string]any{"type": "numeric", "value": 3.14}, num("3.14")},
		{"structured text", map[string]any{"type": "text", "value": "  Paris  "}, text("Paris")},
		{"structured nil value", map[string]any{"type": "text", "value": nil}, &Answer{Type: QuestionTypeText}},
		{"unknown type tag", map[string]any{"type": "essay", "value": "x"}, nil},
		{"unrecognized shape", []string{"a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !answersEqual(got, tt.want) {
				t.Errorf("Normalize(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{
		nil, 0, 3, 7, "A", "d", "sodium", "", "1/3",
		map[string]any{"type": "mcq", "value": "B"},
		map[string]any{"type": "numeric", "value": "42"},
		map[string]any{"type": "text", "value": " spaced out "},
		mcq(1), num("2.5"), text("osmosis"),
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if !answersEqual(once, twice) {
			t.Errorf("Normalize not idempotent for %v: once=%+v twice=%+v", in, once, twice)
		}
	}
}

func TestNormalizeForType(t *testing.T) {
	tests := []struct {
		name string
		qt   QuestionType
		in   any
		want *Answer
	}{
		{"mcq letter", QuestionTypeMCQ, "b", mcq(1)},
		{"mcq index", QuestionTypeMCQ, 3, mcq(3)},
		{"mcq garbage", QuestionTypeMCQ, "xyz", &Answer{Type: QuestionTypeMCQ}},
		{"numeric keeps string", QuestionTypeNumeric, " 1/3 ", num("1/3")},
		{"numeric from number", QuestionTypeNumeric, float64(7), num("7")},
		{"text trims", QuestionTypeText, "  mitosis ", text("mitosis")},
		{"text empty is no response", QuestionTypeText, "   ", &Answer{Type: QuestionTypeText}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeForType(tt.qt, tt.in)
			if !answersEqual(got, tt.want) {
				t.Errorf("NormalizeForType(%s, %v) = %+v, want %+v", tt.qt, tt.in, got, tt.want)
			}
		})
	}
}

func TestAnswerJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Answer
	}{
		{"mcq", *mcq(2)},
		{"mcq empty", Answer{Type: QuestionTypeMCQ}},
		{"numeric", *num("1/3")},
		{"text", *text("sodium chloride")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var out Answer
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !answersEqual(&tt.in, &out) {
				t.Errorf("round trip %s = %+v, want %+v", data, out, tt.in)
			}
		})
	}
}

func TestAnswerUnmarshalLooseWire(t *testing.T) {
	var a Answer
	if err := json.Unmarshal([]byte(`{"type":"MCQ","value":"c"}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !answersEqual(&a, mcq(2)) {
		t.Errorf("got %+v, want mcq(2)", a)
	}
}
