package genai

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"varejo-ai-web/internal/domain"
)

// TestExtractObjectDirect ensures a bare JSON object parses without scanning.
func TestExtractObjectDirect(t *testing.T) {
	obj, err := ExtractObject(`{"caption":"oferta do dia"}`)
	if err != nil {
		t.Fatalf("ExtractObject returned error: %v", err)
	}
	if obj["caption"] != "oferta do dia" {
		t.Fatalf("unexpected caption: %v", obj["caption"])
	}
}

// TestExtractObjectWithSurroundingNoise ensures prose and markdown fences
// around the object are discarded.
func TestExtractObjectWithSurroundingNoise(t *testing.T) {
	raw := "Claro! Aqui está o JSON:\n```json\n{\"cta\":\"chama no zap\"}\n```\nEspero ter ajudado."
	obj, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject returned error: %v", err)
	}
	if obj["cta"] != "chama no zap" {
		t.Fatalf("unexpected cta: %v", obj["cta"])
	}
}

// TestExtractObjectBraceInsideString ensures braces inside string literals do
// not terminate the scanned span.
func TestExtractObjectBraceInsideString(t *testing.T) {
	raw := `noise before {"a":"}"} trailing noise`
	obj, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject returned error: %v", err)
	}
	if obj["a"] != "}" {
		t.Fatalf("expected closing brace value, got %v", obj["a"])
	}
}

// TestExtractObjectEscapedQuote ensures escaped quotes keep string state.
func TestExtractObjectEscapedQuote(t *testing.T) {
	raw := `prefix {"a":"diz \"oi\" e {fecha}","b":2} suffix`
	obj, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject returned error: %v", err)
	}
	if obj["a"] != `diz "oi" e {fecha}` {
		t.Fatalf("unexpected a: %v", obj["a"])
	}
	if obj["b"] != float64(2) {
		t.Fatalf("unexpected b: %v", obj["b"])
	}
}

// TestExtractObjectNestedObjects ensures the full top-level object is taken,
// not the first nested one.
func TestExtractObjectNestedObjects(t *testing.T) {
	raw := `{"outer":{"inner":1},"tail":"x"}`
	obj, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject returned error: %v", err)
	}
	if _, ok := obj["tail"]; !ok {
		t.Fatalf("expected top-level object with tail key, got %v", obj)
	}
}

// TestExtractObjectRoundTrip ensures a serialized nested object embedded in
// noise is recovered exactly, including hostile string values.
func TestExtractObjectRoundTrip(t *testing.T) {
	original := map[string]any{
		"a": `}{"tricky"`,
		"b": []any{float64(1), map[string]any{"c": "{"}},
		"d": map[string]any{"e": nil, "f": true},
	}
	serialized, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	raw := "Segue o resultado:\n```json\n" + string(serialized) + "\n```\nQualquer coisa me avise."

	obj, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject returned error: %v", err)
	}
	if !reflect.DeepEqual(obj, original) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", obj, original)
	}
}

// TestExtractObjectRejectsNonJSON ensures plain prose yields the non-JSON
// error classification.
func TestExtractObjectRejectsNonJSON(t *testing.T) {
	for _, raw := range []string{"", "   ", "desculpe, não consigo ajudar", "[1,2,3]", "{ quebrado"} {
		_, err := ExtractObject(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if domain.KindOf(err) != domain.ErrAINonJSON {
			t.Fatalf("expected AI_RETURNED_NON_JSON for %q, got %s", raw, domain.KindOf(err))
		}
		var pe *domain.PipelineError
		if !errors.As(err, &pe) {
			t.Fatalf("expected structured pipeline error for %q", raw)
		}
	}
}
