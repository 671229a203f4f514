package dispatch

import (
	"slices"
	"testing"
)

func TestEnvelopeSchemaPinsDiscriminatorValues(t *testing.T) {
	schema := EnvelopeSchema()

	typeSchema, ok := schema.Properties.Get("type")
	if !ok {
		t.Fatalf("expected envelope schema to describe the type discriminator")
	}

	discriminators := make([]string, 0, len(typeSchema.Enum))
	for _, value := range typeSchema.Enum {
		name, ok := value.(string)
		if !ok {
			t.Fatalf("expected string discriminator, got %#v", value)
		}
		discriminators = append(discriminators, name)
	}

	for _, expected := range []string{"clarification", "ui_handoff", "api_response", "error"} {
		if !slices.Contains(discriminators, expected) {
			t.Fatalf("expected discriminator %q in schema, got %v", expected, discriminators)
		}
	}
}

func TestEnvelopeSchemaKeepsLegacyFields(t *testing.T) {
	schema := EnvelopeSchema()

	for _, field := range []string{"success", "message", "voice_response", "url", "question", "options"} {
		if _, ok := schema.Properties.Get(field); !ok {
			t.Fatalf("expected envelope schema to keep field %q", field)
		}
	}
}
