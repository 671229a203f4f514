package dispatch

import "github.com/invopop/jsonschema"

// EnvelopeSchema reflects the wire contract for backend replies. It is the
// reference point for keeping the layered classification and the backend
// protocol versions in sync.
func EnvelopeSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(&Envelope{})
}
