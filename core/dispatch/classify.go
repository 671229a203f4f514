package dispatch

import "encoding/json"

// Envelope is the raw backend reply shape. Several backend protocol versions
// coexist: a discriminated union keyed by Type, an older {success, message}
// shape, and replies carrying neither. Classification layers them in that
// order and must keep doing so.
type Envelope struct {
	Type string `json:"type,omitempty" jsonschema:"enum=clarification,enum=ui_handoff,enum=api_response,enum=error"`

	// Clarification fields.
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`

	// UI handoff fields.
	URL    string `json:"url,omitempty"`
	Action string `json:"action,omitempty"`

	// Spoken reply, shared by most variants.
	VoiceResponse string `json:"voice_response,omitempty"`

	// Legacy generic shape.
	Message string `json:"message,omitempty"`
	Success *bool  `json:"success,omitempty"`

	// Populated by the voice-processing endpoint.
	Transcript string `json:"transcript,omitempty"`

	// Location context echoed by maps-type replies.
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// Classify maps a backend envelope onto exactly one Result variant.
func Classify(env Envelope) Result {
	switch env.Type {
	case "clarification":
		return Clarification{
			Question:      env.Question,
			Options:       env.Options,
			VoiceResponse: firstNonEmpty(env.VoiceResponse, env.Question),
		}
	case "ui_handoff":
		return UIHandoff{
			URL:           env.URL,
			VoiceResponse: firstNonEmpty(env.VoiceResponse, env.Message),
		}
	case "api_response":
		return APIResponse{
			VoiceResponse: firstNonEmpty(env.VoiceResponse, env.Message),
			Origin:        env.Origin,
			Destination:   env.Destination,
		}
	case "error":
		return ErrorResult{Message: firstNonEmpty(env.Message, env.VoiceResponse, ErrorMessage)}
	}

	if env.Success != nil || env.Message != "" {
		success := env.Success == nil || *env.Success
		return GenericResult{Message: firstNonEmpty(env.Message, ProcessedMessage), Success: success}
	}

	return GenericResult{Message: ProcessedMessage, Success: true}
}

// ClassifyJSON classifies a raw reply body. Unparseable bodies fall through
// to the generic result, they never surface as a decoding error.
func ClassifyJSON(raw []byte) Result {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return GenericResult{Message: ProcessedMessage, Success: true}
	}
	return Classify(env)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
