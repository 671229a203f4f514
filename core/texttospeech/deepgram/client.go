package deepgram

import (
	"fmt"
	"os"
	"slices"
)

type deepgramVoice string

const (
	VoiceThalia  deepgramVoice = "aura-2-thalia-en"
	VoiceAsteria deepgramVoice = "aura-asteria-en"
	VoiceOrion   deepgramVoice = "aura-orion-en"
	VoiceLuna    deepgramVoice = "aura-luna-en"

	defaultVoice = VoiceThalia
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceThalia, VoiceAsteria, VoiceOrion, VoiceLuna}
}

// TextToSpeechClient produces speech through Deepgram's streaming speak API.
// Each spoken response gets its own generator, so an in-flight response can
// be cancelled without tearing down the client.
type TextToSpeechClient struct {
	voice deepgramVoice
}

// NewTextToSpeechClient creates a speech synthesis client. It fails when no
// Deepgram API key is configured, letting the session fall back to text-only
// responses.
func NewTextToSpeechClient(voice deepgramVoice) (*TextToSpeechClient, error) {
	if _, ok := os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	if voice == "" {
		voice = defaultVoice
	}
	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	return &TextToSpeechClient{voice: voice}, nil
}

func (c *TextToSpeechClient) SetVoice(voice deepgramVoice) {
	c.voice = voice
}
