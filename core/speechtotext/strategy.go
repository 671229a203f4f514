package speechtotext

import (
	"context"
	"errors"
	"fmt"
)

// Client is the capture capability every strategy implements. Transcribe
// arms the stream with callbacks, SendAudio feeds it, StopStream finishes
// the capture (whatever that means for the strategy).
type Client interface {
	Transcribe(ctx context.Context, opts ...TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
}

// Strategy names one of the interchangeable capture approaches.
type Strategy string

const (
	// StrategyContinuous streams audio and emits interim plus final
	// transcripts until stopped.
	StrategyContinuous Strategy = "continuous"
	// StrategySingleShot streams audio, emits exactly one final transcript
	// and ends the capture itself.
	StrategySingleShot Strategy = "single_shot"
	// StrategyRelay records a raw clip and uploads it to a remote
	// transcription endpoint when the capture stops.
	StrategyRelay Strategy = "relay"
)

// ErrNoStrategy reports that no capture strategy could be constructed. The
// session surfaces it as capture being unsupported on this platform.
var ErrNoStrategy = errors.New("no speech-to-text strategy available")

// StrategyPriority is the fixed degrade order: the richer continuous
// recognition is preferred, then single-shot, then record-then-upload. This
// is a static list, not runtime negotiation.
func StrategyPriority() []Strategy {
	return []Strategy{StrategyContinuous, StrategySingleShot, StrategyRelay}
}

// Select walks the strategy priority and returns the first client that can
// be constructed. Constructors that fail are skipped, degrading to the next
// strategy in line.
func Select(available map[Strategy]func() (Client, error)) (Client, Strategy, error) {
	var errs error
	for _, strategy := range StrategyPriority() {
		construct, ok := available[strategy]
		if !ok {
			continue
		}

		client, err := construct()
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", strategy, err))
			continue
		}

		return client, strategy, nil
	}

	return nil, "", errors.Join(ErrNoStrategy, errs)
}
