package speechtotext

import (
	"context"
	"errors"
	"testing"
)

type strategyStub struct{ name string }

func (s *strategyStub) Transcribe(context.Context, ...TranscriptionOption) error { return nil }
func (s *strategyStub) SendAudio([]byte) error                                   { return nil }
func (s *strategyStub) StopStream() error                                        { return nil }

func TestSelectPrefersContinuousRecognition(t *testing.T) {
	client, strategy, err := Select(map[Strategy]func() (Client, error){
		StrategyContinuous: func() (Client, error) { return &strategyStub{name: "continuous"}, nil },
		StrategySingleShot: func() (Client, error) { return &strategyStub{name: "single"}, nil },
		StrategyRelay:      func() (Client, error) { return &strategyStub{name: "relay"}, nil },
	})
	if err != nil {
		t.Fatalf("expected selection to succeed, got %v", err)
	}

	if strategy != StrategyContinuous {
		t.Fatalf("expected continuous strategy, got %q", strategy)
	}
	if stub, ok := client.(*strategyStub); !ok || stub.name != "continuous" {
		t.Fatalf("expected continuous client, got %#v", client)
	}
}

func TestSelectDegradesInFixedOrder(t *testing.T) {
	client, strategy, err := Select(map[Strategy]func() (Client, error){
		StrategyContinuous: func() (Client, error) { return nil, errors.New("no api key") },
		StrategySingleShot: func() (Client, error) { return nil, errors.New("no api key") },
		StrategyRelay:      func() (Client, error) { return &strategyStub{name: "relay"}, nil },
	})
	if err != nil {
		t.Fatalf("expected selection to degrade to relay, got %v", err)
	}

	if strategy != StrategyRelay {
		t.Fatalf("expected relay strategy, got %q", strategy)
	}
	if client == nil {
		t.Fatalf("expected a client")
	}
}

func TestSelectFailsWhenNothingIsConstructible(t *testing.T) {
	_, _, err := Select(map[Strategy]func() (Client, error){
		StrategyContinuous: func() (Client, error) { return nil, errors.New("no api key") },
	})
	if !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("expected ErrNoStrategy, got %v", err)
	}
}

func TestStrategyPriorityIsStable(t *testing.T) {
	priority := StrategyPriority()
	expected := []Strategy{StrategyContinuous, StrategySingleShot, StrategyRelay}

	if len(priority) != len(expected) {
		t.Fatalf("expected %d strategies, got %d", len(expected), len(priority))
	}
	for i := range expected {
		if priority[i] != expected[i] {
			t.Fatalf("expected strategy %q at position %d, got %q", expected[i], i, priority[i])
		}
	}
}
