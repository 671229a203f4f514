package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	session "github.com/nexusai/nexus-core/core"
	"github.com/nexusai/nexus-core/core/audio/miniaudio"
	"github.com/nexusai/nexus-core/core/conversations"
	"github.com/nexusai/nexus-core/core/dispatch/nexus"
	"github.com/nexusai/nexus-core/core/speechtotext"
	sttdeepgram "github.com/nexusai/nexus-core/core/speechtotext/deepgram"
	"github.com/nexusai/nexus-core/core/speechtotext/relay"
	"github.com/nexusai/nexus-core/core/status"
	ttsdeepgram "github.com/nexusai/nexus-core/core/texttospeech/deepgram"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	backendURL := cli.String("backend", "", "Backend base URL (defaults to NEXUS_BACKEND_URL)")
	voiceAgentURL := cli.String("voice-agent", "", "Voice agent base URL (defaults to NEXUS_VOICE_AGENT_URL)")
	continuous := cli.Bool("continuous", false, "Keep listening after each response")
	userName := cli.String("user", "", "User name for voice room provisioning")
	cli.Parse()

	_ = godotenv.Load(*envFile)

	if *backendURL == "" {
		*backendURL = os.Getenv("NEXUS_BACKEND_URL")
	}
	if *backendURL == "" {
		*backendURL = "http://localhost:8000"
	}
	if *voiceAgentURL == "" {
		*voiceAgentURL = os.Getenv("NEXUS_VOICE_AGENT_URL")
	}
	if *userName == "" {
		*userName = "nexus-" + uuid.NewString()[:8]
	}

	backend := nexus.NewClient(*backendURL, nexus.WithVoiceAgentURL(*voiceAgentURL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controllerOptions := []session.ControllerOption{
		session.WithDispatcher(backend),
		session.WithLocationContext(conversations.NewLocationContext()),
	}
	if *continuous {
		controllerOptions = append(controllerOptions, session.WithListenMode(session.ListenModeContinuous))
	}

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		slog.Warn("audio devices unavailable, running text-only", "error", err)
	} else {
		defer audioClient.Close()
		controllerOptions = append(controllerOptions,
			session.WithAudioInput(audioClient),
			session.WithAudioOutput(audioClient),
		)
	}

	available := map[speechtotext.Strategy]func() (speechtotext.Client, error){
		speechtotext.StrategyContinuous: func() (speechtotext.Client, error) {
			return sttdeepgram.NewTranscriptionClient()
		},
		speechtotext.StrategySingleShot: func() (speechtotext.Client, error) {
			return sttdeepgram.NewTranscriptionClient(sttdeepgram.WithSingleUtterance())
		},
		speechtotext.StrategyRelay: func() (speechtotext.Client, error) {
			return relay.NewClient(backend)
		},
	}
	if !*continuous {
		// A push-to-talk session wants the capture to end itself after the
		// first utterance.
		delete(available, speechtotext.StrategyContinuous)
	}
	sttClient, strategy, err := speechtotext.Select(available)
	if err != nil {
		slog.Warn("no speech capture available", "error", err)
	} else {
		slog.Info("speech capture ready", "strategy", strategy)
		controllerOptions = append(controllerOptions, session.WithSpeechToTextClient(sttClient))
	}

	if ttsClient, err := ttsdeepgram.NewTextToSpeechClient(""); err != nil {
		slog.Warn("speech synthesis unavailable, responses stay text-only", "error", err)
	} else {
		controllerOptions = append(controllerOptions, session.WithTextToSpeechClient(ttsClient))
	}

	controller := session.NewController(controllerOptions...)
	defer controller.Close()

	openURL := browserOpener()
	createRoom := func() tea.Msg {
		credentials, err := backend.CreateRoom(ctx, *userName)
		if err != nil {
			return roomFailedMsg{message: err.Error()}
		}
		return roomCreatedMsg{roomName: credentials.RoomName, url: credentials.URL}
	}

	program := tea.NewProgram(newModel(controller, openURL, createRoom), tea.WithAltScreen())

	controller.Run(ctx,
		session.WithStateChangedCallback(func(state session.State) {
			program.Send(stateChangedMsg{state: state})
		}),
		session.WithInterimTranscriptionCallback(func(transcript string) {
			program.Send(interimTranscriptMsg{transcript: transcript})
		}),
		session.WithTranscriptionCallback(func(string) {
			program.Send(transcriptUpdatedMsg{})
		}),
		session.WithResponseCallback(func(string) {
			program.Send(transcriptUpdatedMsg{})
		}),
		session.WithSystemMessageCallback(func(string) {
			program.Send(transcriptUpdatedMsg{})
		}),
		session.WithClarificationCallback(func(question string, options []string) {
			program.Send(clarificationMsg{question: question, options: options})
		}),
		session.WithHandoffCallback(func(url, message string) {
			program.Send(handoffMsg{url: url, message: message})
		}),
		session.WithCancellationCallback(func() {
			program.Send(clarificationClearedMsg{})
		}),
	)

	poller := status.NewPoller(backend, status.WithUpdateCallback(func(statuses map[string]bool) {
		program.Send(serviceStatusMsg{statuses: statuses})
	}))
	go poller.Run(ctx)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "nexus: %v\n", err)
		os.Exit(1)
	}
}

func browserOpener() func(url string) error {
	return func(url string) error {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if cmd == nil {
			return errors.New("no browser opener for this platform")
		}
		return cmd.Start()
	}
}
