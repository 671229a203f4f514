package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/nexusai/nexus-core/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	leftoverAudio []byte
	draining      bool
	onDrained     func()

	mu      sync.Mutex
	audioMu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

func (c *playbackClient) processAudio(bytesPerFrame int) func(pOutput, _ []byte, frameCount uint32) {
	return func(pOutput, _ []byte, frameCount uint32) {
		n := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		available := min(n, len(c.leftoverAudio))
		copy(pOutput, c.leftoverAudio[:available])
		c.leftoverAudio = c.leftoverAudio[available:]
		for i := available; i < n && i < len(pOutput); i++ {
			pOutput[i] = 0
		}

		var onDrained func()
		if c.draining && len(c.leftoverAudio) == 0 {
			onDrained = c.onDrained
			c.draining = false
			c.onDrained = nil
		}
		c.audioMu.Unlock()

		if onDrained != nil {
			onDrained()
		}
	}
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = append(c.leftoverAudio, audio...)
	c.draining = false
	return nil
}

// NotifyDrained registers a one-shot callback invoked once every buffered
// sample has been handed to the device. Buffering more audio afterwards
// cancels the pending notification.
func (c *playbackClient) NotifyDrained(onDrained func()) {
	c.audioMu.Lock()
	if len(c.leftoverAudio) == 0 {
		c.audioMu.Unlock()
		if onDrained != nil {
			onDrained()
		}
		return
	}
	c.draining = true
	c.onDrained = onDrained
	c.audioMu.Unlock()
}

// ClearBuffer drops all queued audio, silencing playback immediately. A
// pending drain notification is dropped with it.
func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = nil
	c.draining = false
	c.onDrained = nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.ClearBuffer()
	return nil
}
