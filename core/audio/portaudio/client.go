package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/nexusai/nexus-core/core/audio"
)

// Client is a PortAudio-backed alternative to the miniaudio client, kept for
// platforms where malgo backends misbehave. It drives a single duplex stream.
type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	in  []int16
	out []int16

	captureMu sync.Mutex
	capturing bool
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

// StartCapture reads microphone frames until the context is cancelled or
// StopCapture is called, forwarding each chunk to onAudio.
func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.captureMu.Lock()
	if c.capturing {
		c.captureMu.Unlock()
		return nil
	}
	c.capturing = true
	c.captureMu.Unlock()

	if err := c.stream.Start(); err != nil {
		c.captureMu.Lock()
		c.capturing = false
		c.captureMu.Unlock()
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = c.StopCapture()
				return
			default:
			}

			c.captureMu.Lock()
			capturing := c.capturing
			c.captureMu.Unlock()
			if !capturing {
				return
			}

			if err := c.stream.Read(); err != nil {
				continue
			}

			audioBuffer := bytes.Buffer{}
			_ = binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}()

	return nil
}

func (c *Client) StopCapture() error {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()
	if !c.capturing {
		return nil
	}
	c.capturing = false
	return nil
}

func (c *Client) Close() {
	_ = c.StopCapture()
	c.stream.Close()
	_ = portaudio.Terminate()
}

func (c *Client) SendAudio(audio []byte) error {
	bufferSize := c.bufferSize * 2

	audio = append(c.leftoverAudio, audio...)
	for i := range len(audio)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audio) {
			c.leftoverAudio = make([]byte, len(audio)-i*bufferSize)
			copy(c.leftoverAudio, audio[i*bufferSize:])
			break
		}

		_ = binary.Read(bytes.NewBuffer(audio[i*bufferSize:(i+1)*bufferSize]), binary.LittleEndian, c.out)
		_ = c.stream.Write()
	}

	return nil
}

// NotifyDrained flushes whatever is buffered and reports completion. The
// PortAudio client writes synchronously so draining amounts to flushing the
// leftover partial buffer.
func (c *Client) NotifyDrained(onDrained func()) {
	bufferSize := c.bufferSize * 2

	leftover := c.leftoverAudio
	c.leftoverAudio = nil
	if len(leftover) > 0 && len(leftover) < bufferSize {
		padded := make([]byte, bufferSize)
		copy(padded, leftover)
		_ = binary.Read(bytes.NewBuffer(padded), binary.LittleEndian, c.out)
		_ = c.stream.Write()
	}

	if onDrained != nil {
		onDrained()
	}
}

func (c *Client) ClearBuffer() {
	c.leftoverAudio = nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
