package texttospeech

import "github.com/nexusai/nexus-core/core/audio"

type TextToSpeechOptions struct {
	// SpeechAudioCallback is called when the TTS client produces audio.
	SpeechAudioCallback func(audio []byte)
	// SpeechEndedCallback is called once all speech for the generator's text
	// has been produced.
	SpeechEndedCallback func()
	// ErrorCallback is called when the TTS client encounters an error, this
	// usually means the generation has been cancelled.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithSpeechAudioCallback(callback func([]byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) { o.SpeechAudioCallback = callback }
}

func WithSpeechEndedCallback(callback func()) TextToSpeechOption {
	return func(o *TextToSpeechOptions) { o.SpeechEndedCallback = callback }
}

func WithErrorCallback(callback func(error)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) { o.ErrorCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}

type SpeechGenerator interface {
	// SendText sends text to the generator. Speech is produced in the order
	// text is sent.
	//
	// SendText will error if EndOfText, Cancel or Close has been called.
	SendText(string) error
	// EndOfText signals that no more text will be sent. The generator closes
	// itself after all remaining speech has been produced.
	//
	// EndOfText will error if Cancel or Close has been called.
	EndOfText() error
	// Cancel immediately stops further speech generation and closes the
	// generator. Audio already handed to callbacks is not recalled.
	//
	// Repeated calls to Cancel are ignored.
	Cancel() error
	// Close immediately closes the generator. No more speech is produced
	// after this call.
	//
	// Repeated calls to Close are ignored.
	Close() error
}
