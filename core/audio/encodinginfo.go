package audio

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

// GetDefaultEncodingInfo returns the encoding used when no capture or
// playback client reported its own.
func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

// EncodingInfo describes the raw audio stream exchanged between capture,
// transcription, speech synthesis and playback. All four have to agree on it
// for a session, there is no resampling in between.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// MimeType returns the media type used when a captured clip is uploaded to a
// remote transcription endpoint.
func (e EncodingInfo) MimeType() string {
	switch e.Format {
	case EncodingLinear16:
		return "audio/l16"
	case EncodingMulaw:
		return "audio/mulaw"
	case EncodingALaw:
		return "audio/alaw"
	}
	return "application/octet-stream"
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
