package session

import "errors"

var (
	// ErrCaptureUnsupported reports that no speech capture strategy could be
	// configured on this platform.
	ErrCaptureUnsupported = errors.New("speech capture is not supported")
	// ErrAlreadyActive reports that capture cannot start because a turn is
	// already being processed or spoken.
	ErrAlreadyActive = errors.New("a turn is already active")
)
