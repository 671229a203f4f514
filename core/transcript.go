package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Role names the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Entry is one rendered line of the session transcript.
type Entry struct {
	ID   string
	Role Role
	Text string
	Time time.Time
}

// transcriptLog collects everything the session rendered, in order. The
// controller appends, front-ends read point-in-time snapshots.
type transcriptLog struct {
	mu      sync.Mutex
	entries []Entry
}

func (l *transcriptLog) append(role Role, text string) Entry {
	entry := Entry{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
		Time: time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return entry
}

// Snapshot returns a deep copy of the log safe to render while the session
// keeps appending.
func (l *transcriptLog) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]Entry, 0, len(l.entries))
	if err := copier.Copy(&snapshot, &l.entries); err != nil {
		logger.Error("failed to snapshot transcript", "error", err)
		return nil
	}
	return snapshot
}
