package session

import (
	"time"

	sess "github.com/abhisek/trilogic/internal/session"
)

// sessionInitMsg is sent when the attempt has been started or resumed.
type sessionInitMsg struct {
	Session *sess.Session
	Resumed bool
	Err     error
}

// timerTickMsg is sent every second to refresh the elapsed time.
type timerTickMsg time.Time

// snapshotSavedMsg confirms a snapshot write.
type snapshotSavedMsg struct {
	Err error
}
