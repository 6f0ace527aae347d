// pkg/core/session.go
package core

import "time"

// User is the authenticated dashboard user.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Premium  bool   `json:"premium"`
	Referral string `json:"referral,omitempty"`
}

// SessionState is the provisioning state of a practice server.
type SessionState string

const (
	SessionQueued       SessionState = "queued"
	SessionProvisioning SessionState = "provisioning"
	SessionReady        SessionState = "ready"
	SessionEnded        SessionState = "ended"
	SessionFailed       SessionState = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s SessionState) Terminal() bool {
	return s == SessionEnded || s == SessionFailed
}

// SessionStatus is a snapshot of a practice session as reported by the backend.
// Version increases monotonically with every backend-side change.
type SessionStatus struct {
	ID            string       `json:"id"`
	State         SessionState `json:"state"`
	Map           string       `json:"map"`
	QueuePosition int          `json:"queuePosition"`
	ConnectString string       `json:"connectString,omitempty"`
	Version       uint64       `json:"version"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
