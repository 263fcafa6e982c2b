package api

import (
	"time"

	"metricd.example.org/meta"
)

// Severity is the severity of a Notification.
type Severity int

// Well-known severities, ordered the same way collectd orders them
// internally (OKAY is the "all clear" severity, FAILURE the worst).
const (
	Okay Severity = 1 + iota
	Warning
	Failure
)

func (s Severity) String() string {
	switch s {
	case Okay:
		return "OKAY"
	case Warning:
		return "WARNING"
	case Failure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Notification represents a state transition reported by a collector or a
// threshold check. It shares the metric identity fields with ValueList but
// carries no numeric payload.
type Notification struct {
	Identifier

	Severity Severity
	Time     time.Time
	Message  string
	Meta     meta.Data
}

// NotificationWriter is implemented by notification sinks.
type NotificationWriter interface {
	Notify(n *Notification) error
}

// NotificationWriterFunc adapts a plain function to the NotificationWriter
// interface.
type NotificationWriterFunc func(n *Notification) error

// Notify implements NotificationWriter.
func (f NotificationWriterFunc) Notify(n *Notification) error { return f(n) }
