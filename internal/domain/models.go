package domain

import (
	"strings"
	"time"
)

// Target is a monitored URL as it appears in the configured list.
type Target string

func (t Target) URL() string { return string(t) }

// Key derives the flag name for a target: scheme stripped, path dropped,
// ":" replaced with "_" so the key is safe as an object/file name.
func (t Target) Key() string {
	s := strings.TrimPrefix(string(t), "http://")
	s = strings.TrimPrefix(s, "https://")
	host, _, _ := strings.Cut(s, "/")
	return strings.ReplaceAll(host, ":", "_")
}

// ProbeResult is the outcome of a single reachability check.
// StatusCode is 0 when no HTTP status was obtained (transport error).
type ProbeResult struct {
	Reachable  bool   `json:"is_up"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        string `json:"error,omitempty"`
}

// FlagState is the explicit three-way outcome of a flag lookup. A storage
// failure must not be read as "no flag" — that would turn an outage of the
// flag store into a stream of duplicate alerts.
type FlagState int

const (
	FlagAbsent FlagState = iota
	FlagPresent
	FlagUnknown
)

func (s FlagState) String() string {
	switch s {
	case FlagAbsent:
		return "absent"
	case FlagPresent:
		return "present"
	default:
		return "unknown"
	}
}

// DownFlag is the persisted marker for a target last observed down.
// Its existence is the only state carried between runs.
type DownFlag struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
	Status    string `json:"status"`
}

func NewDownFlag(key string, at time.Time) DownFlag {
	return DownFlag{Key: key, Timestamp: at.Unix(), Status: "down"}
}
