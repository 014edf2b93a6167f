package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/benmeehan/push-agent/internal/constants"
)

// PushPayload is the form sent to a push monitor on every heartbeat.
type PushPayload struct {
	Status string // Monitor status
	Msg    string // Free-form status message
	Ping   string // Response time in ms, empty when not measured
}

// NewHeartbeatPayload returns the fixed liveness payload sent on every cycle.
func NewHeartbeatPayload() PushPayload {
	return PushPayload{
		Status: constants.PushStatusUp,
		Msg:    constants.DefaultPushMessage,
		Ping:   constants.DefaultPushPing,
	}
}

// Encode renders the payload as status, msg, ping in that order.
// url.Values is not used because it sorts keys.
func (p PushPayload) Encode() string {
	var sb strings.Builder
	sb.WriteString("status=")
	sb.WriteString(url.QueryEscape(p.Status))
	sb.WriteString("&msg=")
	sb.WriteString(url.QueryEscape(p.Msg))
	sb.WriteString("&ping=")
	sb.WriteString(url.QueryEscape(p.Ping))
	return sb.String()
}

// PushResult is the outcome of a single push attempt.
type PushResult struct {
	Attempt    uint64        // 1-based cycle counter
	StatusCode int           // HTTP status code, 0 when no response was received
	Duration   time.Duration // Time from sending the request to reading the status line
	Timestamp  time.Time     // When the attempt started
	Err        error         // Transport or request construction error
}

// Failed reports whether the attempt never got a response.
func (r PushResult) Failed() bool {
	return r.Err != nil
}

// Accepted reports whether the endpoint answered with a 2xx status.
func (r PushResult) Accepted() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}
