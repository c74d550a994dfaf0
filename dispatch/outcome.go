package dispatch

import (
	"time"

	"algolia-recommend/message"
)

// OutcomeKind is the dispatcher's decision about one attempt.
type OutcomeKind int

const (
	OutcomeSuccess   OutcomeKind = iota + 1 // 2xx; body goes to the decoder
	OutcomeRetryable                        // try the next host
	OutcomeTerminal                         // stop and return Err
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Outcome is the classification of one attempt.
type Outcome struct {
	Kind     OutcomeKind
	Reason   string            // short machine-friendly cause, e.g. "http_5xx"
	Response *message.Response // set for Success
	Err      error             // set for Retryable and Terminal
}

// Attempt records one host tried within a call.
type Attempt struct {
	Number    int    // zero-based position within the call
	HostIndex int    // position of Host in the pool
	Host      string // base URL
	Outcome   Outcome
	Duration  time.Duration
}
