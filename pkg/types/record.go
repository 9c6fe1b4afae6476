// pkg/types/record.go
package types

import "time"

// Record is the unit emitted per batch input: the original secret, the
// kind and checker that handled it, the Outcome, and call diagnostics.
// Created by the execution engine, owned by the dispatcher's result set,
// read-only to output sinks.
type Record struct {
	Secret  string  `json:"secret"`
	Kind    string  `json:"kind"`
	Checker string  `json:"checker"`
	Outcome Outcome `json:"outcome"`

	// Elapsed is the wall-clock duration of the checker call.
	Elapsed time.Duration `json:"elapsed_ns"`

	// NotifyError carries a notification failure diagnostic. It never
	// downgrades an already-determined Outcome.
	NotifyError string `json:"notify_error,omitempty"`

	// Metadata carries source-specific context (file line, alert number).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// redactedMax is the longest secret shown unmodified in display output.
const redactedMax = 24

// Redacted returns a display-safe form of the secret: secrets longer than
// redactedMax keep a short prefix followed by "...".
func (r *Record) Redacted() string {
	return Redact(r.Secret)
}

// Redact truncates a secret for display.
func Redact(secret string) string {
	if len(secret) <= redactedMax {
		return secret
	}
	return secret[:redactedMax-3] + "..."
}
