// pkg/types/outcome.go
package types

import "fmt"

// Status represents the outcome of one validation attempt.
type Status string

const (
	// StatusValid means the checker confirmed the credential is active.
	StatusValid Status = "valid"

	// StatusInvalid means the checker definitively determined the
	// credential does not work. Not an error.
	StatusInvalid Status = "invalid"

	// StatusError means the checker could not determine anything
	// (timeout, network failure, malformed input, internal fault).
	StatusError Status = "error"
)

// Outcome is the closed three-way result of a validation attempt.
// StatusInvalid ("confirmed dead") and StatusError ("couldn't tell")
// must never be conflated by callers.
type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Valid returns a valid outcome with an optional detail message.
func Valid(message string) Outcome {
	return Outcome{Status: StatusValid, Message: message}
}

// Invalid returns a definitive negative outcome.
func Invalid(message string) Outcome {
	return Outcome{Status: StatusInvalid, Message: message}
}

// Errorf returns an inconclusive outcome with a formatted reason.
func Errorf(format string, args ...any) Outcome {
	return Outcome{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// IsValid reports whether the outcome is StatusValid.
func (o Outcome) IsValid() bool {
	return o.Status == StatusValid
}

func (o Outcome) String() string {
	if o.Message == "" {
		return string(o.Status)
	}
	return fmt.Sprintf("%s (%s)", o.Status, o.Message)
}
