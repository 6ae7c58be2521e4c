package contact

import (
	"errors"
	"strings"
)

// Validation failure kinds.
const (
	ReasonMissingRequired = "missing_required"
	ReasonInvalidEmail    = "invalid_email"
)

// ErrMethodNotAllowed is returned for any verb other than POST.
var ErrMethodNotAllowed = errors.New("method not allowed")

// ValidationError reports every problem found in a submission. Kind is
// missing_required whenever a required field is empty, even if the email is
// also malformed.
type ValidationError struct {
	Missing      []string
	InvalidEmail bool
}

func (e *ValidationError) Kind() string {
	if len(e.Missing) > 0 {
		return ReasonMissingRequired
	}
	return ReasonInvalidEmail
}

// Fields names the offending form keys.
func (e *ValidationError) Fields() []string {
	fields := append([]string(nil), e.Missing...)
	if e.InvalidEmail {
		fields = append(fields, FieldEmail.Key)
	}
	return fields
}

// Messages are the human readable problems, safe to show the submitter.
func (e *ValidationError) Messages() []string {
	var msgs []string
	for _, key := range e.Missing {
		msgs = append(msgs, requiredMessages[key])
	}
	if e.InvalidEmail {
		msgs = append(msgs, "Email format is invalid.")
	}
	return msgs
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), " ")
}

var requiredMessages = map[string]string{
	FieldName.Key:      "Name is required.",
	FieldPhone.Key:     "Phone is required.",
	FieldTreatment.Key: "Requested treatment is required.",
}

// ParseError means the request body could not be read as multipart form data.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "failed to parse form: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// DispatchError means the mail transport refused or failed the send.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string { return "failed to dispatch message: " + e.Err.Error() }
func (e *DispatchError) Unwrap() error { return e.Err }
