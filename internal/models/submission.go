package models

import "fmt"

// FieldSet maps form field names to trimmed values. Built fresh per request.
type FieldSet map[string]string

// Get returns the value for key, or "" when absent.
func (f FieldSet) Get(key string) string {
	return f[key]
}

// UploadedFile is a file received with a submission and spooled to temporary
// storage for the lifetime of the request.
type UploadedFile struct {
	Filename    string // base name supplied by the client, untrusted
	Path        string // spooled location, removed when the request ends
	ContentType string // declared by the client, untrusted
	Size        int64
}

// AttachmentDescriptor is an UploadedFile that passed the attachment policy.
type AttachmentDescriptor struct {
	Filename    string
	Path        string
	ContentType string
}

type OutboundMessage struct {
	FromName       string
	FromAddress    string
	To             string
	ReplyToName    string
	ReplyToAddress string
	Subject        string
	HTML           string
	Attachments    []AttachmentDescriptor
}

// ReplyTo formats the reply-to header value, or "" when none is set.
func (m *OutboundMessage) ReplyTo() string {
	if m.ReplyToAddress == "" {
		return ""
	}
	if m.ReplyToName == "" {
		return m.ReplyToAddress
	}
	return fmt.Sprintf("%s <%s>", m.ReplyToName, m.ReplyToAddress)
}
