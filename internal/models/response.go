package models

// ContactResponse is the JSON body returned by the contact API.
type ContactResponse struct {
	OK           bool     `json:"ok"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
	Code         string   `json:"code,omitempty"`
	Fields       []string `json:"fields,omitempty"`
	SubmissionID string   `json:"submission_id,omitempty"`
}
