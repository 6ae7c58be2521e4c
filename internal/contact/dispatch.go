package contact

import (
	"fmt"

	"github.com/illegalcall/second-opinion/internal/models"
)

// Envelope holds the fixed addressing of every outbound message.
type Envelope struct {
	FromName    string
	FromAddress string
	To          string
}

// Subject is plain text and is not HTML escaped. The transport strips CR/LF.
func Subject(fields models.FieldSet) string {
	return fmt.Sprintf("New Second-Opinion Request — %s — %s",
		fields.Get(FieldTreatment.Key), fields.Get(FieldName.Key))
}

// BuildMessage assembles the message for a validated submission. Reply-to is
// only set for a well-formed email so a lenient validator can't break the send.
func BuildMessage(env Envelope, fields models.FieldSet, html string, attachments []models.AttachmentDescriptor) *models.OutboundMessage {
	msg := &models.OutboundMessage{
		FromName:    env.FromName,
		FromAddress: env.FromAddress,
		To:          env.To,
		Subject:     Subject(fields),
		HTML:        html,
		Attachments: attachments,
	}
	if email := fields.Get(FieldEmail.Key); email != "" && IsEmail(email) {
		msg.ReplyToName = fields.Get(FieldName.Key)
		msg.ReplyToAddress = email
	}
	return msg
}
