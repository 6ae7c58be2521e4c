package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/illegalcall/second-opinion/internal/models"
)

var testEnvelope = Envelope{
	FromName:    "Turkiye Dental Website",
	FromAddress: "bot@example.com",
	To:          "clinic@example.com",
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "New Second-Opinion Request — Dental Implants — Jane Doe", Subject(validFields()))

	fields := validFields()
	fields["name"] = "Tom & <Jerry>"
	assert.Equal(t, "New Second-Opinion Request — Dental Implants — Tom & <Jerry>", Subject(fields))
}

func TestBuildMessage(t *testing.T) {
	attachments := []models.AttachmentDescriptor{{Filename: "scan.jpg", Path: "/tmp/x", ContentType: "image/jpeg"}}

	msg := BuildMessage(testEnvelope, validFields(), "<p>body</p>", attachments)
	assert.Equal(t, "bot@example.com", msg.FromAddress)
	assert.Equal(t, "Turkiye Dental Website", msg.FromName)
	assert.Equal(t, "clinic@example.com", msg.To)
	assert.Equal(t, "Jane Doe <jane@example.com>", msg.ReplyTo())
	assert.Equal(t, "<p>body</p>", msg.HTML)
	assert.Equal(t, attachments, msg.Attachments)
}

func TestBuildMessage_ReplyTo(t *testing.T) {
	fields := validFields()
	fields["email"] = ""
	assert.Empty(t, BuildMessage(testEnvelope, fields, "", nil).ReplyTo())

	fields["email"] = "not-an-email"
	assert.Empty(t, BuildMessage(testEnvelope, fields, "", nil).ReplyTo())
}
