package api

import (
	"errors"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/second-opinion/internal/contact"
)

const (
	pageSuccessMessage = "Thank you. We will contact you shortly."
	pageErrorMessage   = "Sorry, something went wrong. Please try again later."
)

var alertTmpl = template.Must(template.New("alert").Parse(
	`<div class="alert alert-{{.Level}}" role="alert">{{.Message}}</div>`,
))

type alert struct {
	Level   string
	Message string
}

// handleContactPage handles POST /contact for the static site form, which
// injects the returned alert fragment into the page.
func (s *Server) handleContactPage(c *fiber.Ctx) error {
	_, err := s.submit(c, endpointPage)
	return s.renderAlert(c, statusFor(err), pageAlert(err))
}

func (s *Server) handleContactPageMethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, fiber.MethodPost)
	return s.renderAlert(c, fiber.StatusMethodNotAllowed, pageAlert(contact.ErrMethodNotAllowed))
}

func pageAlert(err error) alert {
	var verr *contact.ValidationError
	switch {
	case err == nil:
		return alert{Level: "success", Message: pageSuccessMessage}
	case errors.As(err, &verr):
		return alert{Level: "danger", Message: verr.Error()}
	case errors.Is(err, contact.ErrMethodNotAllowed):
		return alert{Level: "danger", Message: "Method not allowed"}
	default:
		return alert{Level: "danger", Message: pageErrorMessage}
	}
}

func (s *Server) renderAlert(c *fiber.Ctx, status int, a alert) error {
	var sb strings.Builder
	if err := alertTmpl.Execute(&sb, a); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(sb.String())
}
