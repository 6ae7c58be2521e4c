package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/second-opinion/internal/contact"
	"github.com/illegalcall/second-opinion/internal/models"
)

// handleContact handles the POST /api/contact endpoint
func (s *Server) handleContact(c *fiber.Ctx) error {
	id, err := s.submit(c, endpointAPI)
	return c.Status(statusFor(err)).JSON(contactResponse(id, err))
}

func (s *Server) handleContactMethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, fiber.MethodPost)
	return c.Status(fiber.StatusMethodNotAllowed).JSON(contactResponse("", contact.ErrMethodNotAllowed))
}

func contactResponse(id string, err error) models.ContactResponse {
	if err == nil {
		return models.ContactResponse{OK: true, Message: "Sent", SubmissionID: id}
	}

	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		return models.ContactResponse{
			Error:  verr.Error(),
			Code:   verr.Kind(),
			Fields: verr.Fields(),
		}
	case errors.Is(err, contact.ErrMethodNotAllowed):
		return models.ContactResponse{Error: "Method not allowed"}
	default:
		// Transport and parse detail stays in the server log.
		return models.ContactResponse{Error: "Server error", SubmissionID: id}
	}
}
