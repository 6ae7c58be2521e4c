package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/illegalcall/second-opinion/internal/config"
	"github.com/illegalcall/second-opinion/internal/contact"
	"github.com/illegalcall/second-opinion/internal/mailer"
	"github.com/illegalcall/second-opinion/internal/metrics"
	"github.com/illegalcall/second-opinion/internal/models"
	"github.com/illegalcall/second-opinion/internal/storage"
)

const (
	endpointAPI  = "api"
	endpointPage = "page"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	processor *contact.Processor
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	logger    *slog.Logger
}

func NewServer(cfg *config.Config, sender mailer.Sender, log *slog.Logger) (*Server, error) {
	// Initialize storage
	localStorage, err := storage.NewLocalStorage(cfg.Storage.TempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	processor := contact.NewProcessor(contact.Options{
		Envelope: contact.Envelope{
			FromName:    cfg.SMTP.FromName,
			FromAddress: cfg.SenderAddress(),
			To:          cfg.RecipientAddress(),
		},
		StrictEmail:       cfg.Contact.StrictEmail,
		AllowList:         cfg.Contact.AttachmentAllowList,
		MaxAttachmentSize: cfg.Contact.MaxAttachmentSize,
		SendTimeout:       cfg.SMTP.Timeout,
	}, localStorage, sender, m, log)

	server := &Server{
		cfg:       cfg,
		processor: processor,
		metrics:   m,
		registry:  registry,
		logger:    log,
	}

	// Multipart bodies are parsed lazily in the handlers so malformed ones
	// surface as ParseError instead of a fasthttp 400.
	app := fiber.New(fiber.Config{
		ReadTimeout:                  cfg.Server.ReadTimeout,
		WriteTimeout:                 cfg.Server.WriteTimeout,
		BodyLimit:                    cfg.Server.BodyLimit,
		DisablePreParseMultipartForm: true,
		DisableStartupMessage:        cfg.Server.Environment == "production",
		ErrorHandler:                 server.handleError,
	})
	server.app = app

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Routes
	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.app.Group("/api")
	api.Post("/contact", s.handleContact)
	api.All("/contact", s.handleContactMethodNotAllowed)

	s.app.Post("/contact", s.handleContactPage)
	s.app.All("/contact", s.handleContactPageMethodNotAllowed)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// submit runs the request through the processor and records the outcome.
func (s *Server) submit(c *fiber.Ctx, endpoint string) (string, error) {
	id := uuid.NewString()

	form, err := readForm(c)
	if err != nil {
		err = &contact.ParseError{Err: err}
	} else {
		_, err = s.processor.Process(c.UserContext(), id, form)
	}

	s.observe(endpoint, id, err)
	return id, err
}

// readForm accepts multipart bodies and, for plain HTML forms without file
// inputs, urlencoded ones.
func readForm(c *fiber.Ctx) (*multipart.Form, error) {
	contentType := string(c.Request().Header.ContentType())
	if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		values := make(map[string][]string)
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = append(values[string(k)], string(v))
		})
		return &multipart.Form{Value: values}, nil
	}
	return c.MultipartForm()
}

func (s *Server) observe(endpoint, id string, err error) {
	var (
		verr  *contact.ValidationError
		perr  *contact.ParseError
		derr  *contact.DispatchError
		attrs = []any{"submission_id", id, "endpoint", endpoint}
	)

	switch {
	case err == nil:
		s.metrics.ObserveSubmission(endpoint, metrics.OutcomeSent)
	case errors.As(err, &verr):
		s.logger.Info("Submission rejected", append(attrs, "reason", verr.Kind(), "fields", verr.Fields())...)
		s.metrics.ObserveSubmission(endpoint, metrics.OutcomeInvalid)
	case errors.As(err, &perr):
		s.logger.Error("Failed to parse submission", append(attrs, "error", err)...)
		s.metrics.ObserveSubmission(endpoint, metrics.OutcomeParseError)
	case errors.As(err, &derr):
		s.logger.Error("Failed to send submission", append(attrs, "error", err)...)
		s.metrics.ObserveSubmission(endpoint, metrics.OutcomeDispatchError)
	default:
		s.logger.Error("Failed to process submission", append(attrs, "error", err)...)
		s.metrics.ObserveSubmission(endpoint, metrics.OutcomeError)
	}
}

// handleError renders errors raised outside the handlers, such as an
// oversized body, in the format of the endpoint that was called.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	s.logger.Warn("Request failed", "method", c.Method(), "path", c.Path(), "status", code, "error", err)

	switch c.Path() {
	case "/api/contact":
		return c.Status(code).JSON(models.ContactResponse{Error: errorMessage(code)})
	case "/contact":
		return s.renderAlert(c, code, alert{Level: "danger", Message: errorMessage(code)})
	default:
		return c.Status(code).SendString(errorMessage(code))
	}
}

func errorMessage(code int) string {
	switch code {
	case fiber.StatusRequestEntityTooLarge:
		return "Request too large"
	case fiber.StatusNotFound:
		return "Not found"
	default:
		return "Server error"
	}
}

// statusFor maps a processing error to its HTTP status.
func statusFor(err error) int {
	var verr *contact.ValidationError
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, contact.ErrMethodNotAllowed):
		return fiber.StatusMethodNotAllowed
	default:
		return fiber.StatusInternalServerError
	}
}
