package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/illegalcall/second-opinion/internal/mailer"
	"github.com/illegalcall/second-opinion/internal/metrics"
	"github.com/illegalcall/second-opinion/internal/models"
	"github.com/illegalcall/second-opinion/internal/storage"
)

type Options struct {
	Envelope
	StrictEmail       bool
	AllowList         bool
	MaxAttachmentSize int64
	SendTimeout       time.Duration
}

// Processor runs one submission through normalize, validate, render and
// dispatch. It holds no per-request state and is safe for concurrent use.
type Processor struct {
	opts    Options
	policy  AttachmentPolicy
	storage storage.Storage
	sender  mailer.Sender
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Result summarises a sent submission.
type Result struct {
	Attached int
	Dropped  int
}

func NewProcessor(opts Options, store storage.Storage, sender mailer.Sender, m *metrics.Metrics, logger *slog.Logger) *Processor {
	return &Processor{
		opts:    opts,
		policy:  AttachmentPolicy{AllowList: opts.AllowList, MaxSize: opts.MaxAttachmentSize},
		storage: store,
		sender:  sender,
		metrics: m,
		logger:  logger,
	}
}

// Process handles a parsed form. It returns a *ValidationError for bad input
// and a *DispatchError when the transport fails. Spooled uploads are removed
// before it returns.
func (p *Processor) Process(ctx context.Context, id string, form *multipart.Form) (*Result, error) {
	log := p.logger.With("submission_id", id)

	var values map[string][]string
	var files map[string][]*multipart.FileHeader
	if form != nil {
		values, files = form.Value, form.File
	}

	fields := ExtractFields(values)
	if err := Validate(fields, p.opts.StrictEmail); err != nil {
		return nil, err
	}

	html, err := Render(fields)
	if err != nil {
		return nil, err
	}

	uploads, err := p.spool(ctx, PickFiles(files))
	defer p.cleanup(log, uploads)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	result := &Result{}
	var attachments []models.AttachmentDescriptor
	for _, u := range uploads {
		desc, err := p.policy.Apply(u)
		switch {
		case err == nil:
			attachments = append(attachments, desc)
			result.Attached++
			p.metrics.ObserveAttachment(metrics.AttachmentAttached)
		case errors.Is(err, ErrTooLarge):
			log.Info("Dropping oversized attachment", "filename", u.Filename, "size", u.Size)
			result.Dropped++
			p.metrics.ObserveAttachment(metrics.AttachmentDroppedSize)
		default:
			log.Info("Dropping attachment", "filename", u.Filename, "declared_type", u.ContentType, "reason", err)
			result.Dropped++
			p.metrics.ObserveAttachment(metrics.AttachmentDroppedType)
		}
	}

	msg := BuildMessage(p.opts.Envelope, fields, html, attachments)

	sendCtx := ctx
	if p.opts.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, p.opts.SendTimeout)
		defer cancel()
	}

	start := time.Now()
	err = p.sender.Send(sendCtx, msg)
	p.metrics.SendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &DispatchError{Err: err}
	}

	log.Info("Submission sent",
		"treatment", fields.Get(FieldTreatment.Key),
		"attached", result.Attached,
		"dropped", result.Dropped,
	)
	return result, nil
}

// spool copies every non-empty upload that fits the size limit into storage.
// Oversized uploads are returned without a Path. On error the files
// spooled so far are still returned for cleanup.
func (p *Processor) spool(ctx context.Context, headers []*multipart.FileHeader) ([]models.UploadedFile, error) {
	var uploads []models.UploadedFile
	for _, h := range headers {
		if h.Filename == "" && h.Size == 0 {
			continue
		}

		name := baseName(h.Filename)
		upload := models.UploadedFile{
			Filename:    name,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
		}

		// Oversized parts are dropped by the policy without being spooled.
		if p.policy.MaxSize > 0 && h.Size > p.policy.MaxSize {
			uploads = append(uploads, upload)
			continue
		}

		path, err := p.store(ctx, h, filepath.Ext(name))
		if err != nil {
			return uploads, fmt.Errorf("failed to spool %q: %w", name, err)
		}

		upload.Path = path
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func (p *Processor) store(ctx context.Context, h *multipart.FileHeader, ext string) (string, error) {
	f, err := h.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return p.storage.StoreFromReader(ctx, ext, f)
}

func (p *Processor) cleanup(log *slog.Logger, uploads []models.UploadedFile) {
	for _, u := range uploads {
		if u.Path == "" {
			continue
		}
		if err := p.storage.Delete(context.Background(), u.Path); err != nil {
			log.Warn("Failed to remove spooled upload", "path", u.Path, "error", err)
		}
	}
}
