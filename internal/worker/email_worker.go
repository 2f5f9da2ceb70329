package worker

// email_worker.go
// Processes plain email jobs from QueueEmail.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nicoxroll/tecno-car-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// Sender delivers one email. *infra.Mailer satisfies it.
type Sender interface {
	Send(to, subject, body string, attachments ...infra.Attachment) error
}

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer Sender
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer Sender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends the email described by raw.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		return errors.New("email_worker: empty to_email")
	}

	if err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
	return nil
}
