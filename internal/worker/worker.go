package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/autosam-rentals/backend/internal/emaillogs"
	"github.com/autosam-rentals/backend/internal/notify"
	"github.com/autosam-rentals/backend/pkg/queue"
)

// EmailProcessor drains the email queue: deliver via SMTP, record the
// outcome on the email log row, retry transient failures.
type EmailProcessor struct {
	queue  *queue.Queue
	sender notify.Sender
	logs   *emaillogs.Repository
	logger *zap.Logger
}

// NewEmailProcessor creates an email delivery processor.
func NewEmailProcessor(q *queue.Queue, sender notify.Sender, logs *emaillogs.Repository, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{queue: q, sender: sender, logs: logs, logger: logger}
}

// Process executes one email delivery job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	err := p.sender.Send(notify.Message{
		To:      payload.RecipientEmail,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	if err != nil {
		if logErr := p.logs.MarkFailed(ctx, payload.EmailLogID, err.Error()); logErr != nil {
			p.logger.Error("mark email failed", zap.Error(logErr), zap.String("email_log_id", payload.EmailLogID.String()))
		}
		return fmt.Errorf("send email: %w", err)
	}

	if err := p.logs.MarkSent(ctx, payload.EmailLogID); err != nil {
		// Delivery succeeded; a bookkeeping failure must not trigger a resend.
		p.logger.Error("mark email sent", zap.Error(err), zap.String("email_log_id", payload.EmailLogID.String()))
	}

	p.logger.Info("email delivered",
		zap.String("email_type", payload.EmailType),
		zap.Int64("booking_id", payload.BookingID),
		zap.String("recipient", payload.RecipientEmail),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("email worker stopping")
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
