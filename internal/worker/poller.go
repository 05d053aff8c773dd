package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
)

var (
	// ErrOrderCancelled is the terminal outcome of an order the kitchen voided.
	ErrOrderCancelled = errors.New("order cancelled by upstream")
	// ErrOrderTimedOut signals the attempt budget ran out before a terminal state.
	ErrOrderTimedOut = errors.New("order status polling timed out")
	// ErrTooManyPollingErrors signals consecutive poll-call failures, distinct
	// from any business state.
	ErrTooManyPollingErrors = errors.New("too many polling errors")
)

const (
	defaultPollInterval    = 10 * time.Second
	defaultMaxAttempts     = 30
	maxConsecutiveFailures = 5
)

// StatusFetcher queries the upstream status of a submitted order.
type StatusFetcher interface {
	OrderStatus(ctx context.Context, orderID string) (*dining.OrderStatusPayload, error)
}

// OrderRecorder persists lifecycle transitions of an order record.
type OrderRecorder interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	CompleteOrder(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error
}

// PollOutcome is the terminal success payload of a polling run.
type PollOutcome struct {
	Status  model.OrderStatus
	Barcode string
}

// StatusPoller drives a submitted order to a terminal lifecycle state: first
// poll immediately, then at a fixed interval up to the attempt budget. Every
// observed transition is written to the order record before the loop
// continues.
type StatusPoller struct {
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// NewStatusPoller constructs a poller; non-positive arguments fall back to
// the upstream-observed defaults (10s interval, 30 attempts).
func NewStatusPoller(interval time.Duration, maxAttempts int, logger *slog.Logger) *StatusPoller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &StatusPoller{interval: interval, maxAttempts: maxAttempts, logger: logger}
}

// Poll tracks the order identified upstream by externalID, recording
// transitions against the record identified by recordID. It returns the
// terminal outcome or one of the terminal errors; failure-flavored terminal
// statuses are written to the record before the error is returned.
func (p *StatusPoller) Poll(ctx context.Context, fetcher StatusFetcher, recorder OrderRecorder, recordID int64, externalID string) (*PollOutcome, error) {
	last := model.OrderStatusPending
	failures := 0

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.interval):
			}
		}

		payload, err := fetcher.OrderStatus(ctx, externalID)
		if err != nil {
			failures++
			p.logger.Warn("order status poll failed",
				slog.String("order", externalID),
				slog.Int("consecutive_failures", failures),
				slog.String("error", err.Error()),
			)
			if failures >= maxConsecutiveFailures {
				p.record(ctx, recorder, recordID, model.OrderStatusError)
				return nil, ErrTooManyPollingErrors
			}
			continue
		}
		failures = 0

		status := dining.Classify(payload)
		if status != last {
			if status == model.OrderStatusCompleted {
				if err := recorder.CompleteOrder(ctx, recordID, status, payload.BarcodeToken); err != nil {
					p.logger.Error("complete order record failed", slog.Int64("record", recordID), slog.String("error", err.Error()))
				}
			} else {
				p.record(ctx, recorder, recordID, status)
			}
			last = status
		}

		switch status {
		case model.OrderStatusCompleted:
			return &PollOutcome{Status: status, Barcode: payload.BarcodeToken}, nil
		case model.OrderStatusCancelled:
			return nil, ErrOrderCancelled
		}
	}

	p.record(ctx, recorder, recordID, model.OrderStatusTimeout)
	return nil, ErrOrderTimedOut
}

func (p *StatusPoller) record(ctx context.Context, recorder OrderRecorder, recordID int64, status model.OrderStatus) {
	if err := recorder.UpdateOrderStatus(ctx, recordID, status); err != nil {
		p.logger.Error("update order record failed",
			slog.Int64("record", recordID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
	}
}
