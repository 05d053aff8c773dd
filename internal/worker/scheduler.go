package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
)

const defaultSweepInterval = time.Minute

// ScheduleStore is the slice of application functionality the scheduler needs.
type ScheduleStore interface {
	DueScheduledOrders(ctx context.Context) ([]model.ScheduledOrder, error)
	ClaimScheduledOrder(ctx context.Context, id int64) (bool, error)
	CompleteScheduledOrder(ctx context.Context, id int64, relatedOrderID, note string) error
	FailScheduledOrder(ctx context.Context, id int64, note string) error
	CampusCredentials(ctx context.Context, userID int64) (*model.CampusCredentials, error)
}

// OrderRunner runs one submit-and-track cycle.
type OrderRunner interface {
	Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error)
}

// Scheduler periodically sweeps due scheduled orders and drives each through
// the order processor. It is a single-writer loop: one sweep at a time, each
// record claimed before any work happens on it.
type Scheduler struct {
	store     ScheduleStore
	processor OrderRunner
	interval  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewScheduler constructs the scheduled-order scheduler.
func NewScheduler(store ScheduleStore, processor OrderRunner, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Scheduler{store: store, processor: processor, interval: interval, logger: logger}
}

// Start launches the background loop with an immediate first sweep. Calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep picks up every due scheduled order; a failure on one never aborts
// the rest of the batch.
func (s *Scheduler) sweep(ctx context.Context) {
	due, err := s.store.DueScheduledOrders(ctx)
	if err != nil {
		s.logger.Error("select due scheduled orders failed", slog.String("error", err.Error()))
		return
	}

	for _, order := range due {
		if ctx.Err() != nil {
			return
		}
		s.processOne(ctx, order)
	}
}

func (s *Scheduler) processOne(ctx context.Context, order model.ScheduledOrder) {
	claimed, err := s.store.ClaimScheduledOrder(ctx, order.ID)
	if err != nil {
		s.logger.Error("claim scheduled order failed", slog.Int64("id", order.ID), slog.String("error", err.Error()))
		return
	}
	if !claimed {
		// Another sweep got there first.
		s.logger.Info("scheduled order claim lost", slog.Int64("id", order.ID))
		return
	}

	creds, err := s.store.CampusCredentials(ctx, order.UserID)
	if err != nil {
		s.fail(ctx, order.ID, fmt.Sprintf("credentials unavailable: %v", err))
		return
	}

	result, err := s.processor.Process(ctx, ProcessRequest{
		UserID:         order.UserID,
		Identity:       dining.Credentials{Username: creds.Username, Password: creds.Password},
		CartItems:      order.CartItems,
		LocationID:     order.LocationID,
		Total:          order.Total,
		OrderType:      order.OrderType,
		SpecialRequest: order.SpecialRequest,
		Pickup:         order.ScheduledTime,
	})
	if err != nil {
		s.fail(ctx, order.ID, err.Error())
		return
	}

	note := fmt.Sprintf("placed as order %s", result.OrderID)
	if result.Barcode != "" {
		note += fmt.Sprintf(", barcode %s", result.Barcode)
	}
	if err := s.store.CompleteScheduledOrder(ctx, order.ID, result.OrderID, note); err != nil {
		s.logger.Error("complete scheduled order failed", slog.Int64("id", order.ID), slog.String("error", err.Error()))
	}
}

func (s *Scheduler) fail(ctx context.Context, id int64, note string) {
	s.logger.Warn("scheduled order failed", slog.Int64("id", id), slog.String("note", note))
	if err := s.store.FailScheduledOrder(ctx, id, note); err != nil {
		s.logger.Error("record scheduled order failure failed", slog.Int64("id", id), slog.String("error", err.Error()))
	}
}
