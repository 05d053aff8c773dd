package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
)

// Session is the slice of the dining client the processor drives.
type Session interface {
	Login(ctx context.Context) error
	PriceCart(ctx context.Context, items []model.CartItem, locationID string) (*dining.PricedCart, error)
	SubmitOrder(ctx context.Context, cart dining.CartRequest) (string, error)
	StatusFetcher
}

// SessionFactory builds one session per processed order.
type SessionFactory interface {
	Session(identity dining.Identity) (Session, error)
}

// OrderStore persists order records for the processor and poller.
type OrderStore interface {
	CreateOrder(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error)
	OrderRecorder
}

// ProcessRequest describes one submit-and-track invocation.
type ProcessRequest struct {
	UserID         int64
	Identity       dining.Identity
	CartItems      []model.CartItem
	LocationID     string
	Total          int
	OrderType      string
	SpecialRequest string
	Pickup         time.Time
}

// ProcessResult is the terminal success payload.
type ProcessResult struct {
	RecordID int64
	OrderID  string
	Status   model.OrderStatus
	Barcode  string
}

// Processor orchestrates one order through pricing, submission and status
// polling against a freshly built session. Exactly one order record is
// created per invocation; the submission itself is never retried.
type Processor struct {
	sessions SessionFactory
	store    OrderStore
	poller   *StatusPoller
	logger   *slog.Logger
}

// NewProcessor constructs the order processor.
func NewProcessor(sessions SessionFactory, store OrderStore, poller *StatusPoller, logger *slog.Logger) *Processor {
	return &Processor{sessions: sessions, store: store, poller: poller, logger: logger}
}

// Process submits the cart and blocks until the order reaches a terminal
// state. Terminal failures are recorded on the order record before the error
// is returned.
func (p *Processor) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	session, err := p.sessions.Session(req.Identity)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	if _, needsLogin := req.Identity.(dining.Credentials); needsLogin {
		if err := session.Login(ctx); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}

	priced, err := session.PriceCart(ctx, req.CartItems, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("price cart: %w", err)
	}

	pickup := req.Pickup
	if pickup.IsZero() {
		pickup = time.Now()
	}
	cart := priced.Finalize(req.Total, dining.FinalizeOptions{
		Pickup:         pickup,
		OrderType:      req.OrderType,
		SpecialRequest: req.SpecialRequest,
	})

	externalID, err := session.SubmitOrder(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	record, err := p.store.CreateOrder(ctx, req.UserID, externalID, req.LocationID, req.Total)
	if err != nil {
		return nil, fmt.Errorf("create order record: %w", err)
	}

	p.logger.Info("order submitted",
		slog.String("order", externalID),
		slog.Int64("record", record.ID),
		slog.Int("total", req.Total),
	)

	outcome, err := p.poller.Poll(ctx, session, p.store, record.ID, externalID)
	if err != nil {
		return nil, err
	}

	return &ProcessResult{
		RecordID: record.ID,
		OrderID:  externalID,
		Status:   outcome.Status,
		Barcode:  outcome.Barcode,
	}, nil
}
