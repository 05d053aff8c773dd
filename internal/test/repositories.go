package test

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/campusorder/internal/domain/errors"
	"github.com/polkiloo/campusorder/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users       map[string]*model.User
	ByID        map[int64]*model.User
	Credentials map[int64]*model.CampusCredentials
	Next        int64
	Err         error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users:       make(map[string]*model.User),
		ByID:        make(map[int64]*model.User),
		Credentials: make(map[int64]*model.CampusCredentials),
		Next:        1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Active: true}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CampusCredentials returns stored upstream credentials for an active user.
func (s *UserRepositoryStub) CampusCredentials(ctx context.Context, userID int64) (*model.CampusCredentials, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[userID]
	if !ok || !user.Active {
		return nil, domainErrors.ErrUserInactive
	}
	creds, ok := s.Credentials[userID]
	if !ok || creds.Username == "" {
		return nil, domainErrors.ErrUserInactive
	}
	return creds, nil
}

// SetCampusCredentials stores upstream credentials for the user.
func (s *UserRepositoryStub) SetCampusCredentials(ctx context.Context, userID int64, username, password string) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Credentials == nil {
		s.Credentials = make(map[int64]*model.CampusCredentials)
	}
	s.Credentials[userID] = &model.CampusCredentials{UserID: userID, Username: username, Password: password}
	return nil
}

// OrderCompleteCall stores information about Complete invocations.
type OrderCompleteCall struct {
	OrderID int64
	Status  model.OrderStatus
	Barcode string
}

// OrderUpdateCall stores information about UpdateStatus invocations.
type OrderUpdateCall struct {
	OrderID int64
	Status  model.OrderStatus
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, int64, string, string, int) (*model.Order, error)
	GetByIDFn      func(context.Context, int64) (*model.Order, error)
	ListByUserFn   func(context.Context, int64) ([]model.Order, error)
	UpdateStatusFn func(context.Context, int64, model.OrderStatus) error
	CompleteFn     func(context.Context, int64, model.OrderStatus, string) error

	Created []struct {
		UserID     int64
		ExternalID string
		LocationID string
		Total      int
	}
	Orders        []model.Order
	UpdateCalls   []OrderUpdateCall
	CompleteCalls []OrderCompleteCall
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error) {
	s.Created = append(s.Created, struct {
		UserID     int64
		ExternalID string
		LocationID string
		Total      int
	}{userID, externalID, locationID, total})
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, externalID, locationID, total)
	}
	order := &model.Order{ID: int64(len(s.Created)), UserID: userID, ExternalID: externalID, LocationID: locationID, Total: total, Status: model.OrderStatusPending, CreatedAt: time.Unix(0, 0)}
	return order, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateStatus records the transition for later assertions.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: orderID, Status: status})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	return nil
}

// Complete records the terminal transition for later assertions.
func (s *OrderRepositoryStub) Complete(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error {
	s.CompleteCalls = append(s.CompleteCalls, OrderCompleteCall{OrderID: orderID, Status: status, Barcode: barcode})
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, orderID, status, barcode)
	}
	return nil
}

// ScheduledNoteCall captures Complete/Fail note writes on scheduled records.
type ScheduledNoteCall struct {
	ID             int64
	RelatedOrderID string
	Note           string
}

// ScheduledOrderRepositoryStub keeps scheduled records in-memory.
type ScheduledOrderRepositoryStub struct {
	CreateFn   func(context.Context, *model.ScheduledOrder) (*model.ScheduledOrder, error)
	DueBatchFn func(context.Context, time.Time, time.Duration) ([]model.ScheduledOrder, error)
	ClaimFn    func(context.Context, int64) (bool, error)
	CompleteFn func(context.Context, int64, string, string) error
	FailFn     func(context.Context, int64, string) error
	CancelFn   func(context.Context, int64, int64) error

	Records       []model.ScheduledOrder
	Next          int64
	ClaimCalls    []int64
	CompleteCalls []ScheduledNoteCall
	FailCalls     []ScheduledNoteCall
}

// Create stores the scheduled record and assigns an identifier.
func (s *ScheduledOrderRepositoryStub) Create(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *order
	stored.ID = s.Next
	stored.Status = model.ScheduledStatusScheduled
	s.Next++
	s.Records = append(s.Records, stored)
	return &stored, nil
}

// GetByID fetches a record or returns not found.
func (s *ScheduledOrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.ScheduledOrder, error) {
	for _, r := range s.Records {
		if r.ID == id {
			record := r
			return &record, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns records owned by the user.
func (s *ScheduledOrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.ScheduledOrder, error) {
	var out []model.ScheduledOrder
	for _, r := range s.Records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// DueBatch returns scheduled records falling into the sweep window.
func (s *ScheduledOrderRepositoryStub) DueBatch(ctx context.Context, now time.Time, lookahead time.Duration) ([]model.ScheduledOrder, error) {
	if s.DueBatchFn != nil {
		return s.DueBatchFn(ctx, now, lookahead)
	}
	cutoff := now.Add(lookahead)
	var out []model.ScheduledOrder
	for _, r := range s.Records {
		if r.Status == model.ScheduledStatusScheduled && !r.ScheduledTime.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Claim flips scheduled to processing when the record is still claimable.
func (s *ScheduledOrderRepositoryStub) Claim(ctx context.Context, id int64) (bool, error) {
	s.ClaimCalls = append(s.ClaimCalls, id)
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, id)
	}
	for i := range s.Records {
		if s.Records[i].ID == id && s.Records[i].Status == model.ScheduledStatusScheduled {
			s.Records[i].Status = model.ScheduledStatusProcessing
			return true, nil
		}
	}
	return false, nil
}

// Complete marks the record completed and records the note.
func (s *ScheduledOrderRepositoryStub) Complete(ctx context.Context, id int64, relatedOrderID, note string) error {
	s.CompleteCalls = append(s.CompleteCalls, ScheduledNoteCall{ID: id, RelatedOrderID: relatedOrderID, Note: note})
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, id, relatedOrderID, note)
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			s.Records[i].Status = model.ScheduledStatusCompleted
			s.Records[i].RelatedOrderID = relatedOrderID
			s.Records[i].Notes = appendNote(s.Records[i].Notes, note)
		}
	}
	return nil
}

// Fail marks the record failed and appends the note.
func (s *ScheduledOrderRepositoryStub) Fail(ctx context.Context, id int64, note string) error {
	s.FailCalls = append(s.FailCalls, ScheduledNoteCall{ID: id, Note: note})
	if s.FailFn != nil {
		return s.FailFn(ctx, id, note)
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			s.Records[i].Status = model.ScheduledStatusFailed
			s.Records[i].Notes = appendNote(s.Records[i].Notes, note)
		}
	}
	return nil
}

// Cancel removes a scheduled record still owned by the user.
func (s *ScheduledOrderRepositoryStub) Cancel(ctx context.Context, id, userID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id, userID)
	}
	for i := range s.Records {
		if s.Records[i].ID == id && s.Records[i].UserID == userID && s.Records[i].Status == model.ScheduledStatusScheduled {
			s.Records[i].Status = model.ScheduledStatusCancelled
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
