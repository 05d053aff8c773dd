package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/campusorder/internal/domain/errors"
	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool the storage uses; tests substitute a
// pgxmock pool.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (dbPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type scheduledOrderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) ScheduledOrders() repository.ScheduledOrderRepository {
	return &scheduledOrderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            campus_username TEXT NOT NULL DEFAULT '',
            campus_password TEXT NOT NULL DEFAULT '',
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            external_id TEXT NOT NULL,
            status TEXT NOT NULL,
            barcode TEXT NOT NULL DEFAULT '',
            location_id TEXT NOT NULL,
            total BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS scheduled_orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            scheduled_time TIMESTAMPTZ NOT NULL,
            cart_items JSONB NOT NULL,
            location_id TEXT NOT NULL,
            total BIGINT NOT NULL,
            order_type TEXT NOT NULL DEFAULT '',
            special_request TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            related_order_id TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_due ON scheduled_orders(status, scheduled_time)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, active, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.Active, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, active, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, active, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CampusCredentials(ctx context.Context, userID int64) (*model.CampusCredentials, error) {
	const query = `SELECT campus_username, campus_password FROM users WHERE id=$1 AND active`
	creds := model.CampusCredentials{UserID: userID}
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&creds.Username, &creds.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserInactive
		}
		return nil, err
	}
	if creds.Username == "" {
		return nil, domainErrors.ErrUserInactive
	}
	return &creds, nil
}

func (r *userRepository) SetCampusCredentials(ctx context.Context, userID int64, username, password string) error {
	const query = `UPDATE users SET campus_username=$2, campus_password=$3 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, userID, username, password)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error) {
	const query = `INSERT INTO orders (user_id, external_id, status, location_id, total)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	var order model.Order
	err := r.storage.pool.QueryRow(ctx, query, userID, externalID, model.OrderStatusPending, locationID, total).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.UserID = userID
	order.ExternalID = externalID
	order.Status = model.OrderStatusPending
	order.LocationID = locationID
	order.Total = total
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT id, user_id, external_id, status, barcode, location_id, total, created_at, completed_at
                   FROM orders WHERE id=$1`
	var order model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&order.ID, &order.UserID, &order.ExternalID, &order.Status, &order.Barcode,
			&order.LocationID, &order.Total, &order.CreatedAt, &order.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT id, user_id, external_id, status, barcode, location_id, total, created_at, completed_at
                   FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ExternalID, &o.Status, &o.Barcode,
			&o.LocationID, &o.Total, &o.CreatedAt, &o.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error {
	const query = `UPDATE orders SET status=$1, barcode=$2, completed_at=NOW() WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, status, barcode, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- ScheduledOrderRepository implementation ---

func (r *scheduledOrderRepository) Create(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error) {
	cart, err := json.Marshal(order.CartItems)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}

	const query = `INSERT INTO scheduled_orders
                   (user_id, scheduled_time, cart_items, location_id, total, order_type, special_request, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at`
	created := *order
	err = r.storage.pool.QueryRow(ctx, query, order.UserID, order.ScheduledTime, cart,
		order.LocationID, order.Total, order.OrderType, order.SpecialRequest, order.Status).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

const scheduledColumns = `id, user_id, scheduled_time, cart_items, location_id, total,
                          order_type, special_request, status, related_order_id, notes, created_at`

func scanScheduled(row pgx.Row) (*model.ScheduledOrder, error) {
	var (
		order model.ScheduledOrder
		cart  []byte
	)
	err := row.Scan(&order.ID, &order.UserID, &order.ScheduledTime, &cart, &order.LocationID,
		&order.Total, &order.OrderType, &order.SpecialRequest, &order.Status,
		&order.RelatedOrderID, &order.Notes, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(cart) > 0 {
		if err := json.Unmarshal(cart, &order.CartItems); err != nil {
			return nil, fmt.Errorf("decode cart: %w", err)
		}
	}
	return &order, nil
}

func (r *scheduledOrderRepository) GetByID(ctx context.Context, id int64) (*model.ScheduledOrder, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_orders WHERE id=$1`
	order, err := scanScheduled(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *scheduledOrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.ScheduledOrder, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_orders WHERE user_id=$1 ORDER BY scheduled_time DESC`
	return r.queryMany(ctx, query, userID)
}

func (r *scheduledOrderRepository) DueBatch(ctx context.Context, now time.Time, lookahead time.Duration) ([]model.ScheduledOrder, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_orders
              WHERE status=$1 AND scheduled_time <= $2
              ORDER BY scheduled_time`
	return r.queryMany(ctx, query, model.ScheduledStatusScheduled, now.Add(lookahead))
}

func (r *scheduledOrderRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.ScheduledOrder, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ScheduledOrder
	for rows.Next() {
		order, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Claim is a compare-and-swap on the status column: only a row still in
// scheduled state can move to processing, so overlapping sweeps cannot both
// win the same record.
func (r *scheduledOrderRepository) Claim(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE scheduled_orders SET status=$1 WHERE id=$2 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, model.ScheduledStatusProcessing, id, model.ScheduledStatusScheduled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// appendNote keeps notes append-only: prior text is preserved, new entries
// are newline separated.
const appendNote = `notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END`

func (r *scheduledOrderRepository) Complete(ctx context.Context, id int64, relatedOrderID, note string) error {
	query := `UPDATE scheduled_orders SET status='` + string(model.ScheduledStatusCompleted) + `',
              related_order_id=$3, ` + appendNote + ` WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, note, relatedOrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *scheduledOrderRepository) Fail(ctx context.Context, id int64, note string) error {
	query := `UPDATE scheduled_orders SET status='` + string(model.ScheduledStatusFailed) + `',
              ` + appendNote + ` WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *scheduledOrderRepository) Cancel(ctx context.Context, id, userID int64) error {
	const query = `UPDATE scheduled_orders SET status=$1 WHERE id=$2 AND user_id=$3 AND status=$4`
	tag, err := r.storage.pool.Exec(ctx, query, model.ScheduledStatusCancelled, id, userID, model.ScheduledStatusScheduled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
