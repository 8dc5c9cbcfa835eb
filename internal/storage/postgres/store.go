package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finsmart/internal/models"
	"finsmart/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to databaseURL and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(databaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	const query = `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at`
	user, err := scanUser(s.pool.QueryRow(ctx, query, name, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, storage.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUserByID fetches a user by id.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// GetUserByEmail fetches a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateSession stores a new session.
func (s *Store) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt,
	)
	return err
}

// ValidateSession returns the owner of a session that is live at now.
func (s *Store) ValidateSession(ctx context.Context, token string, now time.Time) (*models.User, error) {
	const query = `
		SELECT u.id, u.name, u.email, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = $1 AND s.expires_at > $2`
	return scanUser(s.pool.QueryRow(ctx, query, token, now))
}

// DeleteSession removes a session by token.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpiredSessions removes sessions expired at now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CreateTransaction inserts a transaction and returns its id.
func (s *Store) CreateTransaction(ctx context.Context, t storage.NewTransaction) (int64, error) {
	const query = `
		INSERT INTO transactions (user_id, amount, category, description, date)
		VALUES ($1, $2::text::numeric, $3, $4, $5::text::date)
		RETURNING id`
	var id int64
	if err := s.pool.QueryRow(ctx, query, t.UserID, t.Amount.String(), t.Category, t.Description, t.Date).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

// ListTransactions returns the user's transactions ordered by date, then id, descending.
func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	const query = `
		SELECT id, user_id, amount::text, category, description, to_char(date, 'YYYY-MM-DD'), created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var amount string
		if err := rows.Scan(&t.ID, &t.UserID, &amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateBudget inserts a budget and returns its id.
func (s *Store) CreateBudget(ctx context.Context, b storage.NewBudget) (int64, error) {
	const query = `
		INSERT INTO budgets (user_id, category, amount, period)
		VALUES ($1, $2, $3::text::numeric, $4)
		RETURNING id`
	var id int64
	if err := s.pool.QueryRow(ctx, query, b.UserID, b.Category, b.Amount.String(), b.Period).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}
	return id, nil
}

// ListBudgets returns the user's budgets in creation order.
func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	const query = `
		SELECT id, user_id, category, amount::text, period, created_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY id`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	out := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		var amount string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &amount, &b.Period, &b.CreatedAt); err != nil {
			return nil, err
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SpendingByCategoryMonth sums amounts per category and two-digit calendar month.
func (s *Store) SpendingByCategoryMonth(ctx context.Context, userID int64) ([]models.SpendingRow, error) {
	const query = `
		SELECT category, SUM(amount)::text AS total, to_char(date, 'MM') AS month
		FROM transactions
		WHERE user_id = $1
		GROUP BY category, month
		ORDER BY month DESC, SUM(amount) DESC, category`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query spending: %w", err)
	}
	defer rows.Close()

	out := []models.SpendingRow{}
	for rows.Next() {
		var r models.SpendingRow
		var total string
		if err := rows.Scan(&r.Category, &total, &r.Month); err != nil {
			return nil, err
		}
		if r.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
