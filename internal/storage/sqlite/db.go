package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"finsmart/internal/models"
	"finsmart/internal/storage"

	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Ensure DB satisfies the storage.Store interface at compile time.
var _ storage.Store = (*DB)(nil)

// DB wraps a sql.DB connection to a SQLite database.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" is a separate database.
	if strings.HasPrefix(path, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateUser creates a new user. A duplicate email yields storage.ErrDuplicateEmail.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		name, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email, matched exactly as stored.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?",
		email,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateSession stores a new session.
func (db *DB) CreateSession(ctx context.Context, s models.Session) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		s.Token, s.UserID, s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	return err
}

// ValidateSession checks if a session token is valid at now and returns the associated user.
func (db *DB) ValidateSession(ctx context.Context, token string, now time.Time) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, now.Unix())
	return scanUser(row)
}

// DeleteSession removes a session by token. Removing an unknown token is not an error.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpiredSessions removes all sessions expired at now.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateTransaction inserts a transaction and returns its ID.
func (db *DB) CreateTransaction(ctx context.Context, t storage.NewTransaction) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO transactions (user_id, amount, category, description, date) VALUES (?, ?, ?, ?, ?)",
		t.UserID, t.Amount, t.Category, t.Description, t.Date,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return result.LastInsertId()
}

// ListTransactions returns the user's transactions, most recent date first.
// Rows sharing a date are ordered by id, newest first.
func (db *DB) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, amount, category, description, date, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// CreateBudget inserts a budget and returns its ID.
func (db *DB) CreateBudget(ctx context.Context, b storage.NewBudget) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO budgets (user_id, category, amount, period) VALUES (?, ?, ?, ?)",
		b.UserID, b.Category, b.Amount, b.Period,
	)
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}
	return result.LastInsertId()
}

// ListBudgets returns the user's budgets in creation order.
func (db *DB) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, category, amount, period, created_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

// SpendingByCategoryMonth sums the user's amounts per category and calendar
// month. Amounts are stored as text and totalled with decimal arithmetic.
func (db *DB) SpendingByCategoryMonth(ctx context.Context, userID int64) ([]models.SpendingRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, amount, COALESCE(strftime('%m', date), '') AS month
		FROM transactions
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query spending: %w", err)
	}
	defer rows.Close()

	type bucket struct{ category, month string }
	totals := map[bucket]decimal.Decimal{}
	for rows.Next() {
		var (
			k      bucket
			amount decimal.Decimal
		)
		if err := rows.Scan(&k.category, &amount, &k.month); err != nil {
			return nil, err
		}
		totals[k] = totals[k].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.SpendingRow, 0, len(totals))
	for k, total := range totals {
		out = append(out, models.SpendingRow{Category: k.category, Total: total, Month: k.month})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
