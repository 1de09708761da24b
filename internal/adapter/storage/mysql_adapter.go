package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

const mysqlDuplicateEntry = 1062

var ErrOrderNotPending = errors.New("order missing or already delivered")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id           VARCHAR(36)    NOT NULL PRIMARY KEY,
		item_id      VARCHAR(64)    NOT NULL,
		item_name    VARCHAR(255)   NOT NULL,
		price        DECIMAL(10, 2) NOT NULL,
		customer_id  VARCHAR(36)    NOT NULL,
		token        CHAR(4)        NOT NULL,
		status       VARCHAR(16)    NOT NULL,
		created_at   DATETIME(6)    NOT NULL,
		delivered_at DATETIME(6)    NULL,
		INDEX idx_orders_token_status (token, status)
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id            VARCHAR(36)  NOT NULL PRIMARY KEY,
		kind          VARCHAR(16)  NOT NULL,
		handle        VARCHAR(128) NOT NULL UNIQUE,
		mobile        VARCHAR(16)  NOT NULL,
		name          VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL,
		year          VARCHAR(16)  NOT NULL DEFAULT '',
		password_hash VARBINARY(72) NOT NULL,
		created_at    DATETIME(6)  NOT NULL
	)`,
}

// OpenMySQL opens a pool for dsn. Rows carry DATETIME columns, so
// parseTime is always on regardless of what the dsn says.
func OpenMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysqlConfig(dsn)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func mysqlConfig(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg, nil
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO orders (id, item_id, item_name, price, customer_id, token, status, created_at, delivered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.ItemID, order.ItemName, order.Price, order.CustomerID,
		order.Token, order.Status, order.CreatedAt, order.DeliveredAt,
	)
	if isDuplicate(err) {
		return port.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (m *MySQLAdapter) MarkDelivered(ctx context.Context, orderID string, at time.Time) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, delivered_at = ?
		WHERE id = ? AND status = ?`,
		domain.OrderStatusDelivered, at, orderID, domain.OrderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrOrderNotPending
	}

	return nil
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var (
		order       domain.Order
		deliveredAt sql.NullTime
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, item_id, item_name, price, customer_id, token, status, created_at, delivered_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(&order.ID, &order.ItemID, &order.ItemName, &order.Price, &order.CustomerID,
		&order.Token, &order.Status, &order.CreatedAt, &deliveredAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	return &order, nil
}

func (m *MySQLAdapter) CreateAccount(ctx context.Context, account domain.Account) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO accounts (id, kind, handle, mobile, name, role, year, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.Kind, account.Handle, account.Mobile, account.Name,
		account.Role, account.Year, account.PasswordHash, account.CreatedAt,
	)
	if isDuplicate(err) {
		return port.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

func (m *MySQLAdapter) GetAccountByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	var account domain.Account
	err := m.db.QueryRowContext(ctx, `
		SELECT id, kind, handle, mobile, name, role, year, password_hash, created_at
		FROM accounts WHERE handle = ?`, handle,
	).Scan(&account.ID, &account.Kind, &account.Handle, &account.Mobile, &account.Name,
		&account.Role, &account.Year, &account.PasswordHash, &account.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	return &account, nil
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
