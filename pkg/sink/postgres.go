package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/apperr"
)

// OrdersSchema creates the orders table on first use.
var OrdersSchema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		order_code  TEXT NOT NULL UNIQUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		full_name   TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL,
		city        TEXT NOT NULL,
		address     TEXT NOT NULL,
		notes       TEXT NOT NULL DEFAULT '',
		items       JSONB NOT NULL,
		subtotal    NUMERIC(14,2) NOT NULL,
		discount    NUMERIC(14,2) NOT NULL,
		shipping    NUMERIC(14,2) NOT NULL,
		total       NUMERIC(14,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at DESC)`,
}

const insertOrder = `
	INSERT INTO orders (id, order_code, created_at, full_name, email, phone, city, address, notes, items, subtotal, discount, shipping, total)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const uniqueViolation = "23505"

// Postgres stores orders in the orders table.
type Postgres struct {
	db    *sql.DB
	log   *zap.Logger
	newID func() uuid.UUID
}

func NewPostgres(db *sql.DB, log *zap.Logger) *Postgres {
	if log == nil {
		log = zap.NewNop()
	}
	return &Postgres{db: db, log: log, newID: uuid.New}
}

func (p *Postgres) Submit(ctx context.Context, rec models.OrderRecord) (models.OrderConfirmation, error) {
	o := rec.Payload
	items, err := json.Marshal(o.Items)
	if err != nil {
		return models.OrderConfirmation{}, fmt.Errorf("failed to encode order items: %w", err)
	}

	rowID := p.newID()
	_, err = p.db.ExecContext(ctx, insertOrder,
		rowID, rec.ID, rec.CreatedAt,
		o.FullName, o.Email, o.Phone, o.City, o.Address, o.Notes,
		items, o.Subtotal, o.Discount, o.Shipping, o.Total,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.OrderConfirmation{}, apperr.ConflictErr("This order was already submitted.")
		}
		return models.OrderConfirmation{}, fmt.Errorf("failed to insert order %s: %w", rec.ID, err)
	}

	p.log.Info("order inserted", zap.String("order_id", rec.ID), zap.String("row_id", rowID.String()))
	return models.OrderConfirmation{OrderID: rec.ID}, nil
}
