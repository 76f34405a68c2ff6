// Package sink holds the durable destinations an order can be written to.
package sink

import (
	"context"

	"github.com/thegioirubik/lubestation-service/models"
)

// Sink durably records one order.
type Sink interface {
	Submit(ctx context.Context, rec models.OrderRecord) (models.OrderConfirmation, error)
}

// Drivers accepted by ORDER_SINK.
const (
	DriverSheets   = "sheets"
	DriverPostgres = "postgres"
	DriverBoth     = "both"
)
