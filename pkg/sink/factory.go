package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/config"
	"github.com/thegioirubik/lubestation-service/pkg/database"
)

// FactoryResult is the sink chosen by configuration and the clients behind it.
type FactoryResult struct {
	Driver string
	Sink   Sink
	// Sheets is set when the spreadsheet is written to.
	Sheets *Sheets
	// DB is set when the postgres driver is in use.
	DB *database.DBClient
}

// Close releases whatever connections the sink holds.
func (r FactoryResult) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}

// FromConfig builds the sink selected by ORDER_SINK. With "both" the
// spreadsheet stays authoritative and Postgres is a mirror.
func FromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) (FactoryResult, error) {
	driver := cfg.Orders.Sink
	if driver == "" {
		driver = DriverSheets
	}

	switch driver {
	case DriverSheets:
		s, err := NewSheets(ctx, cfg.Sheets, log)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: driver, Sink: s, Sheets: s}, nil

	case DriverPostgres:
		db, pg, err := openPostgres(ctx, cfg.Postgres, log)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: driver, Sink: pg, DB: db}, nil

	case DriverBoth:
		s, err := NewSheets(ctx, cfg.Sheets, log)
		if err != nil {
			return FactoryResult{}, err
		}
		db, pg, err := openPostgres(ctx, cfg.Postgres, log)
		if err != nil {
			return FactoryResult{}, err
		}
		fan := NewFanout(log, Named{Name: DriverSheets, Sink: s}, Named{Name: DriverPostgres, Sink: pg})
		return FactoryResult{Driver: driver, Sink: fan, Sheets: s, DB: db}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown ORDER_SINK: %s", driver)
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) (*database.DBClient, *Postgres, error) {
	db, err := database.NewPostgresClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, OrdersSchema...); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, NewPostgres(db.GetDB(), log), nil
}
