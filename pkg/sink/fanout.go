package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
)

// Named pairs a sink with the driver name used in logs.
type Named struct {
	Name string
	Sink Sink
}

// Fanout writes to a primary sink and mirrors to secondaries. Only the
// primary decides whether the order was stored.
type Fanout struct {
	primary     Named
	secondaries []Named
	log         *zap.Logger
}

func NewFanout(log *zap.Logger, primary Named, secondaries ...Named) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{primary: primary, secondaries: secondaries, log: log}
}

func (f *Fanout) Submit(ctx context.Context, rec models.OrderRecord) (models.OrderConfirmation, error) {
	conf, err := f.primary.Sink.Submit(ctx, rec)
	if err != nil {
		return models.OrderConfirmation{}, fmt.Errorf("%s: %w", f.primary.Name, err)
	}
	for _, s := range f.secondaries {
		if _, err := s.Sink.Submit(ctx, rec); err != nil {
			f.log.Warn("secondary order sink failed",
				zap.String("sink", s.Name),
				zap.String("order_id", rec.ID),
				zap.Error(err),
			)
		}
	}
	return conf, nil
}
