package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/apperr"
	"github.com/thegioirubik/lubestation-service/pkg/cart"
)

const (
	// SubmitFailedMsg is shown to the customer when the order could not be stored.
	SubmitFailedMsg = "Failed to save order. Please try again."
	// InFlightMsg answers a retry that arrives while the first attempt is still running.
	InFlightMsg = "This order is already being submitted. Please wait a moment."
)

// Sink durably records an order.
type Sink interface {
	Submit(ctx context.Context, rec models.OrderRecord) (models.OrderConfirmation, error)
}

// Notifier tells the customer and the shop about a stored order.
type Notifier interface {
	Notify(ctx context.Context, order models.OrderPayload, orderID string) error
}

// IdempotencyStore guards client submission keys. Claim reserves a key before
// the order is stored; a key that is already taken reports the order it
// produced, or "" while that submission is still in flight.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}

// Request is one pre-order submission.
type Request struct {
	Form           models.ContactForm
	Cart           cart.Cart
	IdempotencyKey string
}

// Result is a stored order.
type Result struct {
	OrderID  string
	Payload  models.OrderPayload
	Replayed bool
}

// Service turns a contact form and cart into a stored order.
type Service struct {
	catalog  cart.VariantLookup
	sink     Sink
	notifier Notifier
	idem     IdempotencyStore
	log      *zap.Logger
	now      func() time.Time
}

// NewService wires the submission flow. notifier and idem may be nil.
func NewService(catalog cart.VariantLookup, sink Sink, notifier Notifier, idem IdempotencyStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:  catalog,
		sink:     sink,
		notifier: notifier,
		idem:     idem,
		log:      log,
		now:      time.Now,
	}
}

// Submit validates, prices and stores an order, then notifies best-effort.
// Either the order is stored and a Result returned, or nothing is stored.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	form := trimForm(req.Form)
	if err := ValidateForm(form); err != nil {
		return nil, err
	}

	items := req.Cart.Items(s.catalog)
	if len(items) == 0 {
		return nil, apperr.InvalidErr("Your cart is empty.", map[string]string{"items": "Add at least one product."})
	}

	payload := Assemble(form, items)
	log := s.log.With(zap.String("email", form.Email), zap.Int("items", len(items)))

	key := ""
	if req.IdempotencyKey != "" && s.idem != nil {
		id, claimed, err := s.idem.Claim(ctx, req.IdempotencyKey)
		switch {
		case err != nil:
			log.Warn("idempotency claim failed, submitting without it", zap.Error(err))
		case id != "":
			log.Info("replaying order submission", zap.String("order_id", id))
			return &Result{OrderID: id, Payload: payload, Replayed: true}, nil
		case !claimed:
			log.Info("rejecting submission still in flight")
			return nil, apperr.ConflictErr(InFlightMsg)
		default:
			key = req.IdempotencyKey
		}
	}

	now := s.now()
	rec := models.OrderRecord{ID: NewOrderID(now), CreatedAt: now.UTC(), Payload: payload}

	conf, err := s.sink.Submit(ctx, rec)
	if err != nil {
		log.Error("failed to store order", zap.String("order_id", rec.ID), zap.Error(err))
		if key != "" {
			if rerr := s.idem.Release(context.WithoutCancel(ctx), key); rerr != nil {
				log.Warn("failed to release idempotency key", zap.Error(rerr))
			}
		}
		if ae, ok := apperr.As(err); ok && ae.Kind == apperr.Conflict {
			return nil, err
		}
		return nil, apperr.WrapMsg(err, SubmitFailedMsg)
	}
	if conf.OrderID == "" {
		conf.OrderID = rec.ID
	}
	log.Info("order stored", zap.String("order_id", conf.OrderID), zap.Float64("total", payload.Total))

	if key != "" {
		if err := s.idem.Complete(context.WithoutCancel(ctx), key, conf.OrderID); err != nil {
			log.Warn("failed to remember idempotency key", zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, payload, conf.OrderID); err != nil {
			log.Warn("order notification failed", zap.String("order_id", conf.OrderID), zap.Error(err))
		}
	}

	return &Result{OrderID: conf.OrderID, Payload: payload}, nil
}
