package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantrywise/catalog-backend/internal/events"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// ProductNotifier publishes workflow events. Every call is fire-and-forget:
// publish errors are swallowed by the bus side, listener results are never
// consumed.
type ProductNotifier interface {
	ImageAttach(product *types.Product)
	ImageUpdate(product *types.Product)
	PriceAverageRecompute(product *types.Product)
	Stored(product *types.Product)
	Updated(product *types.Product)
	AuditStored(product *types.Product, userID *uuid.UUID, newValues map[string]interface{})
	AuditUpdated(product *types.Product, userID *uuid.UUID, oldValues, newValues map[string]interface{})
}

type productNotifier struct {
	bus events.Bus
}

func NewProductNotifier(bus events.Bus) ProductNotifier {
	return &productNotifier{bus: bus}
}

func (n *productNotifier) publish(evt events.Event) {
	if n == nil || n.bus == nil {
		return
	}
	_ = n.bus.Publish(context.Background(), evt)
}

func (n *productNotifier) ImageAttach(product *types.Product) {
	n.publish(events.Event{
		Name:      events.EventProductImageAttach,
		ProductID: product.ID,
		Payload:   map[string]interface{}{"url": product.URL},
	})
}

func (n *productNotifier) ImageUpdate(product *types.Product) {
	n.publish(events.Event{
		Name:      events.EventProductImageUpdate,
		ProductID: product.ID,
		Payload:   map[string]interface{}{"url": product.URL},
	})
}

func (n *productNotifier) PriceAverageRecompute(product *types.Product) {
	n.publish(events.Event{
		Name:      events.EventPriceAverageRecompute,
		ProductID: product.ID,
	})
}

func (n *productNotifier) Stored(product *types.Product) {
	n.publish(events.Event{
		Name:      events.EventProductStored,
		ProductID: product.ID,
		Payload:   map[string]interface{}{"name": product.Name},
	})
}

func (n *productNotifier) Updated(product *types.Product) {
	n.publish(events.Event{
		Name:      events.EventProductUpdated,
		ProductID: product.ID,
		Payload:   map[string]interface{}{"name": product.Name},
	})
}

func (n *productNotifier) AuditStored(product *types.Product, userID *uuid.UUID, newValues map[string]interface{}) {
	n.publish(events.Event{
		Name:      events.EventProductAuditStored,
		ProductID: product.ID,
		UserID:    userID,
		Payload:   map[string]interface{}{"new": newValues},
	})
}

func (n *productNotifier) AuditUpdated(product *types.Product, userID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	n.publish(events.Event{
		Name:      events.EventProductAuditUpdated,
		ProductID: product.ID,
		UserID:    userID,
		Payload:   map[string]interface{}{"old": oldValues, "new": newValues},
	})
}
