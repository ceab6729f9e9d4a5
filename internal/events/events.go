package events

import (
	"github.com/google/uuid"
)

// Event names emitted by the product workflow. Store order: image attach,
// price average, stored, audit. Update order: image update, updated, audit,
// price average.
const (
	EventProductImageAttach    = "product.image.attach"
	EventProductImageUpdate    = "product.image.update"
	EventPriceAverageRecompute = "product.price_average.recompute"
	EventProductStored         = "product.stored"
	EventProductUpdated        = "product.updated"
	EventProductAuditStored    = "product.audit.stored"
	EventProductAuditUpdated   = "product.audit.updated"
)

type Event struct {
	Name      string                 `json:"name"`
	ProductID uuid.UUID              `json:"product_id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Handler consumes one event. Handlers run detached from the publisher; a
// failing or panicking handler never reaches the caller.
type Handler func(evt Event)
