package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/pantrywise/catalog-backend/internal/events"
	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// PriceAverageListener recomputes a product's average price as the mean of
// its packs' price-per-kilogram whenever a recompute event fires.
type PriceAverageListener struct {
	log         *logger.Logger
	productRepo repos.ProductRepo
	packRepo    repos.ProductPackRepo
}

func NewPriceAverageListener(baseLog *logger.Logger, productRepo repos.ProductRepo, packRepo repos.ProductPackRepo) *PriceAverageListener {
	return &PriceAverageListener{
		log:         baseLog.With("listener", "PriceAverageListener"),
		productRepo: productRepo,
		packRepo:    packRepo,
	}
}

func (l *PriceAverageListener) Register(bus events.Bus) {
	bus.Subscribe(events.EventPriceAverageRecompute, l.handle)
}

func (l *PriceAverageListener) handle(evt events.Event) {
	ctx := context.Background()
	packs, err := l.packRepo.GetByProduct(ctx, nil, evt.ProductID)
	if err != nil {
		l.log.Warn("failed to load packs for average price", "error", err, "product_id", evt.ProductID)
		return
	}

	sum := decimal.Zero
	count := 0
	for _, pack := range packs {
		if pack.PricePerKg.IsPositive() {
			sum = sum.Add(pack.PricePerKg)
			count++
		}
	}
	average := decimal.Zero
	if count > 0 {
		average = sum.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	if err := l.productRepo.UpdateColumns(ctx, nil, evt.ProductID, map[string]interface{}{
		"average_price": average,
	}); err != nil {
		l.log.Warn("failed to persist average price", "error", err, "product_id", evt.ProductID)
	}
}

// AuditListener persists an audit row per stored/updated product, carrying
// the snapshotted old values next to the new ones.
type AuditListener struct {
	log       *logger.Logger
	auditRepo repos.ProductAuditRepo
}

func NewAuditListener(baseLog *logger.Logger, auditRepo repos.ProductAuditRepo) *AuditListener {
	return &AuditListener{
		log:       baseLog.With("listener", "AuditListener"),
		auditRepo: auditRepo,
	}
}

func (l *AuditListener) Register(bus events.Bus) {
	bus.Subscribe(events.EventProductAuditStored, func(evt events.Event) { l.handle(evt, "stored") })
	bus.Subscribe(events.EventProductAuditUpdated, func(evt events.Event) { l.handle(evt, "updated") })
}

func (l *AuditListener) handle(evt events.Event, action string) {
	audit := &types.ProductAudit{
		ID:        uuid.New(),
		ProductID: evt.ProductID,
		UserID:    evt.UserID,
		Action:    action,
		OldValues: marshalValues(evt.Payload["old"]),
		NewValues: marshalValues(evt.Payload["new"]),
	}
	if err := l.auditRepo.Create(context.Background(), nil, audit); err != nil {
		l.log.Warn("failed to write audit row", "error", err, "product_id", evt.ProductID)
	}
}

func marshalValues(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// RegisterListeners wires the in-repo listeners onto the bus. Image events
// have no in-repo consumer; external media tooling subscribes to those.
func RegisterListeners(bus events.Bus, baseLog *logger.Logger, productRepo repos.ProductRepo, packRepo repos.ProductPackRepo, auditRepo repos.ProductAuditRepo) {
	NewPriceAverageListener(baseLog, productRepo, packRepo).Register(bus)
	NewAuditListener(baseLog, auditRepo).Register(bus)
}
