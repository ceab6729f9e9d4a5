package types

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OwnerTypeSupplier = "supplier"
	OwnerTypeUser     = "user"
)

// OwnerLoader resolves a polymorphic owner reference to the owning record.
type OwnerLoader func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (interface{}, error)

var (
	ownerMu      sync.RWMutex
	ownerLoaders = map[string]OwnerLoader{}
)

// RegisterOwnerLoader maps an owner type tag to its loader. Registration
// happens once at startup; later registrations for the same tag replace the
// earlier one.
func RegisterOwnerLoader(ownerType string, loader OwnerLoader) {
	ownerMu.Lock()
	defer ownerMu.Unlock()
	ownerLoaders[ownerType] = loader
}

// ResolveOwner loads the product's owning record through the registry instead
// of any dynamic type resolution.
func ResolveOwner(ctx context.Context, tx *gorm.DB, p *Product) (interface{}, error) {
	if p.OwnerType == "" || p.OwnerID == uuid.Nil {
		return nil, nil
	}
	ownerMu.RLock()
	loader, ok := ownerLoaders[p.OwnerType]
	ownerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no owner loader registered for type %q", p.OwnerType)
	}
	return loader(ctx, tx, p.OwnerID)
}
