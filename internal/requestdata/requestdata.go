package requestdata

import (
	"context"

	"github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData is the authenticated caller as seen by services: identity plus
// the permission surface read from the access token claims.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Root        bool
	SupplierID  *uuid.UUID
	Permissions []string
}

func (rd *RequestData) IsRoot() bool {
	return rd != nil && rd.Root
}

func (rd *RequestData) HasSupplier() bool {
	return rd != nil && rd.SupplierID != nil && *rd.SupplierID != uuid.Nil
}

func (rd *RequestData) HasPermission(name string) bool {
	if rd == nil {
		return false
	}
	for _, p := range rd.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
