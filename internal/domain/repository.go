package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrKeyNotFound     = errors.New("key not found")
)

// KeyValueStore is the durable string store the cart and the session flag live in
type KeyValueStore interface {
	// Get returns ErrKeyNotFound when key has never been written or was deleted
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// CatalogSource reads the full product list from the remote catalog
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// CredentialVerifier checks login credentials. Implementations may be a fixed
// account or a real identity backend.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*User, error)
	// SessionUser returns the account bound to a persisted session flag
	SessionUser(ctx context.Context) (*User, error)
}

// LocalProductRepository stores products managed through the dashboard
type LocalProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}
