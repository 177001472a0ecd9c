package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when a requested product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrSiteTypeNotFound is returned when a requested site type does not exist.
var ErrSiteTypeNotFound = errors.New("site type not found")

// Product is a catalog item available for purchase. Price is the authoritative
// current price; carts may cache an older value, but orders are always priced
// from here.
type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	PromptFragment string
}

// SiteType classifies a site configuration and carries the base price added
// to orders that reference a configured site.
type SiteType struct {
	ID        string
	Name      string
	BasePrice decimal.Decimal
}

// Reader defines read operations on the catalog.
type Reader interface {
	List(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetSiteType(ctx context.Context, id string) (*SiteType, error)
}
