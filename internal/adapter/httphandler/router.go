package httphandler

import (
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

type Storefront interface {
	port.Catalog
	port.Sales
	port.Baskets
	port.Checkout
}

// NewRouter registers every storefront route and the metrics endpoint.
func NewRouter(s Storefront, m *Metrics) http.Handler {
	mux := http.NewServeMux()
	RegisterCatalog(mux, s, s)
	RegisterBaskets(mux, s, s)
	mux.Handle("GET /metrics", m.Handler())
	return m.Middleware(mux)
}
