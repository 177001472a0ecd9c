// Package handler exposes the domain over a small hand-written HTTP API.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/promptcart/promptcart/internal/domain/catalog"
	"github.com/promptcart/promptcart/internal/domain/order"
)

// Handler serves the API endpoints, delegating business logic to the order
// service and catalog reader.
type Handler struct {
	catalog catalog.Reader
	orders  *order.Service
	store   order.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(c catalog.Reader, orders *order.Service, store order.Repository) *Handler {
	return &Handler{
		catalog: c,
		orders:  orders,
		store:   store,
	}
}

// Register attaches all API routes to the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
}

// writeJSON writes the encoder's buffer with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {code, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, e)
}

// internalError logs the error and responds with a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
