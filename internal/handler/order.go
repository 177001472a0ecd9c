package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/promptcart/promptcart/internal/domain/cart"
	"github.com/promptcart/promptcart/internal/domain/order"
)

const maxRequestBody = 1 << 20

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var cartID string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key == "cartId" {
			v, err := d.Str()
			cartID = v
			return err
		}
		return d.Skip()
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if cartID == "" {
		writeError(w, http.StatusBadRequest, "cartId is required")
		return
	}

	result, err := h.orders.CreateOrderFromCart(r.Context(), cartID)
	if err != nil && result == nil {
		h.mapOrderError(w, r, err)
		return
	}

	// A clear failure still carries a committed order: respond 201 with the
	// order and surface the warning so the caller retries only the clear.
	var warning string
	var clearErr *order.CartClearError
	if errors.As(err, &clearErr) {
		warning = clearErr.Error()
	}

	e := &jx.Encoder{}
	encodeOrderResult(e, result, warning)
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		internalError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o, true, "")
	writeJSON(w, http.StatusOK, e)
}

// mapOrderError converts pre-commit domain errors to HTTP responses.
func (h *Handler) mapOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pnfErr *order.ProductNotFoundError
		stnErr *order.SiteTypeNotFoundError
		perErr *order.PersistenceError
	)
	switch {
	case errors.Is(err, cart.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrEmpty):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &pnfErr):
		writeError(w, http.StatusUnprocessableEntity, pnfErr.Error())
	case errors.As(err, &stnErr):
		writeError(w, http.StatusUnprocessableEntity, stnErr.Error())
	case errors.As(err, &perErr):
		writeError(w, http.StatusInternalServerError, "order could not be created")
	default:
		internalError(w, r, err)
	}
}

func encodeOrderResult(e *jx.Encoder, result *order.Result, warning string) {
	encodeOrder(e, result.Order, result.CartCleared, warning)
}

func encodeOrder(e *jx.Encoder, o *order.Order, cartCleared bool, warning string) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("userId")
	e.Str(o.UserID)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("total")
	e.Float64(o.Total.InexactFloat64())
	e.FieldStart("prompt")
	e.Str(o.Prompt)
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.Format(time.RFC3339Nano))
	e.FieldStart("cartCleared")
	e.Bool(cartCleared)
	if warning != "" {
		e.FieldStart("warning")
		e.Str(warning)
	}
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range o.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(it.ProductID)
		if it.PlatformID != nil {
			e.FieldStart("platformId")
			e.Str(*it.PlatformID)
		}
		e.FieldStart("promptFragment")
		e.Str(it.PromptFragment)
		e.FieldStart("unitPrice")
		e.Float64(it.UnitPrice.InexactFloat64())
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}
