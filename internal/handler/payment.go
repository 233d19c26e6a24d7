package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/service"
)

// PaymentHandler serves payment endpoints on top of the payment service.
// The whole group is only registered when payments are enabled in config.
type PaymentHandler struct {
	Payments service.PaymentService
}

func NewPaymentHandler(p service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

var validMethods = map[string]bool{
	"credit_card": true,
	"debit_card":  true,
	"upi":         true,
	"netbanking":  true,
	"wallet":      true,
}

type payReq struct {
	TicketID      uint64 `json:"ticket_id"`
	PaymentMethod string `json:"payment_method"`
}

// Create settles a ticket at its fare.  The payment completes
// immediately and a pending ticket flips to confirmed.
func (h *PaymentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req payReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id is required"})
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !validMethods[method] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_method"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Pay(ctx, uid, req.TicketID, method)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, service.ErrTicketCancelled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot pay for a cancelled ticket"})
		case errors.Is(err, service.ErrAlreadyPaid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already completed for this ticket"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the caller's payments; admins get every payment.
func (h *PaymentHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var payments interface{}
	if isAdmin(c) {
		payments, err = h.Payments.ListAll(ctx)
	} else {
		payments, err = h.Payments.ListForUser(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

// Get returns one payment; non-owners need the admin role.
func (h *PaymentHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Get(ctx, id, uid, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// GetByTransaction resolves a payment by its TXN code.
func (h *PaymentHandler) GetByTransaction(c echo.Context) error {
	txn := strings.ToUpper(strings.TrimSpace(c.Param("txn")))
	if txn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction id is required"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.GetByTransactionID(ctx, txn, uid, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Refund refunds a payment and cancels the associated ticket.  Admin
// only at the route layer.
func (h *PaymentHandler) Refund(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Refund(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		case errors.Is(err, service.ErrAlreadyRefunded):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment is already refunded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refund failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a payment record.  Admin only at the route layer.
func (h *PaymentHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment deleted"})
}
