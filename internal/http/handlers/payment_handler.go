// Payment intent stub.
//
// The marketing site collects payment interest but never charges: this
// endpoint validates the request and fabricates an intent id and client
// secret in the provider's shape without calling any provider. Real
// payment integration is explicitly out of scope.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currencies accepted by the payment stub.
var supportedCurrencies = map[string]struct{}{
	"usd": {}, "eur": {}, "gbp": {}, "brl": {}, "cop": {},
}

// PaymentIntentRequest is the JSON payload for creating a payment
// intent. Amount is in the currency's minor unit (cents).
type PaymentIntentRequest struct {
	Amount   int64  `json:"amount" example:"2500"`
	Currency string `json:"currency" example:"usd"`
}

// PaymentIntent is the stubbed provider response.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CreatePaymentIntent godoc
// @ID          createPaymentIntent
// @Summary     Create a payment intent (stub)
// @Description Validates the request and returns a fabricated intent;
// @Description no payment provider is contacted.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.PaymentIntentRequest  true  "Amount in minor units and ISO currency"
// @Success     201  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /payments/intent [post]
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "amount must be a positive number of minor units")
		return
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if _, supported := supportedCurrencies[currency]; !supported {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "unsupported currency")
		return
	}

	id := uuid.NewString()
	ok(c, http.StatusCreated, SuccessResponse{
		Message: "payment intent created",
		Data: PaymentIntent{
			ID:           "pi_" + id,
			ClientSecret: "pi_" + id + "_secret_" + uuid.NewString(),
			Amount:       req.Amount,
			Currency:     currency,
			Status:       "requires_payment_method",
		},
	})
}

// Health godoc
// @ID          health
// @Summary     Liveness and store reachability
// @Description Always answers 200; the database flag reports whether
// @Description the document store responded to a ping.
// @Tags        System
// @Produce     json
// @Success     200  {object}  map[string]any
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": h.store.Ping(c.Request.Context()),
	})
}
