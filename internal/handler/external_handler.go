package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mperez230-ship-it/MiniBanco/internal/external"
	"github.com/mperez230-ship-it/MiniBanco/shared/middleware"
)

type RateFetcher interface {
	Fetch(ctx context.Context, base string) (*external.Rates, error)
}

type Adder interface {
	Compute(ctx context.Context, a, b int) (int, error)
}

// ExternalHandler passes requests through to the remote rate and calculator
// services.
type ExternalHandler struct {
	rates RateFetcher
	adder Adder
}

func NewExternalHandler(rates RateFetcher, adder Adder) *ExternalHandler {
	return &ExternalHandler{rates: rates, adder: adder}
}

func (h *ExternalHandler) Rates(c *gin.Context) {
	rates, err := h.rates.Fetch(c.Request.Context(), c.DefaultQuery("base", "USD"))
	if err != nil {
		middleware.RespondWithAppError(c, err, "Could not fetch exchange rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}

// Add treats a missing operand as zero.
func (h *ExternalHandler) Add(c *gin.Context) {
	a, okA := intQuery(c, "a")
	b, okB := intQuery(c, "b")
	if !okA || !okB {
		middleware.RespondWithError(c, http.StatusBadRequest, "a and b must be integers")
		return
	}

	sum, err := h.adder.Compute(c.Request.Context(), a, b)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Calculator service unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": sum})
}

func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
