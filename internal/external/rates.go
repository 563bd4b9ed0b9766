// Package external holds the clients for the two remote services the API
// passes through: an exchange-rate lookup and a SOAP calculator. Nothing in
// the ledger depends on them.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
)

const rateProvider = "Frankfurter"

// Rates is the response of a rate lookup.
type Rates struct {
	Success  bool                       `json:"success"`
	Provider string                     `json:"provider"`
	Base     string                     `json:"base"`
	Date     string                     `json:"date"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// RateLookup fetches exchange rates for a base currency.
type RateLookup interface {
	Fetch(ctx context.Context, base string) (*Rates, error)
}

// RateClient calls a Frankfurter-compatible /latest endpoint.
type RateClient struct {
	httpClient *http.Client
	url        string
}

func NewRateClient(endpoint string, timeout time.Duration) *RateClient {
	return &RateClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        endpoint,
	}
}

type frankfurterResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (c *RateClient) Fetch(ctx context.Context, base string) (*Rates, error) {
	base = NormalizeCurrency(base)

	u, err := url.Parse(c.url)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Could not fetch exchange rates", err)
	}
	q := u.Query()
	q.Set("base", base)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Could not fetch exchange rates", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Could not fetch exchange rates", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ServiceUnavailable("Could not fetch exchange rates",
			fmt.Errorf("rates endpoint returned status %d", resp.StatusCode))
	}

	var body frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.ServiceUnavailable("Could not fetch exchange rates", err)
	}

	return &Rates{
		Success:  true,
		Provider: rateProvider,
		Base:     body.Base,
		Date:     body.Date,
		Rates:    body.Rates,
	}, nil
}

// NormalizeCurrency upper-cases a currency code and defaults it to USD.
func NormalizeCurrency(base string) string {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return "USD"
	}
	return base
}
