package external

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
)

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	tempuriNS      = "http://tempuri.org/"
	addAction      = tempuriNS + "Add"
)

// RemoteAdd adds two integers remotely.
type RemoteAdd interface {
	Compute(ctx context.Context, a, b int) (int, error)
}

// CalculatorClient speaks SOAP 1.1 to a calculator.asmx style service.
type CalculatorClient struct {
	httpClient *http.Client
	url        string
}

func NewCalculatorClient(endpoint string, timeout time.Duration) *CalculatorClient {
	return &CalculatorClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        endpoint,
	}
}

type addEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    addBody  `xml:"soap:Body"`
}

type addBody struct {
	Add addRequest `xml:"Add"`
}

type addRequest struct {
	XMLNS string `xml:"xmlns,attr"`
	IntA  int    `xml:"intA"`
	IntB  int    `xml:"intB"`
}

type addResponseEnvelope struct {
	Body struct {
		Fault       *soapFault `xml:"Fault"`
		AddResponse *struct {
			AddResult int `xml:"AddResult"`
		} `xml:"AddResponse"`
	} `xml:"Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

func (c *CalculatorClient) Compute(ctx context.Context, a, b int) (int, error) {
	payload, err := xml.Marshal(addEnvelope{
		SoapNS: soapEnvelopeNS,
		Body:   addBody{Add: addRequest{XMLNS: tempuriNS, IntA: a, IntB: b}},
	})
	if err != nil {
		return 0, apperr.Internal("failed to encode SOAP request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return 0, apperr.ServiceUnavailable("Calculator service unavailable", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+addAction+`"`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperr.ServiceUnavailable("Calculator service unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, apperr.ServiceUnavailable("Calculator service unavailable", err)
	}

	var envelope addResponseEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return 0, apperr.ServiceUnavailable("Calculator service unavailable",
			fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}
	if fault := envelope.Body.Fault; fault != nil {
		return 0, apperr.ServiceUnavailable("Calculator service unavailable",
			fmt.Errorf("soap fault %s: %s", fault.Code, fault.String))
	}
	if resp.StatusCode != http.StatusOK || envelope.Body.AddResponse == nil {
		return 0, apperr.ServiceUnavailable("Calculator service unavailable",
			errors.New("unexpected calculator response"))
	}
	return envelope.Body.AddResponse.AddResult, nil
}
