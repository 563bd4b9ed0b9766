package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecodeMessageRoundTrip(t *testing.T) {
	ev := newEvent(TransactionCreated, TransactionCreatedEvent{
		TransactionID: "tx-1",
		AccountID:     "A1",
		UserID:        "u1",
		Amount:        decimal.NewFromInt(100),
		Type:          "deposit",
	})
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}

	for name, value := range map[string]any{"string": string(raw), "bytes": raw} {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeMessage(map[string]any{"event": value})
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Type != TransactionCreated {
				t.Errorf("type = %q", got.Type)
			}
			data, ok := got.Data.(map[string]any)
			if !ok || data["accountId"] != "A1" {
				t.Errorf("unexpected data %#v", got.Data)
			}
		})
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage(map[string]any{}); err == nil {
		t.Error("expected error for missing field")
	}
	if _, err := DecodeMessage(map[string]any{"event": "{"}); err == nil {
		t.Error("expected error for bad json")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), AccountEventsStream, AccountCreated, nil); err != nil {
		t.Errorf("nop publish: %v", err)
	}
}
