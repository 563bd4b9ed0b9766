package main

import (
	"encoding/json"
	"fmt"

	"github.com/mperez230-ship-it/MiniBanco/shared/events"
)

// describe renders an event as one log line. Event.Data arrives as a generic
// map, so it is re-marshalled into the typed payload first.
func describe(event events.Event) (string, error) {
	switch event.Type {
	case events.UserCreated, events.UserUpdated:
		var data events.UserUpdatedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s user=%s name=%q role=%s", event.Type, data.UserID, data.Name, data.Role), nil
	case events.UserDeleted:
		var data events.UserDeletedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s user=%s", event.Type, data.UserID), nil
	case events.AccountCreated:
		var data events.AccountCreatedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s account=%s user=%s type=%s balance=%s", event.Type, data.AccountID, data.UserID, data.Type, data.Balance.StringFixed(2)), nil
	case events.AccountUpdated:
		var data events.AccountUpdatedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s account=%s type=%s", event.Type, data.AccountID, data.Type), nil
	case events.AccountDeleted:
		var data events.AccountDeletedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s account=%s user=%s", event.Type, data.AccountID, data.UserID), nil
	case events.TransactionCreated:
		var data events.TransactionCreatedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s id=%s account=%s %s %s", event.Type, data.TransactionID, data.AccountID, data.Type, data.Amount.StringFixed(2)), nil
	case events.TransactionUpdated:
		var data events.TransactionUpdatedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s id=%s description=%q", event.Type, data.TransactionID, data.Description), nil
	case events.BalanceUpdated:
		var data events.BalanceUpdatedEvent
		if err := decode(event, &data); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s account=%s balance=%s change=%s", event.Type, data.AccountID, data.NewBalance.StringFixed(2), data.Change.StringFixed(2)), nil
	default:
		return fmt.Sprintf("%s (unrecognised)", event.Type), nil
	}
}

func decode(event events.Event, into any) error {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(dataBytes, into); err != nil {
		return fmt.Errorf("failed to unmarshal %s event: %w", event.Type, err)
	}
	return nil
}
