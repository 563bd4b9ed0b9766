package command

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

const (
	descriptionDeposit        = "Deposit"
	descriptionWithdrawal     = "Withdrawal"
	descriptionInitialDeposit = "Initial deposit"

	// Amounts are stored with two decimal places.
	amountScale = 2
)

// validateAmount rejects non-positive amounts and sub-cent precision, which
// the SQL stores would otherwise round away.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.Validation("amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(amountScale)) {
		return apperr.Validation("amount must have at most two decimal places")
	}
	return nil
}

// post applies one deposit or withdrawal to account in place and returns the
// transaction that records it. The caller must hold the account's lock.
func post(account *models.Account, txType models.TransactionType, amount decimal.Decimal, description string, at time.Time) (*models.Transaction, error) {
	switch txType {
	case models.TransactionTypeDeposit:
		account.Balance = account.Balance.Add(amount)
	case models.TransactionTypeWithdrawal:
		if amount.GreaterThan(account.Balance) {
			return nil, apperr.InsufficientFunds("Insufficient funds")
		}
		account.Balance = account.Balance.Sub(amount)
	default:
		return nil, apperr.Validation("type must be deposit or withdrawal")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultDescription(txType)
	}

	return &models.Transaction{
		ID:          utils.NewTransactionID(),
		AccountID:   account.ID,
		Type:        txType,
		Amount:      amount,
		Date:        at,
		Description: description,
	}, nil
}

func defaultDescription(txType models.TransactionType) string {
	if txType == models.TransactionTypeWithdrawal {
		return descriptionWithdrawal
	}
	return descriptionDeposit
}
