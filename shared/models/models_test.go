package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalsAsNumber(t *testing.T) {
	account := Account{ID: "A1", UserID: "u1", Type: AccountTypeSavings, Balance: decimal.RequireFromString("100.50")}
	raw, err := json.Marshal(account)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"balance":100.5`) {
		t.Errorf("balance not encoded as a number: %s", raw)
	}

	var back Account
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Balance.Equal(account.Balance) {
		t.Errorf("round trip changed balance: %s", back.Balance)
	}
}

func TestMoneyAcceptsQuotedInput(t *testing.T) {
	var txn Transaction
	if err := json.Unmarshal([]byte(`{"amount":"12.34"}`), &txn); err != nil {
		t.Fatal(err)
	}
	if !txn.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("amount = %s", txn.Amount)
	}
}

func TestRoleAndTypeValidity(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{string(RoleAdmin), Role(RoleAdmin).Valid()},
		{string(AccountTypeTermDeposit), AccountTypeTermDeposit.Valid()},
		{string(TransactionTypeWithdrawal), TransactionTypeWithdrawal.Valid()},
	}
	for _, tt := range tests {
		if !tt.valid {
			t.Errorf("%s should be valid", tt.name)
		}
	}
	if Role("root").Valid() || AccountType("gold").Valid() || TransactionType("transfer").Valid() {
		t.Error("unknown values must be invalid")
	}
}
