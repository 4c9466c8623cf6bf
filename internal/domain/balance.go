package domain

import "github.com/shopspring/decimal"

// Balance folds records into the balance of accountID.
//
// Records that do not touch accountID are ignored. A transfer is one row:
// it credits its owner and debits its counterparty, so a self-transfer nets
// to zero. The result is not clamped.
func Balance(accountID string, records []*Statement) decimal.Decimal {
	balance := decimal.Zero

	for _, r := range records {
		balance = balance.Add(Effect(accountID, r))
	}

	return balance
}

// Effect returns the signed contribution of a single record to accountID.
func Effect(accountID string, r *Statement) decimal.Decimal {
	effect := decimal.Zero

	if r.OwnerID == accountID {
		switch r.Type {
		case OperationDeposit, OperationTransfer:
			effect = effect.Add(r.Amount)
		case OperationWithdraw:
			effect = effect.Sub(r.Amount)
		}
	}

	if r.Type == OperationTransfer && r.SenderID() == accountID {
		effect = effect.Sub(r.Amount)
	}

	return effect
}
