package ledger

import (
	"github.com/shopspring/decimal"

	"pocketledger/internal/ledger"
)

type transactionResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        ledger.Date     `json:"date"`
	Kind        ledger.Kind     `json:"type"`
	Category    string          `json:"category"`
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Matched      int                   `json:"matched"`
	Total        int                   `json:"total"`
}

type summaryResponse struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

type deleteResponse struct {
	Removed bool `json:"removed"`
}

type validationResponse struct {
	Errors ledger.ValidationErrors `json:"errors"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Date:        tx.Date,
		Kind:        tx.Kind,
		Category:    tx.Category,
	}
}

func toListResponse(result *ledger.ListResult) listResponse {
	txs := make([]transactionResponse, len(result.Transactions))
	for i := range result.Transactions {
		txs[i] = toResponse(&result.Transactions[i])
	}

	return listResponse{
		Transactions: txs,
		Matched:      result.Matched,
		Total:        result.Total,
	}
}

func toSummaryResponse(s *ledger.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		Balance:          s.Balance,
		TransactionCount: s.TransactionCount,
	}
}
