package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// validate checks every field of in and returns a transaction carrying the
// parsed values. The returned ValidationErrors holds one entry per failing
// field; it is nil when the input is fully valid.
func validate(in Input) (Transaction, ValidationErrors) {
	var (
		tx   Transaction
		errs ValidationErrors
	)

	tx.Description = strings.TrimSpace(in.Description)
	if tx.Description == "" {
		errs = append(errs, FieldError{Field: "description", Reason: ReasonMissingDescription})
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil || !amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Reason: ReasonInvalidAmount})
	} else {
		tx.Amount = amount
	}

	date, err := ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		errs = append(errs, FieldError{Field: "date", Reason: ReasonMissingDate})
	} else {
		tx.Date = date
	}

	tx.Kind = Kind(in.Kind)
	if !tx.Kind.Valid() {
		errs = append(errs, FieldError{Field: "type", Reason: ReasonInvalidKind})
	}

	tx.Category = in.Category
	if !ValidCategory(tx.Category) {
		errs = append(errs, FieldError{Field: "category", Reason: ReasonMissingCategory})
	}

	return tx, errs
}
