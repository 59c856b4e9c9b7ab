package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind represents the direction of a transaction (income or expense).
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Categories is the closed set of transaction categories. Validation and the
// category filter accept nothing outside it.
var Categories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Business",
	"Other",
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Date is a calendar date with day granularity and no time component.
// It marshals as YYYY-MM-DD, so lexical and calendar ordering agree.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Transaction represents a single income or expense record.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Kind        Kind            `json:"type"`
	Category    string          `json:"category"`
}

// Input carries the raw candidate fields for create and update. All fields
// arrive unvalidated; Amount and Date are parsed during validation.
type Input struct {
	Description string
	Amount      string
	Date        string
	Kind        string
	Category    string
}

// Filter narrows a listing. Nil fields impose no restriction; active
// predicates are AND-ed and all bounds are inclusive.
type Filter struct {
	StartDate *Date
	EndDate   *Date
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Kind      *Kind
	Category  *string
}

// Matches reports whether tx satisfies every active predicate.
func (f Filter) Matches(tx Transaction) bool {
	if f.StartDate != nil && tx.Date.Before(f.StartDate.Time) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(f.EndDate.Time) {
		return false
	}

	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}

	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}

	if f.Kind != nil && tx.Kind != *f.Kind {
		return false
	}

	if f.Category != nil && tx.Category != *f.Category {
		return false
	}

	return true
}

// ListResult is a filtered listing plus the counts backing
// "N of M transactions" reporting.
type ListResult struct {
	Transactions []Transaction
	Matched      int
	Total        int
}

// Summary holds the derived totals over the full ledger.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
}
