package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// Records loads the full record set owned by username. An unknown user
	// yields an empty set, not an error.
	Records(ctx context.Context, username string) ([]Transaction, error)

	// SaveRecords rewrites the full record set owned by username.
	SaveRecords(ctx context.Context, username string, records []Transaction) error
}

// Service is the ledger engine. It holds the signed-in user's record set in
// memory and rewrites the whole set through the repository on every
// mutation. At most one session is loaded at a time; the mutex serializes
// callers that share one instance, such as concurrent HTTP handlers.
type Service struct {
	repo Repository

	mu       sync.Mutex
	username string
	loaded   bool
	records  []Transaction
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Load pulls username's persisted record set into memory, replacing any
// previously loaded session. New users start with an empty set.
func (s *Service) Load(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Records(ctx, username)
	if err != nil {
		return fmt.Errorf("loading ledger for %s: %w", username, err)
	}

	s.username = username
	s.records = records
	s.loaded = true

	return nil
}

// Unload discards the in-memory set. Everything is already persisted, so
// nothing is lost; subsequent operations fail with ErrNoSession.
func (s *Service) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = ""
	s.records = nil
	s.loaded = false
}

// Loaded reports whether a session is active and for whom.
func (s *Service) Loaded() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.username, s.loaded
}

// Create validates input, assigns a fresh id, appends the record and
// persists the updated set. On validation failure it returns
// ValidationErrors and changes nothing.
func (s *Service) Create(ctx context.Context, in Input) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNoSession
	}

	tx, errs := validate(in)
	if errs != nil {
		return nil, errs
	}

	tx.ID = uuid.NewString()

	s.records = append(s.records, tx)
	if err := s.persist(ctx, "create"); err != nil {
		return nil, err
	}

	return &tx, nil
}

// Update replaces every field except the id of the record identified by id.
// It fails with ErrNotFound before any validation runs.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNoSession
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	tx, errs := validate(in)
	if errs != nil {
		return nil, errs
	}

	tx.ID = id

	s.records[idx] = tx
	if err := s.persist(ctx, "update"); err != nil {
		return nil, err
	}

	return &tx, nil
}

// Delete removes the record identified by id. A missing id is a harmless
// no-op; the returned bool tells the caller whether anything was removed so
// it can clear an in-progress edit referencing that id.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, ErrNoSession
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	if err := s.persist(ctx, "delete"); err != nil {
		return false, err
	}

	return true, nil
}

// List returns the records satisfying every active predicate of filter,
// sorted by date descending, along with the matched and total counts.
func (s *Service) List(_ context.Context, filter Filter) (*ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNoSession
	}

	matched := make([]Transaction, 0, len(s.records))

	for _, tx := range s.records {
		if filter.Matches(tx) {
			matched = append(matched, tx)
		}
	}

	// Stable keeps insertion order among same-day records.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date.Time)
	})

	return &ListResult{
		Transactions: matched,
		Matched:      len(matched),
		Total:        len(s.records),
	}, nil
}

// Summarize computes the derived totals over the unfiltered ledger.
func (s *Service) Summarize(_ context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNoSession
	}

	income := decimal.Zero
	expenses := decimal.Zero

	for _, tx := range s.records {
		switch tx.Kind {
		case KindIncome:
			income = income.Add(tx.Amount)
		case KindExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	return &Summary{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		Balance:          income.Sub(expenses),
		TransactionCount: len(s.records),
	}, nil
}

func (s *Service) indexOf(id string) int {
	for i, tx := range s.records {
		if tx.ID == id {
			return i
		}
	}

	return -1
}

// persist writes the full in-memory set. On failure the set is re-derived
// from the last persisted snapshot so memory never runs ahead of storage.
func (s *Service) persist(ctx context.Context, op string) error {
	saveErr := s.repo.SaveRecords(ctx, s.username, s.records)
	if saveErr == nil {
		return nil
	}

	if records, err := s.repo.Records(ctx, s.username); err == nil {
		s.records = records
	}

	return &PersistenceError{Op: op, Err: saveErr}
}
