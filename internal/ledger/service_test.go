package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pocketledger/internal/ledger"
)

func validInput() ledger.Input {
	return ledger.Input{
		Description: "Groceries",
		Amount:      "42.50",
		Date:        "2024-01-05",
		Kind:        "expense",
		Category:    "Food & Dining",
	}
}

func loadedService(t *testing.T, repo *ledger.MockRepository, records []ledger.Transaction) *ledger.Service {
	t.Helper()

	repo.EXPECT().
		Records(gomock.Any(), "alice").
		Return(records, nil)

	svc := ledger.NewService(repo)
	require.NoError(t, svc.Load(context.Background(), "alice"))

	return svc
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name        string
		input       ledger.Input
		setupMock   func(m *ledger.MockRepository)
		wantReasons map[string]ledger.Reason
		wantErr     bool
	}

	tests := []testCase{
		{
			name:  "Success",
			input: validInput(),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					SaveRecords(gomock.Any(), "alice", gomock.Len(1)).
					Return(nil)
			},
		},
		{
			name: "ZeroAmount",
			input: ledger.Input{
				Description: "Groceries",
				Amount:      "0",
				Date:        "2024-01-05",
				Kind:        "expense",
				Category:    "Food & Dining",
			},
			wantReasons: map[string]ledger.Reason{"amount": ledger.ReasonInvalidAmount},
			wantErr:     true,
		},
		{
			name: "NegativeAmount",
			input: ledger.Input{
				Description: "Groceries",
				Amount:      "-5",
				Date:        "2024-01-05",
				Kind:        "expense",
				Category:    "Food & Dining",
			},
			wantReasons: map[string]ledger.Reason{"amount": ledger.ReasonInvalidAmount},
			wantErr:     true,
		},
		{
			name: "CollectsAllFieldErrors",
			input: ledger.Input{
				Description: "   ",
				Amount:      "not-a-number",
				Date:        "",
				Kind:        "transfer",
				Category:    "Groceries",
			},
			wantReasons: map[string]ledger.Reason{
				"description": ledger.ReasonMissingDescription,
				"amount":      ledger.ReasonInvalidAmount,
				"date":        ledger.ReasonMissingDate,
				"type":        ledger.ReasonInvalidKind,
				"category":    ledger.ReasonMissingCategory,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := loadedService(t, repo, nil)
			got, err := svc.Create(context.Background(), tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				var validationErrs ledger.ValidationErrors
				require.ErrorAs(t, err, &validationErrs)
				require.Len(t, validationErrs, len(tt.wantReasons))

				for _, fe := range validationErrs {
					assert.Equal(t, tt.wantReasons[fe.Field], fe.Reason, "field %s", fe.Field)
				}

				// Nothing was persisted, so the set is unchanged.
				result, err := svc.List(context.Background(), ledger.Filter{})
				require.NoError(t, err)
				assert.Zero(t, result.Total)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Groceries", got.Description)
			assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.50")))
			assert.Equal(t, ledger.KindExpense, got.Kind)

			result, err := svc.List(context.Background(), ledger.Filter{})
			require.NoError(t, err)
			assert.Equal(t, 1, result.Total)
			assert.Equal(t, got.ID, result.Transactions[0].ID)
		})
	}
}

func TestService_Create_IDsUnique(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		SaveRecords(gomock.Any(), "alice", gomock.Any()).
		Return(nil).
		Times(2)

	svc := loadedService(t, repo, nil)

	first, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestService_Create_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		SaveRecords(gomock.Any(), "alice", gomock.Any()).
		Return(nil).
		AnyTimes()

	svc := loadedService(t, repo, nil)

	const writers = 8

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(context.Background(), validInput())
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	// Every append survived and every record kept a distinct id.
	result, err := svc.List(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	require.Equal(t, writers, result.Total)

	seen := make(map[string]bool, writers)
	for _, tx := range result.Transactions {
		assert.False(t, seen[tx.ID])
		seen[tx.ID] = true
	}
}

func TestService_Update(t *testing.T) {
	existing := ledger.Transaction{
		ID:          "tx-1",
		Description: "Old description",
		Amount:      decimal.RequireFromString("10"),
		Date:        ledger.NewDate(2024, 1, 1),
		Kind:        ledger.KindExpense,
		Category:    "Other",
	}

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		svc := loadedService(t, repo, []ledger.Transaction{existing})

		got, err := svc.Update(context.Background(), "missing", validInput())
		assert.ErrorIs(t, err, ledger.ErrNotFound)
		assert.Nil(t, got)

		result, err := svc.List(context.Background(), ledger.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, "Old description", result.Transactions[0].Description)
	})

	t.Run("ValidationLeavesRecordUnchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		svc := loadedService(t, repo, []ledger.Transaction{existing})

		_, err := svc.Update(context.Background(), "tx-1", ledger.Input{Amount: "-1"})

		var validationErrs ledger.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)

		result, err := svc.List(context.Background(), ledger.Filter{})
		require.NoError(t, err)
		assert.Equal(t, "Old description", result.Transactions[0].Description)
	})

	t.Run("ReplacesFieldsPreservingID", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			SaveRecords(gomock.Any(), "alice", gomock.Len(1)).
			Return(nil)

		svc := loadedService(t, repo, []ledger.Transaction{existing})

		got, err := svc.Update(context.Background(), "tx-1", validInput())
		require.NoError(t, err)
		assert.Equal(t, "tx-1", got.ID)
		assert.Equal(t, "Groceries", got.Description)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.50")))
		assert.Equal(t, "2024-01-05", got.Date.String())
		assert.Equal(t, "Food & Dining", got.Category)
	})
}

func TestService_Delete(t *testing.T) {
	existing := ledger.Transaction{ID: "tx-1", Kind: ledger.KindExpense}

	t.Run("Present", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			SaveRecords(gomock.Any(), "alice", gomock.Len(0)).
			Return(nil)

		svc := loadedService(t, repo, []ledger.Transaction{existing})

		removed, err := svc.Delete(context.Background(), "tx-1")
		require.NoError(t, err)
		assert.True(t, removed)

		result, err := svc.List(context.Background(), ledger.Filter{})
		require.NoError(t, err)
		assert.Zero(t, result.Total)
	})

	t.Run("AbsentIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		svc := loadedService(t, repo, []ledger.Transaction{existing})

		removed, err := svc.Delete(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, removed)

		result, err := svc.List(context.Background(), ledger.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	})
}

func sampleRecords() []ledger.Transaction {
	return []ledger.Transaction{
		{
			ID:          "a",
			Description: "Lunch",
			Amount:      decimal.RequireFromString("100"),
			Date:        ledger.NewDate(2024, 1, 5),
			Kind:        ledger.KindExpense,
			Category:    "Food & Dining",
		},
		{
			ID:          "b",
			Description: "Consulting",
			Amount:      decimal.RequireFromString("500"),
			Date:        ledger.NewDate(2024, 1, 10),
			Kind:        ledger.KindIncome,
			Category:    "Business",
		},
	}
}

func TestService_List(t *testing.T) {
	kindExpense := ledger.KindExpense
	startDate := ledger.NewDate(2024, 1, 6)
	minAmount := decimal.RequireFromString("200")
	category := "Business"

	type testCase struct {
		name    string
		filter  ledger.Filter
		wantIDs []string
	}

	tests := []testCase{
		{
			name:    "NoPredicatesSortedDateDescending",
			filter:  ledger.Filter{},
			wantIDs: []string{"b", "a"},
		},
		{
			name:    "KindExpense",
			filter:  ledger.Filter{Kind: &kindExpense},
			wantIDs: []string{"a"},
		},
		{
			name:    "StartDateInclusiveBound",
			filter:  ledger.Filter{StartDate: &startDate},
			wantIDs: []string{"b"},
		},
		{
			name:    "MinAmount",
			filter:  ledger.Filter{MinAmount: &minAmount},
			wantIDs: []string{"b"},
		},
		{
			name: "AllPredicatesIntersect",
			filter: ledger.Filter{
				StartDate: &startDate,
				MinAmount: &minAmount,
				Category:  &category,
			},
			wantIDs: []string{"b"},
		},
		{
			name:    "NoMatches",
			filter:  ledger.Filter{MaxAmount: &minAmount, Kind: &kindExpense, Category: &category},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			svc := loadedService(t, repo, sampleRecords())

			result, err := svc.List(context.Background(), tt.filter)
			require.NoError(t, err)

			gotIDs := make([]string, 0, len(result.Transactions))
			for _, tx := range result.Transactions {
				gotIDs = append(gotIDs, tx.ID)
			}

			assert.Equal(t, tt.wantIDs, gotIDs)
			assert.Equal(t, len(tt.wantIDs), result.Matched)
			assert.Equal(t, 2, result.Total)
		})
	}
}

func TestService_Summarize(t *testing.T) {
	t.Run("Example", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		svc := loadedService(t, repo, sampleRecords())

		s, err := svc.Summarize(context.Background())
		require.NoError(t, err)

		assert.True(t, s.TotalIncome.Equal(decimal.RequireFromString("500")))
		assert.True(t, s.TotalExpenses.Equal(decimal.RequireFromString("100")))
		assert.True(t, s.Balance.Equal(decimal.RequireFromString("400")))
		assert.Equal(t, 2, s.TransactionCount)
	})

	t.Run("EmptySet", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		svc := loadedService(t, repo, nil)

		s, err := svc.Summarize(context.Background())
		require.NoError(t, err)

		assert.True(t, s.Balance.IsZero())
		assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpenses)))
		assert.Zero(t, s.TransactionCount)
	})
}

func TestService_PersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := loadedService(t, repo, nil)

	repo.EXPECT().
		SaveRecords(gomock.Any(), "alice", gomock.Any()).
		Return(errors.New("disk full"))
	// The engine falls back to the last persisted snapshot.
	repo.EXPECT().
		Records(gomock.Any(), "alice").
		Return(nil, nil)

	got, err := svc.Create(context.Background(), validInput())
	assert.Nil(t, got)

	var persistenceErr *ledger.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)

	// Memory was rolled back; the engine stays usable.
	result, err := svc.List(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestService_NoSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl))

	_, err := svc.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, ledger.ErrNoSession)

	_, err = svc.List(context.Background(), ledger.Filter{})
	assert.ErrorIs(t, err, ledger.ErrNoSession)

	_, err = svc.Summarize(context.Background())
	assert.ErrorIs(t, err, ledger.ErrNoSession)
}

func TestService_UnloadDiscardsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := loadedService(t, repo, sampleRecords())

	svc.Unload()

	_, loaded := svc.Loaded()
	assert.False(t, loaded)

	_, err := svc.List(context.Background(), ledger.Filter{})
	assert.ErrorIs(t, err, ledger.ErrNoSession)
}
