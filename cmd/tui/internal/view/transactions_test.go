package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/kv/memory"
	"pocketledger/internal/ledger"
	ledgerStore "pocketledger/internal/ledger/store"
)

func TestTransactionsModel_ResizeKeepsTableVisible(t *testing.T) {
	engine := ledger.NewService(ledgerStore.New(memory.New()))
	model := NewTransactionsModel(engine, "Alice Smith")

	tests := map[string]struct {
		height int
		want   int
	}{
		"Tall":  {height: 40, want: 26},
		"Short": {height: 10, want: 1},
		"Tiny":  {height: 3, want: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: tc.height})

			resized, ok := updated.(TransactionsModel)
			require.True(t, ok)
			assert.Equal(t, tc.want, resized.table.Height())
		})
	}
}
