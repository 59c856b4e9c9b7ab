package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

// SignedInMsg is emitted when authentication succeeds and the user's ledger
// has been loaded.
type SignedInMsg struct {
	Username string
	Name     string
}

// SignedOutMsg is emitted when the user signs out.
type SignedOutMsg struct{}

const storeTimeout = 5 * time.Second

// StoreCtx returns a context with a standard timeout for storage operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
