package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"pocketledger/cmd/tui/internal/view"
	"pocketledger/internal/config"
	"pocketledger/internal/kv/sqlite"
	"pocketledger/internal/ledger"
	ledgerStore "pocketledger/internal/ledger/store"
	"pocketledger/internal/user"
	userStore "pocketledger/internal/user/store"
)

type View int

const (
	ViewLogin        View = 0
	ViewTransactions View = 1
)

type model struct {
	directory *user.Directory
	engine    *ledger.Service

	currentView View
	userName    string

	loginView view.LoginModel
	txView    view.TransactionsModel
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}

	engine := ledger.NewService(ledgerStore.New(store))
	directory := user.NewDirectory(userStore.New(store))

	m := model{
		directory:   directory,
		engine:      engine,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(directory, engine),
	}

	// Restore a persisted session, if any.
	if u, err := directory.Current(context.Background()); err == nil {
		if err := engine.Load(context.Background(), u.Username); err == nil {
			m.currentView = ViewTransactions
			m.userName = u.Name
			m.txView = view.NewTransactionsModel(engine, u.Name)
		}
	} else if !errors.Is(err, user.ErrNoCurrentUser) {
		slog.Warn("failed to restore session", "error", err)
	}

	return m
}

func (m model) Init() tea.Cmd {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.Init()
	case ViewTransactions:
		return m.txView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.SignedInMsg:
		m.currentView = ViewTransactions
		m.userName = msg.Name
		m.txView = view.NewTransactionsModel(m.engine, msg.Name)

		return m, m.txView.Init()

	case view.SignedOutMsg:
		m.engine.Unload()

		ctx, cancel := view.StoreCtx()
		if err := m.directory.SignOut(ctx); err != nil {
			slog.Warn("failed to clear session", "error", err)
		}
		cancel()

		m.currentView = ViewLogin
		m.userName = ""
		m.loginView = view.NewLoginModel(m.directory, m.engine)

		return m, m.loginView.Init()
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.txView.Update(msg)
		m.txView = newModel.(view.TransactionsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewTransactions:
		welcome := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Welcome, " + m.userName)
		return welcome + "\n" + m.txView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
