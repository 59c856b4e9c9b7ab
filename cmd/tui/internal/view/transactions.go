package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"pocketledger/internal/ledger"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateForm
)

type TransactionsModel struct {
	CommonModel
	engine *ledger.Service

	userName string

	state   txState
	table   table.Model
	form    *huh.Form
	result  *ledger.ListResult
	summary *ledger.Summary

	// Filter cycling
	kindFilterIdx     int
	categoryFilterIdx int

	filter    ledger.Filter
	editingID string
	loading   bool
	status    string

	// Form field bindings
	formDesc     string
	formAmount   string
	formDate     string
	formKind     string
	formCategory string
}

func NewTransactionsModel(engine *ledger.Service, userName string) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		engine:   engine,
		userName: userName,
		table:    t,
		filter:   ledger.Filter{},
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "a: add | e: edit | x: delete | k: type filter | c: category filter | r: refresh | Esc: sign out"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.result = msg.result
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case saveTxMsg:
		if msg.err != nil {
			m.status = saveErrorStatus(msg.err)

			var validationErrs ledger.ValidationErrors
			if errors.As(msg.err, &validationErrs) {
				// Leave the form up so the input can be corrected.
				m.form = m.buildForm()
				return m, m.form.Init()
			}

			m.state = txStateBrowse
			m.form = nil
			m.table.Focus()

			return m, m.loadCmd()
		}

		if m.editingID != "" {
			m.status = "Transaction updated successfully!"
		} else if m.formKind == string(ledger.KindIncome) {
			m.status = "Income added successfully!"
		} else {
			m.status = "Expense added successfully!"
		}

		m.state = txStateBrowse
		m.form = nil
		m.editingID = ""
		m.table.Focus()

		return m, m.loadCmd()

	case deleteTxMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		case msg.removed:
			m.status = "Transaction deleted successfully!"
			if m.editingID == msg.id {
				m.editingID = ""
			}
		default:
			m.status = "Transaction already gone."
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		// Leave room for the header, summary cards, and help line, but
		// never collapse the table on short terminals.
		height := msg.Height - 14
		if height < 1 {
			height = 1
		}
		m.table.SetHeight(height)
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, m.signOutCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterFormMode(nil)
		case "e":
			if tx := m.selectedTx(); tx != nil {
				return m.enterFormMode(tx)
			}

			return m, nil
		case "x":
			if tx := m.selectedTx(); tx != nil {
				return m, m.deleteCmd(tx.ID)
			}

			return m, nil
		case "k":
			m.kindFilterIdx = (m.kindFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadCmd()
		case "c":
			m.categoryFilterIdx = (m.categoryFilterIdx + 1) % (len(ledger.Categories) + 1)
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) selectedTx() *ledger.Transaction {
	if m.result == nil {
		return nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.result.Transactions) {
		return nil
	}

	return &m.result.Transactions[idx]
}

func (m TransactionsModel) enterFormMode(tx *ledger.Transaction) (tea.Model, tea.Cmd) {
	if tx != nil {
		m.editingID = tx.ID
		m.formDesc = tx.Description
		m.formAmount = tx.Amount.String()
		m.formDate = tx.Date.String()
		m.formKind = string(tx.Kind)
		m.formCategory = tx.Category
	} else {
		m.editingID = ""
		m.formDesc = ""
		m.formAmount = ""
		m.formDate = Today()
		m.formKind = string(ledger.KindExpense)
		m.formCategory = ""
	}

	m.form = m.buildForm()
	m.state = txStateForm
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m *TransactionsModel) buildForm() *huh.Form {
	kindOptions := []huh.Option[string]{
		huh.NewOption("Expense", string(ledger.KindExpense)),
		huh.NewOption("Income", string(ledger.KindIncome)),
	}

	categoryOptions := make([]huh.Option[string], len(ledger.Categories))
	for i, c := range ledger.Categories {
		categoryOptions[i] = huh.NewOption(c, c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.formAmount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(kindOptions...).
				Value(&m.formKind),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.formCategory),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
			m.form = nil
			m.editingID = ""
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	kindLabels := []string{"All", "Income", "Expense"}
	categoryLabel := "All"

	if m.categoryFilterIdx > 0 {
		categoryLabel = ledger.Categories[m.categoryFilterIdx-1]
	}

	counts := ""
	if m.result != nil {
		counts = fmt.Sprintf("%d of %d transactions", m.result.Matched, m.result.Total)
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.summaryView(),
		fmt.Sprintf(
			"Filter: [k] Type: %s | [c] Category: %s    %s",
			activeStyle(kindLabels[m.kindFilterIdx]),
			activeStyle(categoryLabel),
			lipgloss.NewStyle().Faint(true).Render(counts),
		),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == txStateForm && m.form != nil {
		title := "Add Transaction"
		if m.editingID != "" {
			title = "Edit Transaction"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m TransactionsModel) summaryView() string {
	if m.summary == nil {
		return ""
	}

	balanceColor := lipgloss.Color("42")
	if m.summary.Balance.IsNegative() {
		balanceColor = lipgloss.Color("196")
	}

	card := func(label, value string, color lipgloss.Color) string {
		return lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Faint(true).Render(label),
				lipgloss.NewStyle().Foreground(color).Render(value),
			))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Balance", FormatAmount(m.summary.Balance), balanceColor),
		card("Income", FormatAmount(m.summary.TotalIncome), lipgloss.Color("42")),
		card("Expenses", FormatAmount(m.summary.TotalExpenses), lipgloss.Color("196")),
		card("Transactions", fmt.Sprintf("%d", m.summary.TransactionCount), lipgloss.Color("229")),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *TransactionsModel) applyFilter() {
	switch m.kindFilterIdx {
	case 1:
		k := ledger.KindIncome
		m.filter.Kind = &k
	case 2:
		k := ledger.KindExpense
		m.filter.Kind = &k
	default:
		m.filter.Kind = nil
	}

	if m.categoryFilterIdx > 0 {
		category := ledger.Categories[m.categoryFilterIdx-1]
		m.filter.Category = &category
	} else {
		m.filter.Category = nil
	}
}

func (m *TransactionsModel) refreshTable() {
	if m.result == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.result.Transactions))

	for _, tx := range m.result.Transactions {
		amount := FormatAmount(tx.Amount)
		if tx.Kind == ledger.KindIncome {
			amount = "+" + amount
		} else {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Kind),
			amount,
			tx.Category,
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

func saveErrorStatus(err error) string {
	var validationErrs ledger.ValidationErrors
	if errors.As(err, &validationErrs) {
		msgs := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			msgs[i] = fieldErrorText(fe)
		}

		return strings.Join(msgs, " ")
	}

	var persistenceErr *ledger.PersistenceError
	if errors.As(err, &persistenceErr) {
		return "Could not save, please try again."
	}

	return fmt.Sprintf("Error saving: %v", err)
}

func fieldErrorText(fe ledger.FieldError) string {
	switch fe.Reason {
	case ledger.ReasonMissingDescription:
		return "Description is required."
	case ledger.ReasonInvalidAmount:
		return "Please enter a valid amount greater than 0."
	case ledger.ReasonMissingDate:
		return "Date is required."
	case ledger.ReasonMissingCategory:
		return "Category is required."
	case ledger.ReasonInvalidKind:
		return "Type is required."
	}

	return fe.Error()
}

// Messages

type loadLedgerMsg struct {
	result  *ledger.ListResult
	summary *ledger.Summary
	err     error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		result, err := m.engine.List(ctx, filter)
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		summary, err := m.engine.Summarize(ctx)
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		return loadLedgerMsg{result: result, summary: summary}
	}
}

type saveTxMsg struct {
	err error
}

func (m TransactionsModel) saveCmd() tea.Cmd {
	editingID := m.editingID
	input := ledger.Input{
		Description: m.formDesc,
		Amount:      m.formAmount,
		Date:        m.formDate,
		Kind:        m.formKind,
		Category:    m.formCategory,
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var err error
		if editingID != "" {
			_, err = m.engine.Update(ctx, editingID, input)
		} else {
			_, err = m.engine.Create(ctx, input)
		}

		return saveTxMsg{err: err}
	}
}

type deleteTxMsg struct {
	id      string
	removed bool
	err     error
}

func (m TransactionsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		removed, err := m.engine.Delete(ctx, id)

		return deleteTxMsg{id: id, removed: removed, err: err}
	}
}

func (m TransactionsModel) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		return SignedOutMsg{}
	}
}
