package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"pocketledger/internal/ledger"
	"pocketledger/internal/user"
)

type LoginModel struct {
	CommonModel
	directory *user.Directory
	engine    *ledger.Service

	registering bool
	form        *huh.Form
	errMsg      string

	formUsername string
	formPassword string
	formName     string
}

func NewLoginModel(directory *user.Directory, engine *ledger.Service) LoginModel {
	m := LoginModel{directory: directory, engine: engine}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string {
	if m.registering {
		return "Create Account"
	}

	return "Sign In"
}

func (m LoginModel) ShortHelp() string {
	return "Enter: submit | Ctrl+T: toggle sign in / sign up | Ctrl+C: quit"
}

func (m *LoginModel) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Key("username").
			Title("Username").
			Value(&m.formUsername),

		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.formPassword),
	}

	if m.registering {
		fields = append(fields,
			huh.NewInput().
				Key("name").
				Title("Full Name").
				Value(&m.formName),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(40).
		WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg {
			return SignedInMsg{Username: msg.user.Username, Name: msg.user.Name}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.registering = !m.registering
			m.errMsg = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.authCmd()
}

func (m LoginModel) View() string {
	subtitle := "Sign in to your account"
	toggle := "Ctrl+T: don't have an account? Sign up"

	if m.registering {
		subtitle = "Create a new account"
		toggle = "Ctrl+T: already have an account? Sign in"
	}

	content := fmt.Sprintf("Pocket Ledger\n%s\n\n%s",
		lipgloss.NewStyle().Faint(true).Render(subtitle),
		m.form.View(),
	)

	if m.errMsg != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errMsg)
	}

	content += "\n" + lipgloss.NewStyle().Faint(true).Render(toggle)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

type authResultMsg struct {
	user *user.User
	err  error
}

func (m LoginModel) authCmd() tea.Cmd {
	registering := m.registering
	username := m.formUsername
	password := m.formPassword
	name := m.formName

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var (
			u   *user.User
			err error
		)

		if registering {
			u, err = m.directory.Register(ctx, username, password, name)
		} else {
			u, err = m.directory.Authenticate(ctx, username, password)
		}

		if err != nil {
			return authResultMsg{err: err}
		}

		if err := m.engine.Load(ctx, u.Username); err != nil {
			return authResultMsg{err: err}
		}

		return authResultMsg{user: u}
	}
}
