package view

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tsu-login/internal/app/login-form/store"
	"tsu-login/internal/model/authmodel"
)

// Controller 界面依赖的控制器能力（在消费端定义）
type Controller interface {
	State() store.State
	Submit(ctx context.Context, creds authmodel.Credentials) store.State
	OnFieldBlur(field authmodel.Field, creds authmodel.Credentials) store.State
	OnFieldChange(field authmodel.Field, creds authmodel.Credentials) store.State
}

type focusTarget int

const (
	focusEmail focusTarget = iota
	focusPassword
	focusRememberMe
	focusSubmit
	focusCount
)

// stateMsg Store 推送的新状态
type stateMsg struct {
	state store.State
}

// Model 登录表单的 bubbletea 模型
type Model struct {
	ctx    context.Context
	ctrl   Controller
	states <-chan store.State

	email    textinput.Model
	password textinput.Model

	focus        focusTarget
	rememberMe   bool
	showPassword bool
	state        store.State

	keys   KeyMap
	help   help.Model
	styles styles
}

// NewModel 创建界面模型。states 为 Store 的订阅通道，可为 nil
func NewModel(ctx context.Context, ctrl Controller, states <-chan store.State) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.Focus()

	password := textinput.New()
	password.Placeholder = "at least 8 characters"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		states:   states,
		email:    email,
		password: password,
		focus:    focusEmail,
		state:    ctrl.State(),
		keys:     DefaultKeyMap,
		help:     help.New(),
		styles:   newStyles(DefaultTheme),
	}
}

// Credentials 当前输入
func (m Model) Credentials() authmodel.Credentials {
	return authmodel.Credentials{
		Email:      m.email.Value(),
		Password:   m.password.Value(),
		RememberMe: m.rememberMe,
	}
}

// State 界面当前展示的状态
func (m Model) State() store.State {
	return m.state
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForState(m.states))
}

// listenForState 阻塞等待下一个状态
func listenForState(ch <-chan store.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{state: state}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = msg.state
		return m, listenForState(m.states)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)

	case key.Matches(msg, m.keys.ShowPassword):
		m.showPassword = !m.showPassword
		if m.showPassword {
			m.password.EchoMode = textinput.EchoNormal
		} else {
			m.password.EchoMode = textinput.EchoPassword
		}
		return m, nil

	case key.Matches(msg, m.keys.RememberMe):
		m.rememberMe = !m.rememberMe
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if m.focus == focusRememberMe && msg.String() == " " {
		m.rememberMe = !m.rememberMe
		return m, nil
	}

	field, ok := m.focusedField()
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.Credentials().Value(field)
	if field == authmodel.FieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	if m.Credentials().Value(field) != before {
		m.state = m.ctrl.OnFieldChange(field, m.Credentials())
	}
	return m, cmd
}

// moveFocus 离开输入框视为失焦
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	if field, ok := m.focusedField(); ok {
		m.state = m.ctrl.OnFieldBlur(field, m.Credentials())
	}

	m.focus = (m.focus + focusTarget(delta) + focusCount) % focusCount

	m.email.Blur()
	m.password.Blur()
	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		cmd = m.email.Focus()
	case focusPassword:
		cmd = m.password.Focus()
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if store.SubmitDisabled(m.state) {
		return m, nil
	}
	ctx, ctrl, creds := m.ctx, m.ctrl, m.Credentials()
	return m, func() tea.Msg {
		return stateMsg{state: ctrl.Submit(ctx, creds)}
	}
}

func (m Model) focusedField() (authmodel.Field, bool) {
	switch m.focus {
	case focusEmail:
		return authmodel.FieldEmail, true
	case focusPassword:
		return authmodel.FieldPassword, true
	default:
		return "", false
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Sign in"))
	b.WriteString("\n")

	b.WriteString(m.renderField("Email", focusEmail, m.email.View(), store.FieldError(m.state, authmodel.FieldEmail)))
	b.WriteString(m.renderField("Password", focusPassword, m.password.View(), store.FieldError(m.state, authmodel.FieldPassword)))

	check := "[ ]"
	if m.rememberMe {
		check = "[x]"
	}
	b.WriteString(m.labelStyle(focusRememberMe).Render(check + " Remember me"))
	b.WriteString("\n\n")

	b.WriteString(m.renderButton())
	b.WriteString("\n")

	if message, isError, ok := store.Banner(m.state); ok {
		style := m.styles.bannerOK
		if isError {
			style = m.styles.bannerError
		}
		b.WriteString("\n")
		b.WriteString(style.Render(message))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render(m.help.View(m.keys)))

	return m.styles.frame.Render(b.String())
}

func (m Model) renderField(label string, target focusTarget, input, fieldErr string) string {
	var b strings.Builder
	b.WriteString(m.labelStyle(target).Render(label))
	b.WriteString("\n")
	b.WriteString(input)
	b.WriteString("\n")
	if fieldErr != "" {
		b.WriteString(m.styles.fieldError.Render(fieldErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderButton() string {
	text := "Sign in"
	if m.state.Kind() == store.KindLoading {
		text = "Signing in..."
	}
	style := m.styles.button
	if store.SubmitDisabled(m.state) {
		style = m.styles.buttonOff
	}
	if m.focus == focusSubmit {
		style = style.Bold(true)
	}
	return style.Render(text)
}

func (m Model) labelStyle(target focusTarget) lipgloss.Style {
	if m.focus == target {
		return m.styles.focused
	}
	return m.styles.label
}
