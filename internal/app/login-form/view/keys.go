package view

import "github.com/charmbracelet/bubbles/key"

// KeyMap 登录界面按键
type KeyMap struct {
	Next         key.Binding
	Prev         key.Binding
	Submit       key.Binding
	ShowPassword key.Binding
	RememberMe   key.Binding
	Quit         key.Binding
}

// DefaultKeyMap 默认按键
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "prev"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "sign in"),
	),
	ShowPassword: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "show password"),
	),
	RememberMe: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "remember me"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp 底部帮助栏
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.ShowPassword, k.RememberMe, k.Quit}
}

// FullHelp 展开的帮助
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Submit, k.ShowPassword, k.RememberMe},
		{k.Quit},
	}
}
