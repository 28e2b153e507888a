package views

import (
	"github.com/rivo/tview"
)

// LoginView is the sign-in / register form.
type LoginView struct {
	*tview.Flex
	form       *tview.Form
	message    *tview.TextView
	onLogin    func(nickname, password string)
	onRegister func(nickname, avatarURL, password string)
}

// NewLoginView creates the login form.
func NewLoginView() *LoginView {
	lv := &LoginView{}

	lv.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	lv.form = tview.NewForm().
		AddInputField("Nickname", "", 32, nil, nil).
		AddPasswordField("Password", "", 32, '*', nil).
		AddInputField("Avatar URL (register only)", "", 48, nil, nil).
		AddButton("Login", func() {
			if lv.onLogin != nil {
				lv.onLogin(lv.nickname(), lv.password())
			}
		}).
		AddButton("Register", func() {
			if lv.onRegister != nil {
				lv.onRegister(lv.nickname(), lv.avatarURL(), lv.password())
			}
		})
	lv.form.SetBorder(true).SetTitle(" FriendSnap ")

	lv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(lv.form, 0, 3, true).
		AddItem(lv.message, 1, 0, false)

	return lv
}

func (lv *LoginView) nickname() string {
	return lv.form.GetFormItemByLabel("Nickname").(*tview.InputField).GetText()
}

func (lv *LoginView) password() string {
	return lv.form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
}

func (lv *LoginView) avatarURL() string {
	return lv.form.GetFormItemByLabel("Avatar URL (register only)").(*tview.InputField).GetText()
}

// SetOnLogin sets the login callback.
func (lv *LoginView) SetOnLogin(fn func(nickname, password string)) {
	lv.onLogin = fn
}

// SetOnRegister sets the register callback.
func (lv *LoginView) SetOnRegister(fn func(nickname, avatarURL, password string)) {
	lv.onRegister = fn
}

// ShowMessage displays a status or error line under the form.
func (lv *LoginView) ShowMessage(msg string) {
	lv.message.Clear()
	_, _ = lv.message.Write([]byte(msg))
}

// Form exposes the inner form for focus handling.
func (lv *LoginView) Form() *tview.Form {
	return lv.form
}
