package action

import (
	"fmt"

	"github.com/oakwood-commons/skinkit/internal/element"
)

// Show makes an element visible.
type Show struct{ Target *element.Element }

func (c *Show) CanExecute(Env) bool { return true }
func (c *Show) Execute(Env) error {
	c.Target.Visible = true
	return nil
}
func (c *Show) String() string { return "SHOW " + c.Target.Name }

// Hide makes an element invisible.
type Hide struct{ Target *element.Element }

func (c *Hide) CanExecute(Env) bool { return true }
func (c *Hide) Execute(Env) error {
	c.Target.Visible = false
	return nil
}
func (c *Hide) String() string { return "HIDE " + c.Target.Name }

// Toggle flips an element's visibility.
type Toggle struct{ Target *element.Element }

func (c *Toggle) CanExecute(Env) bool { return true }
func (c *Toggle) Execute(Env) error {
	c.Target.Visible = !c.Target.Visible
	return nil
}
func (c *Toggle) String() string { return "TOGGLE " + c.Target.Name }

// Scroll moves a scrollable element by Distance.
type Scroll struct {
	Target   *element.Element
	Distance int
}

func (c *Scroll) CanExecute(Env) bool { return c.Target.CanScroll(c.Distance) }

func (c *Scroll) Execute(Env) error {
	c.Target.ScrollBy(c.Distance)
	return nil
}

func (c *Scroll) String() string { return fmt.Sprintf("SCROLL %s %d", c.Target.Name, c.Distance) }

// ScrollNever does nothing. It can execute only while the target cannot
// scroll by Distance, which makes it a guard in AND lists.
type ScrollNever struct {
	Target   *element.Element
	Distance int
}

func (c *ScrollNever) CanExecute(Env) bool { return !c.Target.CanScroll(c.Distance) }
func (c *ScrollNever) Execute(Env) error { return nil }

func (c *ScrollNever) String() string {
	return fmt.Sprintf("SCROLL_NEVER %s %d", c.Target.Name, c.Distance)
}

// ScrollList scrolls an item list by Distance rows and keeps the selection
// in view.
type ScrollList struct {
	Target   *element.Element
	Distance int
}

func (c *ScrollList) CanExecute(Env) bool { return c.Target.CanScroll(c.Distance) }

func (c *ScrollList) Execute(Env) error {
	if !c.Target.ScrollBy(c.Distance) {
		return nil
	}
	cols := columns(c.Target)
	c.Target.Selection = clampSelection(c.Target, c.Target.Selection+c.Distance*cols)
	return nil
}

func (c *ScrollList) String() string {
	return fmt.Sprintf("SCROLL_LIST %s %d", c.Target.Name, c.Distance)
}

// ScrollReset returns a scrollable element to its start.
type ScrollReset struct{ Target *element.Element }

func (c *ScrollReset) CanExecute(Env) bool { return true }

func (c *ScrollReset) Execute(Env) error {
	c.Target.Scroll.Pos = 0
	return nil
}

func (c *ScrollReset) String() string { return "SCROLL_RESET " + c.Target.Name }

// DialogOpen opens a dialog.
type DialogOpen struct{ Dialog string }

func (c *DialogOpen) CanExecute(Env) bool { return true }
func (c *DialogOpen) Execute(env Env) error {
	env.OpenDialog(c.Dialog)
	return nil
}
func (c *DialogOpen) String() string { return "DIALOG_OPEN " + c.Dialog }

// DialogToggle opens a closed dialog and closes an open one.
type DialogToggle struct{ Dialog string }

func (c *DialogToggle) CanExecute(Env) bool { return true }
func (c *DialogToggle) Execute(env Env) error {
	if env.IsDialogOpen(c.Dialog) {
		env.CloseDialog(c.Dialog)
	} else {
		env.OpenDialog(c.Dialog)
	}
	return nil
}
func (c *DialogToggle) String() string { return "DIALOG_TOGGLE " + c.Dialog }

// DialogClose closes a dialog.
type DialogClose struct{ Dialog string }

func (c *DialogClose) CanExecute(Env) bool { return true }
func (c *DialogClose) Execute(env Env) error {
	env.CloseDialog(c.Dialog)
	return nil
}
func (c *DialogClose) String() string { return "DIALOG_CLOSE " + c.Dialog }

// Verb is the game command applied to a selected item.
type Verb string

const (
	VerbApply   Verb = "apply"
	VerbDrop    Verb = "drop"
	VerbExamine Verb = "examine"
	VerbLock    Verb = "lock"
	VerbUnlock  Verb = "unlock"
	VerbMark    Verb = "mark"
)

var verbs = map[string]Verb{
	"APPLY": VerbApply, "DROP": VerbDrop, "EXAMINE": VerbExamine,
	"LOCK": VerbLock, "UNLOCK": VerbUnlock, "MARK": VerbMark,
}

// ExecuteSelection sends Verb for the selected item of an item list.
type ExecuteSelection struct {
	Target *element.Element
	Verb   Verb
}

func (c *ExecuteSelection) CanExecute(Env) bool {
	_, ok := selectedItem(c.Target)
	return ok
}

func (c *ExecuteSelection) Execute(env Env) error {
	tag, ok := selectedItem(c.Target)
	if !ok {
		return nil
	}
	return env.SendCommand(fmt.Sprintf("%s %d", c.Verb, tag))
}

func (c *ExecuteSelection) String() string {
	return fmt.Sprintf("EXEC_SELECTION %s %s", c.Target.Name, c.Verb)
}

// MoveSelection moves the selection of an item list by rows and columns.
type MoveSelection struct {
	Target        *element.Element
	Rows, Columns int
}

func (c *MoveSelection) delta() int {
	return c.Rows*columns(c.Target) + c.Columns
}

func (c *MoveSelection) CanExecute(Env) bool {
	n := c.Target.Selection + c.delta()
	return n >= 0 && n < itemCount(c.Target)
}

func (c *MoveSelection) Execute(Env) error {
	c.Target.Selection = clampSelection(c.Target, c.Target.Selection+c.delta())
	return nil
}

func (c *MoveSelection) String() string {
	return fmt.Sprintf("MOVE_SELECTION %s %d %d", c.Target.Name, c.Rows, c.Columns)
}

// Select sets the selected state of a selectable element. A checkbox also
// updates the option it mirrors.
type Select struct {
	Target   *element.Element
	Selected bool
}

func (c *Select) CanExecute(Env) bool { return true }

func (c *Select) Execute(env Env) error {
	c.Target.Selected = c.Selected
	if cb, ok := c.Target.Widget.(*element.Checkbox); ok && cb.Option != "" {
		return env.SetOption(cb.Option, c.Selected)
	}
	return nil
}

func (c *Select) String() string {
	return fmt.Sprintf("SELECT %s %t", c.Target.Name, c.Selected)
}

// AccountLogin logs in with the contents of two text inputs.
type AccountLogin struct {
	Account, Password *element.Element
}

func (c *AccountLogin) CanExecute(Env) bool {
	return c.Account.Text != "" && c.Password.Text != ""
}

func (c *AccountLogin) Execute(env Env) error {
	return env.Login(c.Account.Text, c.Password.Text)
}

func (c *AccountLogin) String() string {
	return fmt.Sprintf("ACCOUNT_LOGIN %s %s", c.Account.Name, c.Password.Name)
}

// GameCommand sends a command to the game server.
type GameCommand struct{ Command string }

func (c *GameCommand) CanExecute(Env) bool { return true }
func (c *GameCommand) Execute(env Env) error { return env.SendCommand(c.Command) }
func (c *GameCommand) String() string { return "EXECUTE " + c.Command }

// Clear empties a text input.
type Clear struct{ Target *element.Element }

func (c *Clear) CanExecute(Env) bool { return true }
func (c *Clear) Execute(Env) error {
	c.Target.Text = ""
	return nil
}
func (c *Clear) String() string { return "CLEAR " + c.Target.Name }

// ActivateInput focuses a text input and replaces its content.
type ActivateInput struct {
	Target *element.Element
	Text   string
}

func (c *ActivateInput) CanExecute(Env) bool { return true }

func (c *ActivateInput) Execute(Env) error {
	c.Target.Active = true
	c.Target.Text = c.Text
	return nil
}

func (c *ActivateInput) String() string { return "ACTIVATE_INPUT " + c.Target.Name }

// OptionSet sets a client option.
type OptionSet struct {
	Option string
	On     bool
}

func (c *OptionSet) CanExecute(env Env) bool { return env.Option(c.Option) != c.On }

func (c *OptionSet) Execute(env Env) error {
	return env.SetOption(c.Option, c.On)
}

func (c *OptionSet) String() string { return fmt.Sprintf("OPTION_SET %s %t", c.Option, c.On) }

// Quit ends the client.
type Quit struct{}

func (Quit) CanExecute(Env) bool { return true }
func (Quit) Execute(env Env) error {
	env.Quit()
	return nil
}
func (Quit) String() string { return "QUIT" }

func itemList(e *element.Element) *element.ItemList {
	l, _ := e.Widget.(*element.ItemList)
	return l
}

func itemCount(e *element.Element) int {
	if l := itemList(e); l != nil {
		return len(l.Items)
	}
	return 0
}

func columns(e *element.Element) int {
	if l := itemList(e); l != nil {
		return l.Columns(e.Bounds)
	}
	return 1
}

func clampSelection(e *element.Element, n int) int {
	if n >= itemCount(e) {
		n = itemCount(e) - 1
	}
	return max(n, 0)
}

func selectedItem(e *element.Element) (int, bool) {
	l := itemList(e)
	if l == nil || e.Selection < 0 || e.Selection >= len(l.Items) {
		return 0, false
	}
	return l.Items[e.Selection].Tag, true
}
