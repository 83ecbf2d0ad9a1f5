package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oakwood-commons/skinkit/internal/args"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/parse"
)

// DialogResolver makes a dialog known by name. Resolving a dialog that was
// never declared registers it, so that it is loaded later.
type DialogResolver interface {
	EnsureDialog(name string) error
}

// Deps are the collaborators builders may need.
type Deps struct {
	Dialogs DialogResolver
	// Element looks up an element of the dialog being parsed.
	Element func(name string) (*element.Element, error)
	// Text reads a text argument; it may continue on following lines. When
	// nil the remaining fields are joined with spaces.
	Text func(a *args.Args) (string, error)
}

type builder func(f *Factory, target *element.Element, a *args.Args) (Command, error)

var builders = map[string]builder{
	"SHOW":           buildShow,
	"HIDE":           buildHide,
	"TOGGLE":         buildToggle,
	"SCROLL":         buildScroll,
	"SCROLL_NEVER":   buildScrollNever,
	"SCROLL_LIST":    buildScrollList,
	"SCROLL_RESET":   buildScrollReset,
	"DIALOG_OPEN":    buildDialogOpen,
	"DIALOG_TOGGLE":  buildDialogToggle,
	"DIALOG_CLOSE":   buildDialogClose,
	"EXEC_SELECTION": buildExecSelection,
	"MOVE_SELECTION": buildMoveSelection,
	"SELECT":         buildSelect,
	"ACCOUNT_LOGIN":  buildAccountLogin,
	"EXECUTE":        buildExecute,
	"CLEAR":          buildClear,
	"ACTIVATE_INPUT": buildActivateInput,
	"OPTION_SET":     buildOptionSet,
	"QUIT":           buildQuit,
}

// Keywords returns every action keyword, sorted.
func Keywords() []string {
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Factory builds commands from action keywords.
type Factory struct {
	deps Deps
}

// NewFactory returns a factory using deps.
func NewFactory(deps Deps) *Factory {
	return &Factory{deps: deps}
}

// Build creates the command for keyword. target is nil when the skin line
// names "null". The caller checks that a is fully consumed.
func (f *Factory) Build(keyword string, target *element.Element, a *args.Args) (Command, error) {
	b, ok := builders[strings.ToUpper(keyword)]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownAction, keyword)
	}
	return b(f, target, a)
}

func noTarget(t *element.Element) error {
	if t != nil {
		return ErrTargetNotAllowed
	}
	return nil
}

// needTarget checks the capabilities one at a time so the error names the
// first one missing.
func needTarget(t *element.Element, caps element.Capability) error {
	if t == nil {
		return ErrTargetRequired
	}
	for c := element.Capability(1); c != 0 && c <= caps; c <<= 1 {
		if caps&c == 0 {
			continue
		}
		if err := element.Require(t, c); err != nil {
			return err
		}
	}
	return nil
}

func distance(a *args.Args) (int, error) {
	s, err := a.Get()
	if err != nil {
		return 0, err
	}
	d, err := parse.Int(s)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, ErrZeroDistance
	}
	return d, nil
}

func (f *Factory) text(a *args.Args) (string, error) {
	if f.deps.Text != nil {
		return f.deps.Text(a)
	}
	return strings.Join(a.Rest(), " "), nil
}

func (f *Factory) dialog(a *args.Args) (string, error) {
	name, err := a.Get()
	if err != nil {
		return "", err
	}
	if f.deps.Dialogs != nil {
		if err := f.deps.Dialogs.EnsureDialog(name); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (f *Factory) textInput(a *args.Args) (*element.Element, error) {
	name, err := a.Get()
	if err != nil {
		return nil, err
	}
	if f.deps.Element == nil {
		return nil, fmt.Errorf("cannot resolve element '%s'", name)
	}
	e, err := f.deps.Element(name)
	if err != nil {
		return nil, err
	}
	return e, element.Require(e, element.TextInput)
}

func buildShow(_ *Factory, t *element.Element, _ *args.Args) (Command, error) {
	if err := needTarget(t, 0); err != nil {
		return nil, err
	}
	return &Show{Target: t}, nil
}

func buildHide(_ *Factory, t *element.Element, _ *args.Args) (Command, error) {
	if err := needTarget(t, 0); err != nil {
		return nil, err
	}
	return &Hide{Target: t}, nil
}

func buildToggle(_ *Factory, t *element.Element, _ *args.Args) (Command, error) {
	if err := needTarget(t, 0); err != nil {
		return nil, err
	}
	return &Toggle{Target: t}, nil
}

func buildScroll(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.Scrollable); err != nil {
		return nil, err
	}
	d, err := distance(a)
	if err != nil {
		return nil, err
	}
	return &Scroll{Target: t, Distance: d}, nil
}

func buildScrollNever(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.Scrollable); err != nil {
		return nil, err
	}
	d, err := distance(a)
	if err != nil {
		return nil, err
	}
	return &ScrollNever{Target: t, Distance: d}, nil
}

func buildScrollList(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.HasItems|element.Scrollable); err != nil {
		return nil, err
	}
	d, err := distance(a)
	if err != nil {
		return nil, err
	}
	return &ScrollList{Target: t, Distance: d}, nil
}

func buildScrollReset(_ *Factory, t *element.Element, _ *args.Args) (Command, error) {
	if err := needTarget(t, element.Scrollable); err != nil {
		return nil, err
	}
	return &ScrollReset{Target: t}, nil
}

func buildDialogOpen(f *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	name, err := f.dialog(a)
	if err != nil {
		return nil, err
	}
	return &DialogOpen{Dialog: name}, nil
}

func buildDialogToggle(f *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	name, err := f.dialog(a)
	if err != nil {
		return nil, err
	}
	return &DialogToggle{Dialog: name}, nil
}

func buildDialogClose(f *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	name, err := f.dialog(a)
	if err != nil {
		return nil, err
	}
	return &DialogClose{Dialog: name}, nil
}

func buildExecSelection(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.HasItems); err != nil {
		return nil, err
	}
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	v, err := parse.Enum("verb", s, verbs)
	if err != nil {
		return nil, err
	}
	return &ExecuteSelection{Target: t, Verb: v}, nil
}

func buildMoveSelection(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.HasItems); err != nil {
		return nil, err
	}
	var d [2]int
	for i := range d {
		s, err := a.Get()
		if err != nil {
			return nil, err
		}
		if d[i], err = parse.Int(s); err != nil {
			return nil, err
		}
	}
	if d[0] == 0 && d[1] == 0 {
		return nil, fmt.Errorf("invalid zero selection distance")
	}
	return &MoveSelection{Target: t, Rows: d[0], Columns: d[1]}, nil
}

func buildSelect(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.Selectable); err != nil {
		return nil, err
	}
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	on, err := parse.Bool(s)
	if err != nil {
		return nil, err
	}
	return &Select{Target: t, Selected: on}, nil
}

func buildAccountLogin(f *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	account, err := f.textInput(a)
	if err != nil {
		return nil, err
	}
	password, err := f.textInput(a)
	if err != nil {
		return nil, err
	}
	return &AccountLogin{Account: account, Password: password}, nil
}

func buildExecute(f *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	cmd, err := f.text(a)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd) == "" {
		return nil, fmt.Errorf("%w: command", args.ErrMissingArgument)
	}
	return &GameCommand{Command: cmd}, nil
}

func buildClear(_ *Factory, t *element.Element, _ *args.Args) (Command, error) {
	if err := needTarget(t, element.TextInput); err != nil {
		return nil, err
	}
	return &Clear{Target: t}, nil
}

func buildActivateInput(f *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := needTarget(t, element.TextInput); err != nil {
		return nil, err
	}
	text, err := f.text(a)
	if err != nil {
		return nil, err
	}
	return &ActivateInput{Target: t, Text: text}, nil
}

func buildOptionSet(_ *Factory, t *element.Element, a *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	name, err := a.Get()
	if err != nil {
		return nil, err
	}
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	on, err := parse.Bool(s)
	if err != nil {
		return nil, err
	}
	return &OptionSet{Option: name, On: on}, nil
}

func buildQuit(_ *Factory, t *element.Element, _ *args.Args) (Command, error) {
	if err := noTarget(t); err != nil {
		return nil, err
	}
	return Quit{}, nil
}
