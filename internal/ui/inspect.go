package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/skinkit/internal/ui/table"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	// chrome is the number of lines around the table: header, blank line,
	// table header and border, footer.
	chrome = 5
)

// Inspector browses the elements of a described skin, one dialog at a time.
type Inspector struct {
	doc    Document
	dialog int
	table  *table.Model[ElementDoc]

	width, height int
	noColor       bool
	filtering     bool
}

// NewInspector returns an inspector showing the first dialog of doc.
func NewInspector(doc Document, noColor bool) *Inspector {
	cols := []table.Column{
		{Title: "NAME", Width: 18},
		{Title: "KIND", Width: 12},
		{Title: "BOUNDS", Width: 16},
		{Title: "CAPS", Width: 24},
	}
	t := table.NewModel(cols,
		func(e ElementDoc) table.Row { return table.Row{e.Name, e.Kind, e.Bounds, e.Caps} },
		func(e ElementDoc) string { return e.Name + " " + e.Kind })
	t.SetNoColor(noColor)
	if !noColor {
		t.SetColors(lipgloss.Color("12"), lipgloss.Color("0"), lipgloss.Color("14"))
	}
	in := &Inspector{doc: doc, table: t, width: defaultWidth, height: defaultHeight, noColor: noColor}
	in.showDialog(0)
	in.resize()
	return in
}

func (in *Inspector) showDialog(i int) {
	n := len(in.doc.Dialogs)
	if n == 0 {
		return
	}
	in.dialog = (i%n + n) % n
	in.table.SetRows(in.doc.Dialogs[in.dialog].Elements)
	in.table.SetCursor(0)
}

func (in *Inspector) resize() {
	in.table.SetSize(in.width*3/5, max(in.height-chrome, 3))
}

// Dialog is the name of the dialog shown, or "".
func (in *Inspector) Dialog() string {
	if len(in.doc.Dialogs) == 0 {
		return ""
	}
	return in.doc.Dialogs[in.dialog].Name
}

// Selected is the element under the cursor, or nil.
func (in *Inspector) Selected() *ElementDoc {
	return in.table.SelectedRow()
}

func (in *Inspector) Init() tea.Cmd {
	return nil
}

func (in *Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		in.width, in.height = msg.Width, msg.Height
		in.resize()
		return in, nil
	case tea.KeyMsg:
		key := msg.String()
		if in.filtering {
			in.filterKey(key)
			return in, nil
		}
		switch key {
		case "q", "ctrl+c":
			return in, tea.Quit
		case "tab", "right":
			in.showDialog(in.dialog + 1)
			return in, nil
		case "shift+tab", "left":
			in.showDialog(in.dialog - 1)
			return in, nil
		case "/":
			in.filtering = true
			return in, nil
		case "esc":
			in.table.SetFilter("")
			return in, nil
		}
	}
	_, cmd := in.table.Update(msg)
	return in, cmd
}

func (in *Inspector) filterKey(key string) {
	f := in.table.Filter()
	switch key {
	case "enter":
		in.filtering = false
	case "esc":
		in.filtering = false
		in.table.SetFilter("")
	case "backspace":
		if f != "" {
			r := []rune(f)
			in.table.SetFilter(string(r[:len(r)-1]))
		}
	default:
		if runewidth.StringWidth(key) == 1 {
			in.table.SetFilter(f + key)
		}
	}
}

func (in *Inspector) style(s lipgloss.Style) lipgloss.Style {
	if in.noColor {
		return lipgloss.NewStyle()
	}
	return s
}

func (in *Inspector) header() string {
	title := in.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")))
	active := in.style(lipgloss.NewStyle().Reverse(true))
	tabs := make([]string, len(in.doc.Dialogs))
	for i, d := range in.doc.Dialogs {
		if i == in.dialog {
			tabs[i] = active.Render(" " + d.Name + " ")
		} else {
			tabs[i] = " " + d.Name + " "
		}
	}
	return title.Render("skin "+in.doc.Name) + "  " + strings.Join(tabs, "|")
}

// detail renders the attributes of the selected element.
func (in *Inspector) detail(width int) string {
	e := in.Selected()
	if e == nil {
		return "no element"
	}
	key := in.style(lipgloss.NewStyle().Foreground(lipgloss.Color("14")))
	lines := []string{
		key.Render("name") + "    " + e.Name,
		key.Render("kind") + "    " + e.Kind,
		key.Render("bounds") + "  " + e.Bounds,
		key.Render("visible") + " " + fmt.Sprint(e.Visible),
	}
	names := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		lines = append(lines, key.Render(k)+" "+fmt.Sprint(e.Attrs[k]))
	}
	if e.Tooltip != "" {
		lines = append(lines, "", e.Tooltip)
	}
	for i, l := range lines {
		lines[i] = runewidth.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}

func (in *Inspector) footer() string {
	dim := in.style(lipgloss.NewStyle().Foreground(lipgloss.Color("240")))
	if in.filtering {
		return "filter: " + in.table.Filter() + "▏"
	}
	help := "tab/shift+tab dialog  ↑/↓ element  / filter  q quit"
	if f := in.table.Filter(); f != "" {
		help = "filter: " + f + " (esc clears)  " + help
	}
	if d := in.doc.Dialogs; len(d) > 0 && d[in.dialog].Error != "" {
		help = "layout error: " + d[in.dialog].Error
	}
	return dim.Render(runewidth.Truncate(help, in.width, "…"))
}

// Render is the inspector screen as text.
func (in *Inspector) Render() string {
	detailW := max(in.width-in.width*3/5-2, 10)
	body := lipgloss.JoinHorizontal(lipgloss.Top, in.table.View(), "  ", in.detail(detailW))
	return strings.Join([]string{in.header(), "", body, in.footer()}, "\n")
}

func (in *Inspector) View() tea.View {
	v := tea.NewView(in.Render())
	v.AltScreen = true
	return v
}

// RunInspector runs the inspector until the user quits.
func RunInspector(doc Document, noColor bool, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewInspector(doc, noColor), opts...).Run()
	return err
}
