package ui

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/xlab/treeprint"
)

// TreeOptions controls RenderTree.
type TreeOptions struct {
	// Width truncates lines to this many columns; 0 disables truncation.
	Width   int
	NoColor bool
}

type treeStyles struct {
	heading lipgloss.Style
	name    lipgloss.Style
	kind    lipgloss.Style
	dim     lipgloss.Style
	err     lipgloss.Style
}

func newTreeStyles(noColor bool) treeStyles {
	if noColor {
		plain := lipgloss.NewStyle()
		return treeStyles{plain, plain, plain, plain, plain}
	}
	return treeStyles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		kind:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// treeIndent is the width treeprint spends per nesting level.
const treeIndent = 4

type treeBuilder struct {
	opts TreeOptions
	st   treeStyles
}

// fit truncates plain text for a node at the given depth. Styling is
// applied after fitting so escape codes never count towards the width.
func (b *treeBuilder) fit(text string, depth int) string {
	if b.opts.Width <= 0 {
		return text
	}
	room := b.opts.Width - depth*treeIndent
	if room < 8 {
		room = 8
	}
	return runewidth.Truncate(text, room, "…")
}

// RenderTree renders doc as a tree with element rows aligned in columns.
func RenderTree(doc Document, opts TreeOptions) string {
	b := &treeBuilder{opts: opts, st: newTreeStyles(opts.NoColor)}
	root := treeprint.NewWithRoot(b.st.heading.Render(b.fit(fmt.Sprintf("skin %s (%s..%s)", doc.Name, doc.MinResolution, doc.MaxResolution), 0)))
	for _, d := range doc.Dialogs {
		b.dialog(root.AddBranch(b.dialogLabel(d)), d)
	}
	if len(doc.CommandLists) > 0 {
		lists := root.AddBranch(b.st.heading.Render("command lists"))
		for _, l := range doc.CommandLists {
			br := lists.AddBranch(b.st.name.Render(l.Name) + " " + b.st.dim.Render("("+l.Type+")"))
			for _, c := range l.Commands {
				br.AddNode(b.fit(c, 3))
			}
		}
	}
	b.keys(root, doc.Keys, 1)
	if len(doc.Events) > 0 {
		events := root.AddBranch(b.st.heading.Render("events"))
		names := make([]string, 0, len(doc.Events))
		for ev := range doc.Events {
			names = append(names, ev)
		}
		sort.Strings(names)
		for _, ev := range names {
			events.AddNode(b.st.name.Render(ev) + " " + doc.Events[ev])
		}
	}
	if len(doc.Options) > 0 {
		options := root.AddBranch(b.st.heading.Render("options"))
		for _, o := range doc.Options {
			label := b.st.name.Render(o.Name)
			if o.Doc != "" {
				label += " " + b.st.dim.Render(b.fit(firstLine(o.Doc), 2))
			}
			options.AddNode(label)
		}
	}
	return root.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func (b *treeBuilder) dialogLabel(d DialogDoc) string {
	var flags []string
	if d.Modal {
		flags = append(flags, "modal")
	}
	if d.AutoSize {
		flags = append(flags, "auto-size")
	}
	if len(d.Hidden) > 0 {
		flags = append(flags, "hidden in "+strings.Join(d.Hidden, ","))
	}
	label := b.st.heading.Render("dialog " + d.Name)
	if d.Title != "" {
		label += " " + fmt.Sprintf("%q", d.Title)
	}
	if d.Bounds != "" {
		label += " " + b.st.dim.Render(d.Bounds)
	}
	if len(flags) > 0 {
		label += " " + b.st.dim.Render("["+strings.Join(flags, ", ")+"]")
	}
	return label
}

func (b *treeBuilder) dialog(br treeprint.Tree, d DialogDoc) {
	if d.Error != "" {
		br.AddNode(b.st.err.Render(b.fit("error: "+d.Error, 2)))
	}
	if len(d.Elements) > 0 {
		b.elements(br.AddBranch(b.st.heading.Render("elements")), d.Elements)
	}
	if d.Layout != nil {
		b.layout(br.AddBranch(b.st.heading.Render("layout")), d.Layout, 3)
	}
	b.keys(br, d.Keys, 2)
}

// elements adds one aligned row per element: name, kind, bounds, caps.
func (b *treeBuilder) elements(br treeprint.Tree, elems []ElementDoc) {
	nameW, kindW, boundsW := 0, 0, 0
	for _, e := range elems {
		nameW = max(nameW, runewidth.StringWidth(e.Name))
		kindW = max(kindW, runewidth.StringWidth(e.Kind))
		boundsW = max(boundsW, runewidth.StringWidth(e.Bounds))
	}
	for _, e := range elems {
		extra := e.Caps
		if e.Ignored {
			extra += " ignored"
		} else if !e.Visible {
			extra += " hidden"
		}
		row := b.fit(strings.Join([]string{
			runewidth.FillRight(e.Name, nameW),
			runewidth.FillRight(e.Kind, kindW),
			runewidth.FillRight(e.Bounds, boundsW),
			extra,
		}, "  "), 3)
		br.AddNode(b.styleRow(row, nameW, kindW))
	}
}

// styleRow colors the name and kind columns of a fitted row.
func (b *treeBuilder) styleRow(row string, nameW, kindW int) string {
	name := runewidth.Truncate(row, nameW, "")
	rest := strings.TrimPrefix(row, name)
	if len(rest) < 2 {
		return b.st.name.Render(name) + rest
	}
	kind := runewidth.Truncate(rest[2:], kindW, "")
	tail := strings.TrimPrefix(rest[2:], kind)
	return b.st.name.Render(name) + "  " + b.st.kind.Render(kind) + b.st.dim.Render(tail)
}

func (b *treeBuilder) layout(br treeprint.Tree, node any, depth int) {
	switch v := node.(type) {
	case string:
		br.AddNode(b.fit(v, depth))
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sub := br.AddBranch(b.st.kind.Render(k))
			b.layout(sub, v[k], depth+1)
		}
	case []any:
		for _, c := range v {
			b.layout(br, c, depth)
		}
	}
}

func (b *treeBuilder) keys(br treeprint.Tree, keys []KeyDoc, depth int) {
	if len(keys) == 0 {
		return
	}
	kb := br.AddBranch(b.st.heading.Render("keys"))
	w := 0
	for _, k := range keys {
		w = max(w, runewidth.StringWidth(k.Key))
	}
	for _, k := range keys {
		kb.AddNode(b.st.name.Render(runewidth.FillRight(k.Key, w)) + "  " + b.fit(k.CommandList, depth+1))
	}
}
