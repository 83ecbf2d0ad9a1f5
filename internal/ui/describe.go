// Package ui renders loaded skins for people: a styled tree for the dump
// command, yaml/json/toml documents, and the interactive inspector.
package ui

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/oakwood-commons/skinkit/internal/action"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/layout"
	"github.com/oakwood-commons/skinkit/internal/skin"
)

// Document is the serialisable description of a loaded skin.
type Document struct {
	Name          string            `yaml:"name" json:"name" toml:"name"`
	MinResolution string            `yaml:"min_resolution" json:"min_resolution" toml:"min_resolution"`
	MaxResolution string            `yaml:"max_resolution" json:"max_resolution" toml:"max_resolution"`
	Dialogs       []DialogDoc       `yaml:"dialogs" json:"dialogs" toml:"dialogs"`
	CommandLists  []CommandListDoc  `yaml:"command_lists,omitempty" json:"command_lists,omitempty" toml:"command_lists,omitempty"`
	Keys          []KeyDoc          `yaml:"keys,omitempty" json:"keys,omitempty" toml:"keys,omitempty"`
	Events        map[string]string `yaml:"events,omitempty" json:"events,omitempty" toml:"events,omitempty"`
	Options       []OptionDoc       `yaml:"options,omitempty" json:"options,omitempty" toml:"options,omitempty"`
}

// DialogDoc describes one dialog after layout.
type DialogDoc struct {
	Name     string       `yaml:"name" json:"name" toml:"name"`
	Title    string       `yaml:"title,omitempty" json:"title,omitempty" toml:"title,omitempty"`
	Modal    bool         `yaml:"modal,omitempty" json:"modal,omitempty" toml:"modal,omitempty"`
	AutoSize bool         `yaml:"auto_size,omitempty" json:"auto_size,omitempty" toml:"auto_size,omitempty"`
	Hidden   []string     `yaml:"hidden_in,omitempty" json:"hidden_in,omitempty" toml:"hidden_in,omitempty"`
	Bounds   string       `yaml:"bounds,omitempty" json:"bounds,omitempty" toml:"bounds,omitempty"`
	Error    string       `yaml:"error,omitempty" json:"error,omitempty" toml:"error,omitempty"`
	Elements []ElementDoc `yaml:"elements" json:"elements" toml:"elements"`
	Layout   any          `yaml:"layout,omitempty" json:"layout,omitempty" toml:"layout,omitempty"`
	Keys     []KeyDoc     `yaml:"keys,omitempty" json:"keys,omitempty" toml:"keys,omitempty"`
}

// ElementDoc describes one element.
type ElementDoc struct {
	Name    string         `yaml:"name" json:"name" toml:"name"`
	Kind    string         `yaml:"kind" json:"kind" toml:"kind"`
	Caps    string         `yaml:"caps" json:"caps" toml:"caps"`
	Bounds  string         `yaml:"bounds" json:"bounds" toml:"bounds"`
	Visible bool           `yaml:"visible" json:"visible" toml:"visible"`
	Ignored bool           `yaml:"ignored,omitempty" json:"ignored,omitempty" toml:"ignored,omitempty"`
	Tooltip string         `yaml:"tooltip,omitempty" json:"tooltip,omitempty" toml:"tooltip,omitempty"`
	Attrs   map[string]any `yaml:"attrs,omitempty" json:"attrs,omitempty" toml:"attrs,omitempty"`
}

// CommandListDoc describes a command list.
type CommandListDoc struct {
	Name     string   `yaml:"name" json:"name" toml:"name"`
	Type     string   `yaml:"type" json:"type" toml:"type"`
	Commands []string `yaml:"commands" json:"commands" toml:"commands"`
}

// KeyDoc is one key binding.
type KeyDoc struct {
	Key         string `yaml:"key" json:"key" toml:"key"`
	CommandList string `yaml:"command_list" json:"command_list" toml:"command_list"`
}

// OptionDoc describes a skin option.
type OptionDoc struct {
	Name string `yaml:"name" json:"name" toml:"name"`
	On   string `yaml:"on,omitempty" json:"on,omitempty" toml:"on,omitempty"`
	Off  string `yaml:"off,omitempty" json:"off,omitempty" toml:"off,omitempty"`
	Doc  string `yaml:"doc,omitempty" json:"doc,omitempty" toml:"doc,omitempty"`
}

func size(p image.Point) string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}

func rect(r image.Rectangle) string {
	return fmt.Sprintf("%d,%d %dx%d", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// Describe lays out every dialog named in dialogs (all when empty) in an
// area of res pixels and describes the result. Layout failures are
// recorded per dialog rather than returned.
func Describe(s *skin.Skin, res image.Point, dialogs ...string) (Document, error) {
	doc := Document{
		Name:          s.Name,
		MinResolution: size(s.MinResolution),
		MaxResolution: size(s.MaxResolution),
	}
	selected := s.Dialogs()
	if len(dialogs) > 0 {
		selected = selected[:0:0]
		for _, name := range dialogs {
			d, err := s.Dialog(name)
			if err != nil {
				return Document{}, err
			}
			selected = append(selected, d)
		}
	}
	for _, d := range selected {
		doc.Dialogs = append(doc.Dialogs, describeDialog(s, d, res))
	}
	for _, l := range s.CommandLists() {
		doc.CommandLists = append(doc.CommandLists, describeList(l))
	}
	doc.Keys = describeKeys(s.KeyBindings())
	for _, ev := range []skin.Event{skin.EventInit, skin.EventConnect, skin.EventLogin, skin.EventDeath, skin.EventMapScroll} {
		lists := s.Events(ev)
		if len(lists) == 0 {
			continue
		}
		if doc.Events == nil {
			doc.Events = map[string]string{}
		}
		names := make([]string, len(lists))
		for i, l := range lists {
			names[i] = l.Name
		}
		doc.Events[string(ev)] = strings.Join(names, ", ")
	}
	for _, o := range s.Options() {
		doc.Options = append(doc.Options, OptionDoc{Name: o.Name, On: listName(o.On), Off: listName(o.Off), Doc: o.Doc.Plain})
	}
	return doc, nil
}

func listName(l *action.CommandList) string {
	if l == nil {
		return ""
	}
	return l.Name
}

func describeDialog(s *skin.Skin, d *skin.Dialog, res image.Point) DialogDoc {
	dd := DialogDoc{Name: d.Name, Title: d.Title, Modal: d.Modal, AutoSize: d.AutoSize, Keys: describeKeys(d.Keys)}
	for st, hidden := range d.Hidden {
		if hidden {
			dd.Hidden = append(dd.Hidden, string(st))
		}
	}
	sort.Strings(dd.Hidden)
	if d.Root != nil {
		dd.Layout = layout.Describe(d.Root)
		if r, err := s.Layout(d.Name, res.X, res.Y); err != nil {
			dd.Error = err.Error()
		} else {
			dd.Bounds = rect(r)
		}
	}
	for _, e := range d.Elements.Values() {
		dd.Elements = append(dd.Elements, describeElement(e))
	}
	return dd
}

func describeElement(e *element.Element) ElementDoc {
	ed := ElementDoc{
		Name:    e.Name,
		Kind:    string(e.Kind),
		Caps:    e.Caps.String(),
		Bounds:  rect(e.Bounds),
		Visible: e.Visible,
		Ignored: e.Ignored,
	}
	if e.Tooltip != nil {
		ed.Tooltip = e.Tooltip.Text
	}
	if e.Widget != nil {
		ed.Attrs = e.Widget.Describe()
	}
	return ed
}

func describeList(l *action.CommandList) CommandListDoc {
	cd := CommandListDoc{Name: l.Name, Type: l.Type.String(), Commands: []string{}}
	for _, c := range l.Commands() {
		cd.Commands = append(cd.Commands, c.String())
	}
	return cd
}

func describeKeys(kb *skin.KeyBindings) []KeyDoc {
	var out []KeyDoc
	for _, k := range kb.Keys() {
		l, _ := kb.Lookup(k)
		out = append(out, KeyDoc{Key: k.String(), CommandList: l.Name})
	}
	return out
}
