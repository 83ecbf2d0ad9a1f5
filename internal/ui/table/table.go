// Package table wraps the bubbles table with typed rows and filtering.
package table

import (
	"fmt"
	"image/color"
	"strings"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type Column = bubtable.Column
type Row = bubtable.Row

// Model is a table of V values. toRow renders a value into cells and
// keyFunc yields the text the filter matches against.
type Model[V any] struct {
	table    bubtable.Model
	styles   bubtable.Styles
	rows     []V
	filtered []V
	filter   string

	toRow   func(V) Row
	keyFunc func(V) string

	noColor    bool
	headerFG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel returns a focused table with the given columns.
func NewModel[V any](columns []Column, toRow func(V) Row, keyFunc func(V) string) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithHeight(10),
	)
	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true).
		PaddingLeft(0).
		PaddingRight(1)
	s.Selected = s.Selected.PaddingLeft(0)
	s.Cell = lipgloss.NewStyle().PaddingLeft(0).PaddingRight(1)
	t.SetStyles(s)
	return &Model[V]{table: t, styles: s, toRow: toRow, keyFunc: keyFunc}
}

// SetRows replaces the rows and reapplies the filter.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	m.applyFilter()
}

// Rows returns the rows passing the filter.
func (m *Model[V]) Rows() []V {
	return m.filtered
}

// SetFilter keeps rows whose key contains filter, ignoring case.
func (m *Model[V]) SetFilter(filter string) {
	m.filter = filter
	m.applyFilter()
}

func (m *Model[V]) Filter() string {
	return m.filter
}

func (m *Model[V]) applyFilter() {
	m.filtered = m.rows
	if m.filter != "" {
		needle := strings.ToLower(m.filter)
		m.filtered = nil
		for _, r := range m.rows {
			if strings.Contains(strings.ToLower(m.keyFunc(r)), needle) {
				m.filtered = append(m.filtered, r)
			}
		}
	}
	rows := make([]Row, len(m.filtered))
	for i, r := range m.filtered {
		rows[i] = m.toRow(r)
	}
	m.table.SetRows(rows)
	// An empty result leaves the table cursor at -1.
	if c := m.table.Cursor(); c < 0 || c >= len(m.filtered) {
		m.table.SetCursor(max(min(c, len(m.filtered)-1), 0))
	}
}

func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

func (m *Model[V]) SetCursor(n int) {
	m.table.SetCursor(n)
}

// SelectedRow returns the value under the cursor, or nil.
func (m *Model[V]) SelectedRow() *V {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.filtered) {
		return nil
	}
	return &m.filtered[c]
}

// SetSize sets the rendered width and the number of visible rows.
func (m *Model[V]) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}

// SetColors sets the header and selection colors; nil keeps the default.
func (m *Model[V]) SetColors(headerFG, selectedFG, selectedBG color.Color) {
	m.headerFG, m.selectedFG, m.selectedBG = headerFG, selectedFG, selectedBG
	m.applyColors()
}

func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColors()
}

func (m *Model[V]) applyColors() {
	s := m.styles
	switch {
	case m.noColor:
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
	default:
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.styles = s
	m.table.SetStyles(s)
}

// Update forwards msg to the bubbles table for cursor movement.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model[V]) View() string {
	return m.table.View()
}

func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, filtered=%d, cursor=%d, filter=%q]", len(m.rows), len(m.filtered), m.Cursor(), m.filter)
}
