package tui

import (
	"strings"

	"rasgeo/pkg/geometry"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
)

// SectionItem represents one top-level geometry section for the list.
type SectionItem struct {
	RawLine string // single-line display: keyword + identifiers
	Entry   geometry.Entry
}

func (s SectionItem) Title() string       { return s.RawLine }
func (s SectionItem) Description() string { return "" }
func (s SectionItem) FilterValue() string { return s.RawLine }

// View identifiers for the update loop.
const (
	ViewSectionList = iota
	ViewDetail
	ViewQuitting
)

// model is the Bubbletea model for the TUI.
type model struct {
	list        list.Model
	detail      table.Model
	detailTitle string
	ActiveView  int
	path        string
	lines       []string // full file content, for detail rendering
	height      int
	width       int
}

// InitialModel creates the initial TUI model over a pre-indexed file.
func InitialModel(items []list.Item, path string, lines []string, height int) model {
	listHeight := max(height-6, 5)
	defaultWidth := 80
	listDelegate := list.NewDefaultDelegate()
	listDelegate.ShowDescription = false
	l := list.New(items, listDelegate, defaultWidth, listHeight)
	l.Title = path

	t := table.New(
		table.WithColumns([]table.Column{{Title: "Line", Width: defaultWidth - 4}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(listHeight),
	)

	return model{
		list:       l,
		detail:     t,
		ActiveView: ViewSectionList,
		path:       path,
		lines:      lines,
		height:     height,
		width:      defaultWidth,
	}
}

// itemLine renders an entry the way the section list displays it.
func itemLine(e geometry.Entry) string {
	ids := strings.Join(e.IDs, ", ")
	if ids == "" {
		return e.Keyword
	}
	return e.Keyword + " " + ids
}

// max returns the maximum of two ints.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
