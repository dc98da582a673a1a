package tui

import (
	"strconv"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/pkg/geometry"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all Bubbletea update logic for the TUI model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	default:
		switch m.ActiveView {
		case ViewSectionList:
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		case ViewDetail:
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	k := msg.String()

	switch m.ActiveView {
	case ViewQuitting:
		return m, nil

	case ViewDetail:
		switch k {
		case "ctrl+c", "q":
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		case "esc", "backspace":
			m.ActiveView = ViewSectionList
			m.detail.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case ViewSectionList:
		switch k {
		case "ctrl+c", "q":
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(SectionItem); ok {
				m = openDetail(m, item.Entry)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// openDetail switches to the detail view for the chosen section. Cross
// sections render their station/elevation pairs as a two-column table;
// every other section shows its raw lines.
func openDetail(m model, e geometry.Entry) model {
	m.detailTitle = itemLine(e)
	if pts, ok := sectionPoints(m.lines, e); ok {
		cols := []table.Column{
			{Title: "Station", Width: 14},
			{Title: "Elevation", Width: 14},
		}
		rows := make([]table.Row, len(pts)/2)
		for i := range rows {
			rows[i] = table.Row{
				strconv.FormatFloat(pts[2*i], 'f', 2, 64),
				strconv.FormatFloat(pts[2*i+1], 'f', 2, 64),
			}
		}
		m.detail.SetColumns(cols)
		m.detail.SetRows(rows)
	} else {
		cols := []table.Column{{Title: "Line", Width: max(m.width-6, 20)}}
		rows := make([]table.Row, 0, e.End-e.Start)
		for _, ln := range m.lines[e.Start:e.End] {
			rows = append(rows, table.Row{ln})
		}
		m.detail.SetColumns(cols)
		m.detail.SetRows(rows)
	}
	m.detail.SetCursor(0)
	m.detail.Focus()
	m.ActiveView = ViewDetail
	return m
}

// sectionPoints decodes the station/elevation block of a cross-section
// entry, returning the flattened values. ok is false for any other section
// kind or when the entry has no profile block.
func sectionPoints(lines []string, e geometry.Entry) ([]float64, bool) {
	if e.Keyword != section.KeywordNode || len(e.IDs) == 0 || e.IDs[0] != strconv.Itoa(section.NodeCrossSection) {
		return nil, false
	}
	for i := e.Start + 1; i < e.End; i++ {
		label, n, ok := fixedwidth.ParseCountHeader(lines[i])
		if !ok || label != "Sta/Elev" {
			continue
		}
		nl := fixedwidth.CountLines(n, 2, fixedwidth.DefaultPerLine)
		end := i + 1 + nl
		if end > e.End {
			end = e.End
		}
		vals, err := fixedwidth.DecodeBlock(lines[i+1:end], fixedwidth.DefaultWidth)
		if err != nil {
			return nil, false
		}
		floats, _ := fixedwidth.Floats(vals)
		if len(floats) < fixedwidth.CountValues(n, 2) {
			return nil, false
		}
		return floats[:fixedwidth.CountValues(n, 2)], true
	}
	return nil, false
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	m.list.SetSize(msg.Width-4, max(msg.Height-6, 5))
	m.detail.SetHeight(max(msg.Height-8, 5))
	return m, nil
}
