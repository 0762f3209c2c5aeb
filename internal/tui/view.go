package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/speakeasy-api/fieldmap/internal/nav"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
)

func (m Model) renderMain() string {
	header := m.renderTabBar()
	body := m.renderPanels()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderTabBar() string {
	var tabs []string
	for _, k := range snapshot.Kinds {
		name := fmt.Sprintf("%d %s", int(k)+1, nav.ViewFor(k).Title())
		if k == m.state.View {
			tabs = append(tabs, ActiveTab.Render(name))
		} else {
			tabs = append(tabs, InactiveTab.Render(name))
		}
	}

	title := TitleStyle.Render("fieldmap")
	source := ""
	if snap := m.state.Snapshot; snap != nil {
		source = SubtitleStyle.Render(" " + truncate(snap.Source, m.width/2))
	}
	return title + source + "\n" + strings.Join(tabs, " ")
}

// panelWidths splits the terminal into left, center and right panel content widths.
func (m Model) panelWidths() (int, int, int) {
	const chrome = 4 // border and padding per panel
	usable := max(30, m.width) - 3*chrome
	left := usable * 3 / 10
	right := usable * 3 / 10
	return left, usable - left - right, right
}

func (m Model) renderPanels() string {
	lw, cw, rw := m.panelWidths()
	h := m.bodyHeight()

	left := m.panel(nav.PanelLeft, lw, h, m.leftTitle(), m.leftRows(lw, h-1))
	center := m.panel(nav.PanelCenter, cw, h, "Detail", m.centerRows(cw, h-1))
	right := m.panel(nav.PanelRight, rw, h, m.rightTitle(), m.rightRows(rw, h-1))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, center, right)
}

func (m Model) panel(p nav.Panel, width, height int, title string, rows []string) string {
	style := PanelStyle
	if m.state.Panel == p && m.state.Mode != nav.ModeHelp {
		style = FocusedPanelStyle
	}
	content := PanelTitleStyle.Render(truncate(title, width)) + "\n" + strings.Join(rows, "\n")
	return style.Width(width + 2).Height(height).Render(content)
}

func (m Model) leftTitle() string {
	title := nav.ViewFor(m.state.View).Title()
	switch {
	case m.state.Mode == nav.ModeSearch:
		return title + " /" + m.state.Query + "_"
	case m.state.Query != "":
		return title + " /" + m.state.Query
	}
	return title
}

func (m Model) leftRows(width, height int) []string {
	items := m.state.LeftItems()
	if len(items) == 0 {
		if m.state.Query != "" {
			return []string{EmptyStyle.Render("no matches")}
		}
		return []string{EmptyStyle.Render("empty")}
	}

	vs := m.state.Current()
	cursor := min(vs.Cursor, len(items)-1)
	start, end := window(cursor, len(items), height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate(items[i].Display, width)
		switch {
		case i == cursor && m.state.Panel == nav.PanelLeft:
			rows = append(rows, SelectedRow.Render(pad(text, width)))
		case items[i].ID == vs.Selection:
			rows = append(rows, CommittedRow.Render(text))
		default:
			rows = append(rows, NormalRow.Render(text))
		}
	}
	return rows
}

func (m Model) centerRows(width, height int) []string {
	lines := m.state.CenterLines()
	if len(lines) == 0 {
		return []string{EmptyStyle.Render("press enter to select an item")}
	}
	offset := min(m.state.Current().CenterOffset, len(lines)-1)
	end := min(len(lines), offset+height)

	rows := make([]string, 0, end-offset)
	for _, l := range lines[offset:end] {
		rows = append(rows, renderLine(l, width))
	}
	if end < len(lines) {
		rows[len(rows)-1] = ScrollIndicatorStyle.Render(fmt.Sprintf("... %d more", len(lines)-end+1))
	}
	return rows
}

func (m Model) rightTitle() string {
	if m.state.View == snapshot.KindEndpoints {
		return "Fields"
	}
	return "Endpoints"
}

func (m Model) rightRows(width, height int) []string {
	items := m.state.RightItems()
	if len(items) == 0 {
		return []string{EmptyStyle.Render("none")}
	}

	cursor := min(m.state.Current().RightCursor, len(items)-1)
	start, end := window(cursor, len(items), height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate(items[i].Label, width)
		if i == cursor && m.state.Panel == nav.PanelRight {
			rows = append(rows, colorStyle(SelectedRow, items[i].Color).Render(pad(text, width)))
			continue
		}
		rows = append(rows, colorStyle(NormalRow, items[i].Color).Render(text))
	}
	return rows
}

func (m Model) renderFooter() string {
	if m.state.Status != "" {
		style := StatusStyle
		if m.state.StatusError {
			style = StatusErrorStyle
		}
		return style.Render(truncate(m.state.Status, m.width))
	}
	return FooterStyle.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m Model) renderHelp() string {
	var s strings.Builder
	s.WriteString(HelpTitleStyle.Render("fieldmap help") + "\n\n")
	s.WriteString(m.help.FullHelpView(m.keys.FullHelp()) + "\n\n")
	s.WriteString(DetailStyle.Render("In search, every key but 1-5 is text. Enter keeps the filter, esc clears it.") + "\n")
	s.WriteString(DetailStyle.Render("Enter on a right panel endpoint opens its details.") + "\n\n")
	s.WriteString(DetailStyle.Render("esc to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpModalStyle.Render(s.String()))
}

func (m Model) renderPopup() string {
	p := m.state.Popup
	width := max(40, m.width*2/3)
	height := max(5, m.height*2/3)

	rows := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		rows = append(rows, renderLine(l, width-4))
	}

	vp := m.popup
	vp.Width = width - 4
	vp.Height = height - 4
	vp.SetContent(strings.Join(rows, "\n"))
	vp.SetYOffset(p.Offset)

	content := PanelTitleStyle.Render(p.Title) + "\n" + vp.View() + "\n" +
		ScrollIndicatorStyle.Render(fmt.Sprintf("%d%%  ↑/↓ scroll  esc close", int(vp.ScrollPercent()*100)))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, PopupStyle.Width(width).Render(content))
}

func renderLine(l nav.Line, width int) string {
	switch l.Kind {
	case nav.LineHeading:
		return HeadingStyle.Render(truncate(l.Text, width))
	case nav.LineProperty:
		label := l.Label + ": "
		value := truncate(l.Text, width-runewidth.StringWidth(label))
		return StatLabel.Render(label) + colorStyle(StatValue, l.Color).Render(value)
	case nav.LineBullet:
		return colorStyle(NormalRow, l.Color).Render("  • " + truncate(l.Text, width-4))
	case nav.LineWarning:
		text := l.Text
		if l.Label != "" {
			text = l.Label + ": " + text
		}
		return StatWarning.Render("! " + truncate(text, width-2))
	case nav.LineBlank:
		return ""
	}
	return colorStyle(DetailStyle, l.Color).Render(truncate(l.Text, width))
}

// window returns the visible range [start, end) of n rows that keeps cursor on screen.
func window(cursor, n, height int) (int, int) {
	height = max(1, height)
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(n, start+height)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
