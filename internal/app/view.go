package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/paging"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/query"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/ui"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/upload"
)

const noMeeting = "-- Select Meeting --"

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	divider := ui.DividerStyle.Render(strings.Repeat("─", m.width))
	sections := []string{m.renderHeader(), divider}

	if m.screen == ScreenHistory {
		sections = append(sections, m.renderHistory())
	} else {
		sections = append(sections, m.renderUpload(), divider, m.renderQuery())
	}

	sections = append(sections, divider, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	home := ui.TabStyle.Render("Home")
	history := ui.TabStyle.Render("History")
	if m.screen == ScreenHome {
		home = ui.TabActiveStyle.Render("Home")
	} else {
		history = ui.TabActiveStyle.Render("History")
	}
	return ui.TitleStyle.Render("MEETINTEL") + "  " + home + history
}

func sectionTitle(title string, active bool) string {
	if active {
		return ui.SectionActiveStyle.Render(title)
	}
	return ui.SectionStyle.Render(title)
}

func (m Model) renderUpload() string {
	lines := []string{
		sectionTitle("UPLOAD MEETING RECORDING", m.focus == FocusFile),
		ui.DimStyle.Render("  Choose an audio/video file to generate transcript and insights."),
		"  " + m.fileInput.View(),
	}
	if m.fileErr != "" {
		lines = append(lines, "  "+ui.ErrorTextStyle.Render(m.fileErr))
	}
	if f, ok := m.upload.File(); ok {
		lines = append(lines, "  "+ui.LabelStyle.Render("Selected: ")+
			fmt.Sprintf("%s (%s)", f.Name, humanize.Bytes(uint64(f.Size))))
	}

	switch m.upload.State() {
	case upload.Uploading:
		lines = append(lines, "  "+m.spinner.View()+" Uploading...")
	case upload.Failed:
		lines = append(lines, "  "+ui.ErrorStyle.Render("Error: ")+ui.ErrorTextStyle.Render(m.upload.Err()))
	case upload.Succeeded:
		lines = append(lines, "", "  "+ui.SectionStyle.Render("Upload Summary"))
		for _, s := range m.upload.Steps() {
			status := ui.SuccessStyle.Render("Success")
			if !s.OK {
				status = ui.ErrorTextStyle.Render("Failed")
			}
			lines = append(lines, fmt.Sprintf("    %s %s %s",
				ui.StepMark(s.OK), ui.LabelStyle.Render(s.Label+":"), status))
		}
		if n := m.upload.FailedSteps(); n > 0 {
			lines = append(lines, "  "+ui.WarningTextStyle.Render(
				fmt.Sprintf("%d of %d processing steps failed", n, len(m.upload.Steps()))))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderQuery() string {
	lines := []string{
		sectionTitle("INSIGHTS / QUERY", m.focus != FocusFile),
		ui.DimStyle.Render("  Select a meeting and ask a question about its transcript."),
		"  " + ui.LabelStyle.Render("Meeting:  ") + m.renderSelector(),
		"  " + ui.LabelStyle.Render("Question: ") + m.questionInput.View(),
	}

	switch m.query.State() {
	case query.Querying:
		lines = append(lines, "  "+m.spinner.View()+" Querying...")
	case query.Failed:
		lines = append(lines, "  "+ui.ErrorTextStyle.Render(m.query.Err()))
	case query.Succeeded:
		lines = append(lines, m.renderInsights()...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSelector() string {
	if m.meetings.Loading() && !m.meetings.Loaded() {
		return ui.DimStyle.Render("Loading meetings...")
	}

	label := noMeeting
	if id, ok := m.query.Selection(); ok {
		if rec, found := m.meetings.ByID(id); found {
			label = rec.Title
		}
	}
	choice := fmt.Sprintf("‹ %s ›", label)
	if m.focus == FocusMeeting {
		choice = ui.SelectedStyle.Render(choice)
	}
	return choice + ui.DimStyle.Render(fmt.Sprintf("  %d/%d", m.cursor, m.meetings.Len()))
}

func (m Model) renderInsights() []string {
	res := m.query.Result()
	if res == nil {
		return nil
	}
	width := max(20, m.width-6)

	lines := []string{"", "  " + ui.SectionStyle.Render("Insights")}
	if res.Answer != "" {
		lines = append(lines, "  "+ui.LabelStyle.Render("Answer"))
		for _, l := range wrapText(res.Answer, width) {
			lines = append(lines, ui.AnswerStyle.Render(l))
		}
	}
	if res.Matches.HasDocuments() {
		lines = append(lines, "  "+ui.LabelStyle.Render("Matched Context"))
		for _, item := range query.MatchedContext(res.Matches) {
			for _, l := range wrapText(item.Document, width) {
				lines = append(lines, ui.AnswerStyle.Render(l))
			}
			lines = append(lines, ui.ContextStyle.Render(truncate(item.Metadata, width)))
		}
	}
	return lines
}

func (m Model) renderHistory() string {
	lines := []string{sectionTitle("MEETING HISTORY", true)}

	rows := paging.Window(m.pager, m.history.Records())
	switch {
	case len(rows) == 0 && m.history.Loading() && !m.history.Loaded():
		lines = append(lines, ui.DimStyle.Render("  Loading records..."))
	case len(rows) == 0:
		lines = append(lines, ui.DimStyle.Render("  No records found"))
	default:
		idW, titleW, textW := m.columnWidths()
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(ui.DividerStyle).
			Headers("ID", "Title", "Transcript", "Insights").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return ui.HeaderCellStyle
				}
				return ui.CellStyle
			})
		for _, r := range rows {
			t.Row(
				truncate(strconv.FormatInt(r.ID, 10), idW),
				truncate(r.Title, titleW),
				truncate(r.Transcript, textW),
				truncate(r.Insights, textW),
			)
		}
		lines = append(lines, t.String())
	}

	lines = append(lines, m.renderPager())
	return strings.Join(lines, "\n")
}

// columnWidths splits the terminal width between the four history columns.
func (m Model) columnWidths() (id, title, text int) {
	id = 6
	avail := max(30, m.width-id-12)
	title = avail / 5
	text = (avail - title) / 2
	return id, title, text
}

func (m Model) renderPager() string {
	prev := ui.FooterKeyStyle.Render("‹ Previous")
	if !m.pager.HasPrevious() {
		prev = ui.DimStyle.Render("‹ Previous")
	}
	next := ui.FooterKeyStyle.Render("Next ›")
	if !m.pager.HasNext() {
		next = ui.DimStyle.Render("Next ›")
	}
	page := fmt.Sprintf("Page %d of %d", m.pager.Page(), max(m.pager.TotalPages(), 1))
	return prev + "   " + page + "   " + next
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}
	dimKey := func(k, desc string) string {
		return ui.DimStyle.Render(k + " " + desc)
	}

	var parts []string
	if m.screen == ScreenHistory {
		parts = append(parts, key("←/h", "Prev"), key("→/l", "Next"), key("r", "Reload"), key("F1", "Home"), key("q", "Quit"))
		return strings.Join(parts, "  ")
	}

	parts = append(parts, key("Tab", "Focus"))
	if m.upload.CanSubmit() {
		parts = append(parts, key("^U", "Upload"))
	} else {
		parts = append(parts, dimKey("^U", "Upload"))
	}
	if m.query.CanSubmit() {
		parts = append(parts, key("Enter", "Ask"))
	} else {
		parts = append(parts, dimKey("Enter", "Ask"))
	}
	parts = append(parts, key("^X", "Clear"), key("F2", "History"), key("^C", "Quit"))
	return strings.Join(parts, "  ")
}

// Helpers

// truncate flattens s onto one line and cuts it to width runes.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
