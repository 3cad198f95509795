package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/journal"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/paging"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/query"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/records"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/ui"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/upload"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen is the mounted top-level view.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenHistory
)

// Focus tracks which Home control has keyboard focus.
type Focus int

const (
	FocusFile Focus = iota
	FocusMeeting
	FocusQuestion
	focusCount
)

// Journal records settled uploads and queries.
type Journal interface {
	Append(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Options wires a Model to its collaborators. Journal and Logger may be nil.
type Options struct {
	Ctx         context.Context
	Backend     api.Backend
	Loader      *records.Loader
	Journal     Journal
	Logger      *slog.Logger
	RowsPerPage int
}

// Model is the root bubbletea model for the meetintel TUI.
type Model struct {
	ctx     context.Context
	backend api.Backend
	loader  *records.Loader
	journal Journal
	logger  *slog.Logger
	init    tea.Cmd

	screen Screen
	width  int
	height int

	// Home. gen changes on every mount so replies for an earlier mount
	// are dropped.
	gen           uint64
	upload        upload.Controller
	query         query.Controller
	meetings      records.List
	cursor        int // 0 is the "-- Select Meeting --" entry
	focus         Focus
	fileInput     textinput.Model
	questionInput textinput.Model
	fileErr       string
	spinner       spinner.Model

	// History
	history records.List
	pager   paging.Pager
}

// New creates a Model with Home mounted.
func New(opts Options) Model {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Loader == nil && opts.Backend != nil {
		opts.Loader = records.NewLoader(opts.Backend, true, opts.Logger)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.SpinnerStyle

	m := Model{
		ctx:     opts.Ctx,
		backend: opts.Backend,
		loader:  opts.Loader,
		journal: opts.Journal,
		logger:  opts.Logger,
		spinner: sp,
		pager:   paging.New(opts.RowsPerPage),
	}
	m.init = m.mountHome()
	return m
}

// Init starts the meeting-selector fetch for the initial Home mount.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.init, textinput.Blink)
}

func newFileInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/recording.mp3"
	ti.CharLimit = 4096
	return ti
}

func newQuestionInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. What action items were assigned?"
	return ti
}

// mountHome starts Home from a clean slate, record list included, and
// fetches the meeting list.
func (m *Model) mountHome() tea.Cmd {
	m.screen = ScreenHome
	m.gen++
	m.upload = upload.Controller{}
	m.query = query.Controller{}
	m.meetings = records.List{}
	m.cursor = 0
	m.fileErr = ""
	m.fileInput = newFileInput()
	m.questionInput = newQuestionInput()
	return tea.Batch(m.setFocus(FocusFile), m.loadRecordsCmd(m.meetings.Begin()))
}

// mountHistory starts from an empty list on page 1 and refetches the
// records.
func (m *Model) mountHistory() tea.Cmd {
	m.screen = ScreenHistory
	m.history = records.List{}
	m.pager.SetTotal(0)
	m.pager.Reset()
	return m.loadRecordsCmd(m.history.Begin())
}

func (m *Model) switchTo(s Screen) tea.Cmd {
	if s == m.screen {
		return nil
	}
	if m.screen == ScreenHome {
		m.meetings.Close()
		return m.mountHistory()
	}
	m.history.Close()
	return m.mountHome()
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.fileInput.Blur()
	m.questionInput.Blur()
	switch f {
	case FocusFile:
		return m.fileInput.Focus()
	case FocusQuestion:
		return m.questionInput.Focus()
	}
	return nil
}

// loadRecordsCmd fetches the record list for the fetch identified by t.
func (m Model) loadRecordsCmd(t records.Ticket) tea.Cmd {
	loader, ctx := m.loader, m.ctx
	if loader == nil {
		return nil
	}
	return func() tea.Msg {
		recs, err := loader.Load(ctx)
		return RecordsLoadedMsg{Ticket: t, Records: recs, Err: err}
	}
}

// statFileCmd resolves the path typed into the file input.
func statFileCmd(gen uint64, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := upload.StatFile(path)
		return FileStatMsg{Gen: gen, File: f, Err: err}
	}
}

// uploadCmd sends f to the backend.
func (m Model) uploadCmd(f upload.File) tea.Cmd {
	backend, ctx, gen := m.backend, m.ctx, m.gen
	return func() tea.Msg {
		reply, err := backend.UploadFile(ctx, f.Path)
		return UploadFinishedMsg{Gen: gen, File: f, Reply: reply, Err: err}
	}
}

// queryCmd submits req to the backend.
func (m Model) queryCmd(req api.QueryRequest) tea.Cmd {
	backend, ctx, gen := m.backend, m.ctx, m.gen
	return func() tea.Msg {
		reply, err := backend.SubmitQuery(ctx, req)
		return QueryFinishedMsg{Gen: gen, Request: req, Reply: reply, Err: err}
	}
}

// journalCmd appends e to the journal. Failures are logged and otherwise
// ignored.
func (m Model) journalCmd(e journal.Entry) tea.Cmd {
	j, ctx, logger := m.journal, m.ctx, m.logger
	if j == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := j.Append(ctx, e); err != nil {
			logger.Warn("journal_append_failed",
				slog.String("kind", string(e.Kind)),
				slog.String("error", err.Error()))
		}
		return nil
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RecordsLoadedMsg:
		m.applyRecords(msg)
		return m, nil

	case FileStatMsg:
		if !m.homeCurrent(msg.Gen) {
			return m, nil
		}
		if msg.Err != nil {
			m.fileErr = msg.Err.Error()
			return m, nil
		}
		m.fileErr = ""
		m.upload.SelectFile(msg.File)
		return m, nil

	case UploadFinishedMsg:
		if !m.homeCurrent(msg.Gen) {
			m.logger.Debug("upload_reply_discarded", slog.String("file", msg.File.Name))
			return m, nil
		}
		m.upload.Complete(msg.Reply, msg.Err)
		m.logger.Info("upload_completed",
			slog.String("file", msg.File.Name),
			slog.String("state", m.upload.State().String()),
			slog.Int("status", msg.Reply.StatusCode))
		entry := journal.UploadEntry(m.upload)
		entry.Subject = msg.File.Name
		return m, m.journalCmd(entry)

	case QueryFinishedMsg:
		if !m.homeCurrent(msg.Gen) {
			m.logger.Debug("query_reply_discarded", slog.Int64("meeting_id", msg.Request.MeetingID))
			return m, nil
		}
		m.query.Complete(msg.Reply, msg.Err)
		m.logger.Info("query_completed",
			slog.Int64("meeting_id", msg.Request.MeetingID),
			slog.String("state", m.query.State().String()),
			slog.Int("status", msg.Reply.StatusCode))
		entry := journal.QueryEntry(m.query)
		entry.MeetingID = &msg.Request.MeetingID
		entry.Subject = msg.Request.Question
		return m, m.journalCmd(entry)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input bookkeeping.
	if m.screen != ScreenHome {
		return m, nil
	}
	var fileCmd, questionCmd tea.Cmd
	m.fileInput, fileCmd = m.fileInput.Update(msg)
	m.questionInput, questionCmd = m.questionInput.Update(msg)
	return m, tea.Batch(fileCmd, questionCmd)
}

// homeCurrent reports whether a reply tagged gen belongs to the mounted Home.
func (m Model) homeCurrent(gen uint64) bool {
	return m.screen == ScreenHome && gen == m.gen
}

func (m Model) busy() bool {
	return m.screen == ScreenHome && (m.upload.Busy() || m.query.Busy())
}

// applyRecords hands a fetch result to whichever list issued it.
func (m *Model) applyRecords(msg RecordsLoadedMsg) {
	if m.meetings.Apply(msg.Ticket, msg.Records, msg.Err) {
		if m.cursor > m.meetings.Len() {
			m.moveCursor(-m.cursor)
		}
		return
	}
	if m.history.Apply(msg.Ticket, msg.Records, msg.Err) {
		m.pager.SetTotal(m.history.Len())
	}
}

// moveCursor steps through the meeting selector. Position 0 deselects.
func (m *Model) moveCursor(delta int) {
	m.cursor = max(0, min(m.cursor+delta, m.meetings.Len()))
	if m.cursor == 0 {
		m.query.Deselect()
		return
	}
	m.query.Select(m.meetings.Records()[m.cursor-1].ID)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC:
		return m.quit()
	case KeyHome:
		return m, m.switchTo(ScreenHome)
	case KeyHistory:
		return m, m.switchTo(ScreenHistory)
	case KeySwitchView:
		if m.screen == ScreenHome {
			return m, m.switchTo(ScreenHistory)
		}
		return m, m.switchTo(ScreenHome)
	}

	if m.screen == ScreenHistory {
		return m.handleHistoryKey(msg)
	}
	return m.handleHomeKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.meetings.Close()
	m.history.Close()
	return m, tea.Quit
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		return m.quit()
	case KeyLeft, KeyH:
		m.pager.Previous()
	case KeyRight, KeyL:
		m.pager.Next()
	case KeyReload:
		return m, m.loadRecordsCmd(m.history.Begin())
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyTab:
		return m, m.setFocus((m.focus + 1) % focusCount)
	case KeyShiftTab:
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case KeyUpload:
		return m.startUpload()
	case KeyClear:
		m.query.Clear()
		m.questionInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusFile:
		if msg.String() == KeyEnter {
			path := strings.TrimSpace(m.fileInput.Value())
			if path == "" {
				return m, nil
			}
			return m, statFileCmd(m.gen, path)
		}
		m.fileInput, cmd = m.fileInput.Update(msg)

	case FocusMeeting:
		switch msg.String() {
		case KeyQuit:
			return m.quit()
		case KeyUp, KeyK:
			m.moveCursor(-1)
		case KeyDown, KeyJ:
			m.moveCursor(1)
		case KeyEnter:
			return m, m.setFocus(FocusQuestion)
		}

	case FocusQuestion:
		if msg.String() == KeyEnter {
			return m.startQuery()
		}
		m.questionInput, cmd = m.questionInput.Update(msg)
		m.query.SetQuestion(m.questionInput.Value())
	}
	return m, cmd
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	if m.backend == nil {
		return m, nil
	}
	f, ok := m.upload.Begin()
	if !ok {
		return m, nil
	}
	m.logger.Info("upload_started", slog.String("file", f.Name), slog.Int64("size", f.Size))
	return m, tea.Batch(m.uploadCmd(f), m.spinner.Tick)
}

func (m Model) startQuery() (tea.Model, tea.Cmd) {
	if m.backend == nil {
		return m, nil
	}
	m.query.SetQuestion(m.questionInput.Value())
	req, ok := m.query.Begin()
	if !ok {
		return m, nil
	}
	m.logger.Info("query_started", slog.Int64("meeting_id", req.MeetingID))
	return m, tea.Batch(m.queryCmd(req), m.spinner.Tick)
}
