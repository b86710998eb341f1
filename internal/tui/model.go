// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/quiz"
	"github.com/verte-zerg/tuivoc/internal/source"
)

const fetchTimeout = 90 * time.Second

// ResultRecorder persists completed quizzes.
type ResultRecorder interface {
	InsertResult(ctx context.Context, result model.QuizResult) (string, error)
}

// Options wires the collaborators of a Model.
type Options struct {
	Source  source.Source
	Session *quiz.Session
	// Recorder is optional; nil disables history.
	Recorder ResultRecorder
	// Notifier receives every notice in addition to the on-screen toast.
	Notifier Notifier
	Logger   zerolog.Logger
}

type rowsLoadedMsg struct {
	rows []model.VocabRow
	err  error
}

type advanceMsg struct {
	ticket quiz.Ticket
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	src      source.Source
	session  *quiz.Session
	recorder ResultRecorder
	notifier Notifier
	logger   zerolog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	toast   toast

	width  int
	height int

	fetching bool
	cursor   int
	recorded bool
}

// NewModel constructs a quiz TUI model.
func NewModel(opts Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	notifier := opts.Notifier
	if notifier == nil {
		notifier = logNotifier{logger: opts.Logger}
	}
	m := &Model{
		src:      opts.Source,
		session:  opts.Session,
		recorder: opts.Recorder,
		notifier: notifier,
		logger:   opts.Logger,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
		fetching: true,
		cursor:   -1,
	}
	m.syncKeys()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case rowsLoadedMsg:
		cmd := m.handleLoaded(msg)
		m.syncKeys()
		return m, cmd
	case advanceMsg:
		if m.session.Advance(msg.ticket) {
			m.cursor = -1
			m.recordIfCompleted()
		}
		m.syncKeys()
		return m, nil
	case toastExpiredMsg:
		m.toast.expire(msg.seq)
		return m, nil
	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.syncKeys()
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) fetchCmd() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rows, err := src.FetchRows(ctx)
		return rowsLoadedMsg{rows: rows, err: err}
	}
}

func (m *Model) handleLoaded(msg rowsLoadedMsg) tea.Cmd {
	m.fetching = false
	switch {
	case msg.err == nil:
		m.logger.Info().Str("source", m.src.Name()).Int("rows", len(msg.rows)).Msg("vocabulary loaded")
		m.session.Load(msg.rows)
		m.recordIfCompleted()
		return m.notify(noticeLoadSuccess)
	case source.IsStale(msg.rows, msg.err):
		m.logger.Warn().Err(msg.err).Str("source", m.src.Name()).Int("rows", len(msg.rows)).Msg("using cached vocabulary")
		m.session.Load(msg.rows)
		m.recordIfCompleted()
		return m.notify(noticeLoadCached)
	default:
		m.logger.Error().Err(msg.err).Str("source", m.src.Name()).Msg("vocabulary load failed")
		m.session.Fail(msg.err)
		return m.notify(noticeLoadFailure)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.session.Close()
		return tea.Quit
	}
	switch m.session.State() {
	case quiz.Loading:
		if !m.fetching && m.session.LoadErr() != nil && key.Matches(msg, m.keys.Retry) {
			m.fetching = true
			return tea.Batch(m.spinner.Tick, m.fetchCmd())
		}
	case quiz.AwaitingAnswer:
		return m.handleAnswerKey(msg)
	case quiz.Completed:
		if key.Matches(msg, m.keys.Restart) {
			m.restart()
		}
	}
	return nil
}

func (m *Model) handleAnswerKey(msg tea.KeyMsg) tea.Cmd {
	q, ok := m.session.Question()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(q, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(q, 1)
	case key.Matches(msg, m.keys.Choose):
		idx := int(msg.String()[0] - '1')
		if idx < len(q.Options) {
			m.cursor = idx
			m.session.Select(q.Options[idx])
		}
	case key.Matches(msg, m.keys.Submit):
		ticket, ok := m.session.Submit()
		if !ok {
			return nil
		}
		m.logger.Debug().Str("vocab", q.Content).Bool("correct", ticket.Correct).Int("score", m.session.Score()).Msg("answer submitted")
		return tea.Tick(ticket.Delay, func(time.Time) tea.Msg {
			return advanceMsg{ticket: ticket}
		})
	case key.Matches(msg, m.keys.Skip):
		if m.session.Skip() {
			m.cursor = -1
			m.recordIfCompleted()
		}
	}
	return nil
}

func (m *Model) moveCursor(q model.Question, delta int) {
	if !q.HasOptions() {
		return
	}
	next := m.cursor + delta
	if m.cursor < 0 {
		next = 0
	}
	next = (next + len(q.Options)) % len(q.Options)
	m.cursor = next
	m.session.Select(q.Options[next])
}

func (m *Model) restart() {
	if m.session.Restart() {
		m.cursor = -1
		m.recorded = false
		m.logger.Info().Int("rows", m.session.Total()).Msg("quiz restarted")
	}
}

// syncKeys enables only the bindings the current state accepts so help lists them.
func (m *Model) syncKeys() {
	state := m.session.State()
	answering := state == quiz.AwaitingAnswer
	for _, b := range []*key.Binding{&m.keys.Up, &m.keys.Down, &m.keys.Choose, &m.keys.Submit, &m.keys.Skip} {
		b.SetEnabled(answering)
	}
	m.keys.Restart.SetEnabled(state == quiz.Completed)
	m.keys.Retry.SetEnabled(state == quiz.Loading && !m.fetching && m.session.LoadErr() != nil)
}

func (m *Model) notify(n Notice) tea.Cmd {
	m.toast.Notify(n)
	m.notifier.Notify(n)
	return m.toast.expireCmd()
}

func (m *Model) recordIfCompleted() {
	if m.recorded || m.session.State() != quiz.Completed {
		return
	}
	m.recorded = true
	result, ok := m.session.Result()
	if !ok || result.Total == 0 {
		return
	}
	result.Source = m.src.Name()
	m.logger.Info().Int("score", result.Score).Int("correct", result.Correct).Int("total", result.Total).Msg("quiz completed")
	if m.recorder == nil {
		return
	}
	if _, err := m.recorder.InsertResult(context.Background(), result); err != nil {
		m.logger.Error().Err(err).Msg("failed to save quiz result")
	}
}
