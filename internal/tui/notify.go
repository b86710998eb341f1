package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// NoticeKind classifies a status message.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeWarning
	NoticeError
)

const defaultNoticeDuration = 3000 * time.Millisecond

// Notice is an ephemeral status message.
type Notice struct {
	Text     string
	Kind     NoticeKind
	Duration time.Duration
}

// Notifier receives notices; delivery is fire-and-forget.
type Notifier interface {
	Notify(n Notice)
}

var (
	noticeLoadSuccess = Notice{Text: "Load data successfully!", Kind: NoticeSuccess, Duration: defaultNoticeDuration}
	noticeLoadFailure = Notice{Text: "Load data failed. Please try again!", Kind: NoticeError, Duration: defaultNoticeDuration}
	noticeLoadCached  = Notice{Text: "Loaded cached data", Kind: NoticeWarning, Duration: defaultNoticeDuration}
)

type toastExpiredMsg struct {
	seq int
}

// toast renders the latest notice until its duration elapses.
type toast struct {
	notice  Notice
	seq     int
	visible bool
}

func (t *toast) Notify(n Notice) {
	if n.Duration <= 0 {
		n.Duration = defaultNoticeDuration
	}
	t.seq++
	t.notice = n
	t.visible = true
}

func (t *toast) expireCmd() tea.Cmd {
	seq := t.seq
	return tea.Tick(t.notice.Duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (t *toast) expire(seq int) {
	if seq == t.seq {
		t.visible = false
	}
}

func (t *toast) View() string {
	if !t.visible {
		return ""
	}
	switch t.notice.Kind {
	case NoticeError:
		return toastErrorStyle.Render(t.notice.Text)
	case NoticeWarning:
		return toastWarnStyle.Render(t.notice.Text)
	default:
		return toastSuccessStyle.Render(t.notice.Text)
	}
}

// logNotifier mirrors notices into the structured log.
type logNotifier struct {
	logger zerolog.Logger
}

func (l logNotifier) Notify(n Notice) {
	event := l.logger.Info()
	switch n.Kind {
	case NoticeError:
		event = l.logger.Error()
	case NoticeWarning:
		event = l.logger.Warn()
	}
	event.Dur("duration", n.Duration).Msg(n.Text)
}
