// Package quiz implements the quiz session state machine.
package quiz

import (
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/question"
)

const (
	// PointsPerAnswer is added to the score for each correct submission.
	PointsPerAnswer = 10

	// Default feedback delays before the next question.
	DefaultCorrectDelay   = 1000 * time.Millisecond
	DefaultIncorrectDelay = 3000 * time.Millisecond
)

// Options tunes a Session.
type Options struct {
	CorrectDelay   time.Duration
	IncorrectDelay time.Duration
	// Limit caps the number of questions per round; 0 uses every row.
	Limit int
	Now   func() time.Time
}

// Ticket is a pending auto-advance scheduled after a submission.
// It is only honored while it is the session's current ticket.
type Ticket struct {
	Seq     uint64
	Delay   time.Duration
	Correct bool
}

// Session holds the quiz state for a single run. It is not safe for
// concurrent use; callers serialize transitions (Bubble Tea does).
type Session struct {
	builder *question.Builder
	opts    Options

	state       State
	pool        []model.VocabRow
	rows        []model.VocabRow
	position    int
	current     model.Question
	selected    string
	hasSelected bool
	score       int
	correct  int
	skipped  int
	lastOK   bool
	loadErr  error

	startedAt time.Time
	endedAt   time.Time

	ticketSeq uint64
	pending   uint64
	closed    bool
}

// NewSession returns a session in the Loading state.
func NewSession(builder *question.Builder, opts Options) *Session {
	if opts.CorrectDelay <= 0 {
		opts.CorrectDelay = DefaultCorrectDelay
	}
	if opts.IncorrectDelay <= 0 {
		opts.IncorrectDelay = DefaultIncorrectDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{builder: builder, opts: opts, state: Loading}
}

// Load moves a Loading session to its first question.
func (s *Session) Load(rows []model.VocabRow) bool {
	if s.closed || s.state != Loading {
		return false
	}
	s.deal(rows)
	s.loadErr = nil
	s.begin()
	return true
}

// Fail records a load failure. The session stays in Loading so a later Load can succeed.
func (s *Session) Fail(err error) bool {
	if s.closed || s.state != Loading {
		return false
	}
	s.loadErr = err
	return true
}

// Select marks option as the chosen answer.
func (s *Session) Select(option string) bool {
	if s.closed || s.state != AwaitingAnswer {
		return false
	}
	if !s.isOption(option) {
		return false
	}
	s.selected = option
	s.hasSelected = true
	return true
}

// Submit scores the selected answer and returns the ticket for the delayed advance.
func (s *Session) Submit() (Ticket, bool) {
	if s.closed || s.state != AwaitingAnswer || !s.hasSelected {
		return Ticket{}, false
	}
	s.state = Submitted
	s.lastOK = s.selected == s.current.Key
	delay := s.opts.IncorrectDelay
	if s.lastOK {
		s.score += PointsPerAnswer
		s.correct++
		delay = s.opts.CorrectDelay
	}
	s.ticketSeq++
	s.pending = s.ticketSeq
	return Ticket{Seq: s.pending, Delay: delay, Correct: s.lastOK}, true
}

// Advance applies a fired ticket. Stale or canceled tickets are ignored.
func (s *Session) Advance(t Ticket) bool {
	if s.closed || s.state != Submitted || t.Seq == 0 || t.Seq != s.pending {
		return false
	}
	s.pending = 0
	s.next()
	return true
}

// Skip moves past the current question without scoring.
func (s *Session) Skip() bool {
	if s.closed || s.state != AwaitingAnswer {
		return false
	}
	s.skipped++
	s.next()
	return true
}

// Restart reshuffles the loaded rows, deals a new round and starts over with a zero score.
func (s *Session) Restart() bool {
	if s.closed || s.state == Loading {
		return false
	}
	s.pending = 0
	s.deal(s.pool)
	s.score = 0
	s.correct = 0
	s.skipped = 0
	s.lastOK = false
	s.begin()
	return true
}

// Cancel discards any pending advance.
func (s *Session) Cancel() {
	s.pending = 0
}

// Close tears the session down. Every later transition is a no-op.
func (s *Session) Close() {
	s.pending = 0
	s.closed = true
}

// AccuracyRate returns the percentage of correct answers once the quiz is completed.
func (s *Session) AccuracyRate() (float64, bool) {
	if s.state != Completed {
		return 0, false
	}
	return model.AccuracyRate(s.score/PointsPerAnswer, len(s.rows))
}

// Result summarizes a completed quiz.
func (s *Session) Result() (model.QuizResult, bool) {
	if s.state != Completed {
		return model.QuizResult{}, false
	}
	return model.QuizResult{
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
		Total:     len(s.rows),
		Correct:   s.correct,
		Skipped:   s.skipped,
		Score:     s.score,
	}, true
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) Position() int {
	return s.position
}

func (s *Session) Total() int {
	return len(s.rows)
}

func (s *Session) Selected() string {
	return s.selected
}

func (s *Session) Submitted() bool {
	return s.state == Submitted
}

func (s *Session) Score() int {
	return s.score
}

func (s *Session) Correct() int {
	return s.correct
}

func (s *Session) Skipped() int {
	return s.skipped
}

func (s *Session) LastCorrect() bool {
	return s.lastOK
}

func (s *Session) LoadErr() error {
	return s.loadErr
}

func (s *Session) Closed() bool {
	return s.closed
}

// PendingTicket returns the sequence of the ticket awaiting Advance, or 0.
func (s *Session) PendingTicket() uint64 {
	return s.pending
}

// Rows returns a copy of the rows asked in this round.
func (s *Session) Rows() []model.VocabRow {
	return append([]model.VocabRow(nil), s.rows...)
}

// Question returns the current question; ok is false when none is presented.
func (s *Session) Question() (model.Question, bool) {
	if s.state != AwaitingAnswer && s.state != Submitted {
		return model.Question{}, false
	}
	return s.current, true
}

// deal shuffles rows into the pool and cuts the round from its head.
// Questions draw distractors from the whole pool.
func (s *Session) deal(rows []model.VocabRow) {
	s.pool = s.builder.Shuffle(rows)
	s.rows = s.pool
	if s.opts.Limit > 0 && len(s.pool) > s.opts.Limit {
		s.rows = s.pool[:s.opts.Limit]
	}
}

func (s *Session) begin() {
	s.position = 0
	s.startedAt = s.opts.Now()
	s.endedAt = time.Time{}
	s.enterPosition()
}

func (s *Session) next() {
	s.position++
	s.enterPosition()
}

func (s *Session) enterPosition() {
	s.selected = ""
	s.hasSelected = false
	if s.position >= len(s.rows) {
		s.position = len(s.rows)
		s.current = model.Question{}
		s.state = Completed
		s.endedAt = s.opts.Now()
		return
	}
	s.current = s.builder.Build(s.pool, s.rows[s.position])
	s.state = AwaitingAnswer
}

func (s *Session) isOption(option string) bool {
	for _, opt := range s.current.Options {
		if opt == option {
			return true
		}
	}
	return false
}
