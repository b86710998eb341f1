package quiz

// State is the position of a session in the quiz lifecycle.
type State int

const (
	// Loading waits for the vocabulary source.
	Loading State = iota
	// AwaitingAnswer presents the current question.
	AwaitingAnswer
	// Submitted shows feedback until the pending advance fires.
	Submitted
	// Completed means every row was answered or skipped.
	Completed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case AwaitingAnswer:
		return "awaiting-answer"
	case Submitted:
		return "submitted"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}
