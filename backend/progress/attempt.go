package progress

// AttemptState is the state of a single quiz attempt.
type AttemptState string

const (
	StateInProgress AttemptState = "in_progress"
	StatePassed     AttemptState = "passed"
	StateFailed     AttemptState = "failed"
)

// Passed is the pass/fail policy connecting quiz scoring to module
// completion: score must meet the passing threshold.
func Passed(score, passingScore int) bool {
	return score >= passingScore
}

// Attempt tracks the transient state of one quiz run: current question
// index, selected answer and running score. Nothing here is persisted;
// Reset clears it without touching stored progress.
type Attempt struct {
	totalQuestions int
	passingScore   int

	state    AttemptState
	index    int
	score    int
	selected int
}

func NewAttempt(totalQuestions, passingScore int) *Attempt {
	return &Attempt{
		totalQuestions: totalQuestions,
		passingScore:   passingScore,
		state:          StateInProgress,
		selected:       -1,
	}
}

func (a *Attempt) State() AttemptState { return a.state }
func (a *Attempt) Score() int          { return a.score }
func (a *Attempt) Index() int          { return a.index }

// Selected returns the option chosen for the current question, -1 when none.
func (a *Attempt) Selected() int { return a.selected }

// Select records the option chosen for the current question.
func (a *Attempt) Select(option int) {
	if a.state != StateInProgress {
		return
	}
	a.selected = option
}

// Answer scores the current question and advances. Answering the last
// question moves the attempt to its terminal state.
func (a *Attempt) Answer(correct bool) AttemptState {
	if a.state != StateInProgress {
		return a.state
	}
	if correct {
		a.score++
	}
	a.index++
	a.selected = -1
	if a.index >= a.totalQuestions {
		if Passed(a.score, a.passingScore) {
			a.state = StatePassed
		} else {
			a.state = StateFailed
		}
	}
	return a.state
}

// Reset returns a terminal attempt to in-progress, clearing index, score and
// selection so the user can retry.
func (a *Attempt) Reset() {
	if a.state == StateInProgress {
		return
	}
	a.state = StateInProgress
	a.index = 0
	a.score = 0
	a.selected = -1
}
