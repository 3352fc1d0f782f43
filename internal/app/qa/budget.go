package qa

import "github.com/cockroachdb/errors"

// ErrBudgetExhausted signals the turn's model call allowance is spent.
var ErrBudgetExhausted = errors.New("model call budget exhausted for this turn")

// CallBudget caps the number of model calls a single turn may make. A fresh
// budget is created per utterance and handed down the call chain, so no code
// path can issue a second call within the same turn.
type CallBudget struct {
	remaining int
}

// NewCallBudget returns a budget allowing one model call.
func NewCallBudget() *CallBudget {
	return &CallBudget{remaining: 1}
}

// Spend consumes one call. It fails once the budget is empty.
func (b *CallBudget) Spend() error {
	if b.remaining <= 0 {
		return ErrBudgetExhausted
	}
	b.remaining--
	return nil
}

// Remaining reports how many calls are left.
func (b *CallBudget) Remaining() int {
	return b.remaining
}
