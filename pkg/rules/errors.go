package rules

import "github.com/pkg/errors"

// Sentinel errors, one per rule-violation category. Call sites wrap these
// with errors.Wrapf to attach context; callers match the category with
// errors.Is against the sentinel, never by inspecting message text.
var (
	// ErrIllegalDraw: wrong phase, wrong player, empty sources, or
	// trash-draw failing the threshold/last-discarder rules.
	ErrIllegalDraw = errors.New("illegal draw")
	// ErrIllegalDiscard: card not held, wrong phase, wrong player.
	ErrIllegalDiscard = errors.New("illegal discard")
	// ErrIllegalLaydown: threshold not met, or cover rejected by solver.
	ErrIllegalLaydown = errors.New("illegal laydown")
	// ErrIllegalSarf: sealed meld, wrong suit/rank, joker-swap constraint
	// unmet, card not held.
	ErrIllegalSarf = errors.New("illegal sarf")
	// ErrProgrammingFault: out-of-range identifier, or a state with a
	// broken invariant (winner already set, etc). Never self-corrected.
	ErrProgrammingFault = errors.New("programming fault")
)

func illegalDraw(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIllegalDraw, format, args...)
}

func illegalDiscard(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIllegalDiscard, format, args...)
}

func illegalLaydown(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIllegalLaydown, format, args...)
}

func illegalSarf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIllegalSarf, format, args...)
}

func programmingFault(format string, args ...interface{}) error {
	return errors.Wrapf(ErrProgrammingFault, format, args...)
}
