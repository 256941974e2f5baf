// Package engine implements the calculator's arithmetic state machine: digit
// and operator key presses mutate a running value and produce the displayed
// result. Operations are chained left to right with no precedence.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDigit is returned by InputDigit for anything outside '0'..'9'.
var ErrInvalidDigit = errors.New("invalid digit")

// State is the complete calculator state.
type State struct {
	// DisplayValue is the value being shown or edited. It always uses '.' as
	// the decimal point and is "0" when cleared.
	DisplayValue string
	// Operator is the operation waiting for its second operand.
	Operator Operator
	// PreviousValue is the left operand; only meaningful when HasPrevious.
	PreviousValue string
	HasPrevious   bool
	// WaitingForNewValue makes the next digit start a fresh operand.
	WaitingForNewValue bool
}

func initialState() State {
	return State{DisplayValue: "0"}
}

// Engine holds one calculator's state. It is not safe for concurrent use;
// callers drive it one input event at a time.
type Engine struct {
	state State
}

// New returns an engine in the cleared state.
func New() *Engine {
	return &Engine{state: initialState()}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	return e.state
}

// Clear resets every field to its initial value.
func (e *Engine) Clear() {
	e.state = initialState()
}

// ToggleSign negates the display value unless it is zero.
func (e *Engine) ToggleSign() {
	v := ParseNumber(e.state.DisplayValue)
	if v == 0 {
		return
	}
	e.state.DisplayValue = FormatNumber(-v)
}

// InputPercent divides the display value by 100. The operator chain is not
// consulted.
func (e *Engine) InputPercent() {
	e.state.DisplayValue = FormatNumber(ParseNumber(e.state.DisplayValue) / 100)
}

// InputDigit enters one decimal digit, starting a new operand after an
// operator and suppressing a lone leading zero otherwise.
func (e *Engine) InputDigit(d rune) error {
	if d < '0' || d > '9' {
		return fmt.Errorf("%w: %q", ErrInvalidDigit, d)
	}

	digit := string(d)
	switch {
	case e.state.WaitingForNewValue:
		e.state.DisplayValue = digit
		e.state.WaitingForNewValue = false
	case e.state.DisplayValue == "0":
		e.state.DisplayValue = digit
	default:
		e.state.DisplayValue += digit
	}
	return nil
}

// InputDot enters the decimal point. A second point in the same operand is
// ignored.
func (e *Engine) InputDot() {
	switch {
	case e.state.WaitingForNewValue:
		e.state.DisplayValue = "0."
		e.state.WaitingForNewValue = false
	case !strings.Contains(e.state.DisplayValue, "."):
		e.state.DisplayValue += "."
	}
}

// PerformOperation resolves the pending operator, if any, against the display
// value and then makes next the pending operator.
func (e *Engine) PerformOperation(next Operator) {
	input := ParseNumber(e.state.DisplayValue)

	switch {
	case !e.state.HasPrevious:
		e.state.PreviousValue = FormatNumber(input)
		e.state.HasPrevious = true
	case e.state.Operator != OpNone:
		result := FormatNumber(Apply(e.state.Operator, ParseNumber(e.state.PreviousValue), input))
		e.state.PreviousValue = result
		e.state.DisplayValue = result
	}

	e.state.WaitingForNewValue = true
	e.state.Operator = next
}

// Display returns the display value with the decimal point replaced by sep.
func (e *Engine) Display(sep string) string {
	return e.state.Display(sep)
}

// ClearLabel is the caption of the clear key.
func (e *Engine) ClearLabel() string {
	return e.state.ClearLabel()
}

// Display returns DisplayValue with the decimal point replaced by sep.
func (s State) Display(sep string) string {
	return LocalizeDisplay(s.DisplayValue, sep)
}

// ClearLabel is "AC" on a zero display and "C" otherwise. Both captions
// trigger Clear.
func (s State) ClearLabel() string {
	if s.DisplayValue == "0" {
		return "AC"
	}
	return "C"
}

// LocalizeDisplay substitutes the first '.' in value with sep.
func LocalizeDisplay(value, sep string) string {
	if sep == "" || sep == "." {
		return value
	}
	return strings.Replace(value, ".", sep, 1)
}
