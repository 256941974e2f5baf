package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownOperator is returned when a symbol does not name an operator.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator is the pending binary operation. OpEquals finalises a chain and
// OpNone means nothing has been selected since the last clear.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpEquals
)

var operatorSymbols = map[Operator]string{
	OpNone:     "",
	OpAdd:      "+",
	OpSubtract: "−",
	OpMultiply: "×",
	OpDivide:   "÷",
	OpEquals:   "=",
}

// String returns the keypad symbol, or "" for OpNone.
func (op Operator) String() string {
	return operatorSymbols[op]
}

// Arithmetic reports whether op combines two operands.
func (op Operator) Arithmetic() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// ParseOperator maps a keypad symbol (or its ASCII stand-in) to an Operator.
func ParseOperator(symbol string) (Operator, error) {
	switch symbol {
	case "+":
		return OpAdd, nil
	case "-", "−":
		return OpSubtract, nil
	case "×", "*", "x":
		return OpMultiply, nil
	case "÷", "/":
		return OpDivide, nil
	case "=":
		return OpEquals, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
}

// Apply combines first and second under op. Division by zero yields 0.
// OpEquals and OpNone pass second through unchanged.
func Apply(op Operator, first, second float64) float64 {
	switch op {
	case OpAdd:
		return first + second
	case OpSubtract:
		return first - second
	case OpMultiply:
		return first * second
	case OpDivide:
		if second == 0 {
			return 0
		}
		return first / second
	default:
		return second
	}
}
