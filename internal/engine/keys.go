package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned by ParseKey for labels that are not on the keypad.
var ErrUnknownKey = errors.New("unknown key")

// KeyKind identifies which engine operation a key triggers.
type KeyKind int

const (
	KeyDigit KeyKind = iota
	KeyDot
	KeyClear
	KeyToggleSign
	KeyPercent
	KeyOperator
)

var keyKindNames = map[KeyKind]string{
	KeyDigit:      "digit",
	KeyDot:        "dot",
	KeyClear:      "clear",
	KeyToggleSign: "toggle_sign",
	KeyPercent:    "percent",
	KeyOperator:   "operator",
}

func (k KeyKind) String() string {
	if name, ok := keyKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Key is a single keypad button.
type Key struct {
	Kind     KeyKind
	Digit    rune
	Operator Operator
}

// DigitKey returns the key for digit d.
func DigitKey(d rune) Key { return Key{Kind: KeyDigit, Digit: d} }

// OperatorKey returns the key for op.
func OperatorKey(op Operator) Key { return Key{Kind: KeyOperator, Operator: op} }

// String returns the key's canonical label.
func (k Key) String() string {
	switch k.Kind {
	case KeyDigit:
		return string(k.Digit)
	case KeyDot:
		return "."
	case KeyClear:
		return "AC"
	case KeyToggleSign:
		return "+/-"
	case KeyPercent:
		return "%"
	case KeyOperator:
		return k.Operator.String()
	}
	return "?"
}

// ParseKey maps a keypad label to a Key. Both '.' and ',' enter the decimal
// point, and "AC" and "C" both clear.
func ParseKey(label string) (Key, error) {
	label = strings.TrimSpace(label)

	if len(label) == 1 && label[0] >= '0' && label[0] <= '9' {
		return DigitKey(rune(label[0])), nil
	}

	switch strings.ToUpper(label) {
	case ".", ",":
		return Key{Kind: KeyDot}, nil
	case "AC", "C":
		return Key{Kind: KeyClear}, nil
	case "+/-", "±", "NEG":
		return Key{Kind: KeyToggleSign}, nil
	case "%":
		return Key{Kind: KeyPercent}, nil
	}

	op, err := ParseOperator(label)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
	}
	return OperatorKey(op), nil
}

// ParseKeys parses every label, failing on the first unknown one.
func ParseKeys(labels []string) ([]Key, error) {
	keys := make([]Key, 0, len(labels))
	for i, label := range labels {
		k, err := ParseKey(label)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Press applies k to the engine.
func (e *Engine) Press(k Key) error {
	switch k.Kind {
	case KeyDigit:
		return e.InputDigit(k.Digit)
	case KeyDot:
		e.InputDot()
	case KeyClear:
		e.Clear()
	case KeyToggleSign:
		e.ToggleSign()
	case KeyPercent:
		e.InputPercent()
	case KeyOperator:
		if k.Operator == OpNone {
			return fmt.Errorf("%w: no operator", ErrUnknownKey)
		}
		e.PerformOperation(k.Operator)
	default:
		return fmt.Errorf("%w: kind %d", ErrUnknownKey, k.Kind)
	}
	return nil
}
