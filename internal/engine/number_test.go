package engine

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: 8, want: "8"},
		{in: -2, want: "-2"},
		{in: 0.5, want: "0.5"},
		{in: 0.000001, want: "0.000001"},
		{in: 1e-7, want: "1e-7"},
		{in: -1.5e-9, want: "-1.5e-9"},
		{in: 1e21, want: "1e+21"},
		{in: 123456789012345680000, want: "123456789012345680000"},
		{in: math.Inf(1), want: "Infinity"},
		{in: math.Inf(-1), want: "-Infinity"},
		{in: math.NaN(), want: "NaN"},
	}

	for _, tc := range tests {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "0", want: 0},
		{in: "12.", want: 12},
		{in: "0.", want: 0},
		{in: "-3", want: -3},
		{in: ".5", want: 0.5},
		{in: "1e-7", want: 1e-7},
		{in: "1e-7.", want: 1e-7},
		{in: "1e", want: 1},
		{in: "1e+", want: 1},
		{in: "2.5x", want: 2.5},
		{in: "Infinity", want: math.Inf(1)},
		{in: "-Infinity5", want: math.Inf(-1)},
		{in: "1e400", want: math.Inf(1)},
	}

	for _, tc := range tests {
		if got := ParseNumber(tc.in); got != tc.want {
			t.Errorf("ParseNumber(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}

	for _, in := range []string{"", ".", "-", "abc", "NaN"} {
		if got := ParseNumber(in); !math.IsNaN(got) {
			t.Errorf("ParseNumber(%q): expected NaN, got %v", in, got)
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		op            Operator
		first, second float64
		want          float64
	}{
		{op: OpAdd, first: 2, second: 3, want: 5},
		{op: OpSubtract, first: 2, second: 3, want: -1},
		{op: OpMultiply, first: 2, second: 3, want: 6},
		{op: OpDivide, first: 3, second: 2, want: 1.5},
		{op: OpDivide, first: 3, second: 0, want: 0},
		{op: OpEquals, first: 2, second: 3, want: 3},
		{op: OpNone, first: 2, second: 3, want: 3},
	}

	for _, tc := range tests {
		if got := Apply(tc.op, tc.first, tc.second); got != tc.want {
			t.Errorf("Apply(%q, %v, %v): expected %v, got %v", tc.op, tc.first, tc.second, tc.want, got)
		}
	}
}
