package calculator

import "go-chi-calculator/internal/engine"

// KeysRequest is the JSON body for key-press endpoints. Each entry is a
// keypad label: "0"-"9", "." or ",", "AC"/"C", "+/-", "%", "+", "-", "×",
// "÷", "=" (ASCII "*" and "/" are accepted too).
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// StateResponse is the rendered calculator state.
type StateResponse struct {
	ID                 string  `json:"id,omitempty"`
	Display            string  `json:"display"` // localised
	Value              string  `json:"value"`   // always uses '.'
	Operator           string  `json:"operator"`
	PreviousValue      *string `json:"previous_value"`
	WaitingForNewValue bool    `json:"waiting_for_new_value"`
	ClearLabel         string  `json:"clear_label"`
}

// KeyResult records the display after one key press.
type KeyResult struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps  []KeyResult   `json:"steps"`
	Result StateResponse `json:"result"`
}

func renderState(id string, s engine.State, sep string) StateResponse {
	resp := StateResponse{
		ID:                 id,
		Display:            s.Display(sep),
		Value:              s.DisplayValue,
		Operator:           s.Operator.String(),
		WaitingForNewValue: s.WaitingForNewValue,
		ClearLabel:         s.ClearLabel(),
	}
	if s.HasPrevious {
		prev := s.PreviousValue
		resp.PreviousValue = &prev
	}
	return resp
}
