package domain

import (
	"fmt"
	"strings"
)

// Stage is a canonical order lifecycle stage. The numeric value is the stage order.
type Stage int

const (
	StageOrderPlaced Stage = iota
	StagePickupScheduled
	StagePickedUp
	StageInTransit
	StageOutForDelivery
	StageDelivered
	// StageUndelivered is a terminal exception state, off the happy path.
	StageUndelivered
	// StageReturned is the RTO terminal exception state, off the happy path.
	StageReturned
)

// ColorClass is the badge color a UI uses for a stage.
type ColorClass string

const (
	ColorSuccess ColorClass = "success"
	ColorWarning ColorClass = "warning"
	ColorInfo    ColorClass = "info"
	ColorNeutral ColorClass = "neutral"
	ColorDanger  ColorClass = "danger"
)

// Result is the normalized, render-ready view of a shipment status.
type Result struct {
	// Stage is the canonical stage.
	Stage Stage `json:"canonical_stage"`
	// DisplayLabel is the human readable stage name.
	DisplayLabel string `json:"display_label"`
	// ProgressIndex is the stepper position. Indices 6 and 7 are display-only.
	ProgressIndex int `json:"progress_index"`
	// ColorClass is the badge color.
	ColorClass ColorClass `json:"color_class"`
}

type stageMeta struct {
	label    string
	progress int
	color    ColorClass
}

// stageTable is indexed by Stage.
var stageTable = [...]stageMeta{
	StageOrderPlaced:     {"Order Placed", 0, ColorNeutral},
	StagePickupScheduled: {"Pickup Scheduled", 1, ColorWarning},
	StagePickedUp:        {"Picked Up", 2, ColorInfo},
	StageInTransit:       {"In Transit", 3, ColorInfo},
	StageOutForDelivery:  {"Out for Delivery", 4, ColorWarning},
	StageDelivered:       {"Delivered", 5, ColorSuccess},
	StageUndelivered:     {"Undelivered", 6, ColorWarning},
	StageReturned:        {"Returned", 7, ColorDanger},
}

// Valid reports whether s is one of the eight canonical stages.
func (s Stage) Valid() bool {
	return s >= StageOrderPlaced && s <= StageReturned
}

// IsHappyPath reports whether s is on the forward progress line (Order Placed through Delivered).
func (s Stage) IsHappyPath() bool {
	return s >= StageOrderPlaced && s <= StageDelivered
}

// IsTerminal reports whether no further movement is expected.
func (s Stage) IsTerminal() bool {
	return s == StageDelivered || s == StageUndelivered || s == StageReturned
}

// String returns the display label, or "Unknown" for values outside the table.
func (s Stage) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return stageTable[s].label
}

// MarshalText encodes the stage as its display label.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts a display label in any casing.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStage resolves a display label (case-insensitive) to its stage.
// Unlike Normalize it is strict: anything but one of the eight labels is an error.
func ParseStage(label string) (Stage, error) {
	for s := StageOrderPlaced; s <= StageReturned; s++ {
		if strings.EqualFold(strings.TrimSpace(label), stageTable[s].label) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", label)
}

// Describe returns the table row for a stage. Values outside the table get the Order Placed row.
func Describe(s Stage) Result {
	if !s.Valid() {
		s = StageOrderPlaced
	}
	meta := stageTable[s]
	return Result{
		Stage:         s,
		DisplayLabel:  meta.label,
		ProgressIndex: meta.progress,
		ColorClass:    meta.color,
	}
}

// Stages returns every stage row in stage order.
func Stages() []Result {
	rows := make([]Result, 0, len(stageTable))
	for s := StageOrderPlaced; s <= StageReturned; s++ {
		rows = append(rows, Describe(s))
	}
	return rows
}

// HappyPath returns the six stepper rows, Order Placed through Delivered.
func HappyPath() []Result {
	return Stages()[:StageDelivered+1]
}
