package timegrid

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfiguration means the operating window or slot length cannot
// produce a stable grid. A slot length that does not evenly divide the window
// is rejected rather than truncated so the grid is identical across calls.
var ErrInvalidConfiguration = errors.New("invalid grid configuration")

// Slot is a half-open interval [Start, End) in minutes since midnight
type Slot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Label returns the slot as "HH:MM-HH:MM"
func (s Slot) Label() string {
	return FormatClock(s.Start) + "-" + FormatClock(s.End)
}

// Config holds validated grid parameters for one operating day
type Config struct {
	Open        int // minutes since midnight
	Close       int
	SlotMinutes int
}

// NewConfig parses and validates "HH:MM" opening hours and a slot length
func NewConfig(open, close string, slotMinutes int) (Config, error) {
	openMin, err := ParseClock(open)
	if err != nil {
		return Config{}, fmt.Errorf("%w: bad opening time %q", ErrInvalidConfiguration, open)
	}
	closeMin, err := ParseClock(close)
	if err != nil {
		return Config{}, fmt.Errorf("%w: bad closing time %q", ErrInvalidConfiguration, close)
	}
	if _, err := Slots(openMin, closeMin, slotMinutes); err != nil {
		return Config{}, err
	}
	return Config{Open: openMin, Close: closeMin, SlotMinutes: slotMinutes}, nil
}

// Slots generates the canonical ordered slot sequence for an operating
// window. The result depends only on the three parameters: contiguous,
// non-overlapping, covering exactly [open, close).
func Slots(open, close, slotMinutes int) ([]Slot, error) {
	if close <= open {
		return nil, fmt.Errorf("%w: closing time must be after opening time", ErrInvalidConfiguration)
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot length must be positive", ErrInvalidConfiguration)
	}
	if (close-open)%slotMinutes != 0 {
		return nil, fmt.Errorf("%w: slot length %dm does not divide operating window", ErrInvalidConfiguration, slotMinutes)
	}

	slots := make([]Slot, 0, (close-open)/slotMinutes)
	for start := open; start < close; start += slotMinutes {
		slots = append(slots, Slot{Start: start, End: start + slotMinutes})
	}
	return slots, nil
}

// Slots returns the grid for a validated config
func (c Config) Slots() []Slot {
	slots, _ := Slots(c.Open, c.Close, c.SlotMinutes)
	return slots
}

// SlotAt returns the grid slot beginning at start, if one exists
func (c Config) SlotAt(start int) (Slot, bool) {
	if start < c.Open || start >= c.Close || (start-c.Open)%c.SlotMinutes != 0 {
		return Slot{}, false
	}
	return Slot{Start: start, End: start + c.SlotMinutes}, true
}

// Span returns count contiguous grid slots beginning at start. It fails when
// start is off the grid, count is not positive, or the span would run past
// closing time.
func (c Config) Span(start, count int) ([]Slot, bool) {
	if count <= 0 {
		return nil, false
	}
	first, ok := c.SlotAt(start)
	if !ok || start+count*c.SlotMinutes > c.Close {
		return nil, false
	}
	span := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		span = append(span, Slot{
			Start: first.Start + i*c.SlotMinutes,
			End:   first.Start + (i+1)*c.SlotMinutes,
		})
	}
	return span, true
}

// ParseClock converts "HH:MM" to minutes since midnight
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight to "HH:MM"
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
