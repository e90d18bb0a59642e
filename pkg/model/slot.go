package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Format uint8

const (
	InPerson Format = iota
	Online
)

var formatTags = map[string]Format{
	"":          InPerson,
	"in-person": InPerson,
	"inperson":  InPerson,
	"in_person": InPerson,
	"in person": InPerson,
	"online":    Online,
}

// ParseFormat reads a delivery tag. An empty tag stands for in-person delivery.
func ParseFormat(tag string) (Format, error) {
	format, ok := formatTags[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return 0, fmt.Errorf("unrecognized format %q", tag)
	}
	return format, nil
}

func (format Format) String() string {
	if format == Online {
		return "online"
	}
	return "in-person"
}

func (format Format) MarshalText() ([]byte, error) {
	return []byte(format.String()), nil
}

func (format *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*format = parsed
	return nil
}

const MinutesPerDay = 24 * 60

// MeetingSlot is a weekly meeting in minutes since midnight, start inclusive and end exclusive
type MeetingSlot struct {
	Day    Weekday
	Start  uint16
	End    uint16
	Format Format
}

// Window is the shared part of two overlapping slots
type Window struct {
	Day   Weekday
	Start uint16
	End   uint16
}

func (slot MeetingSlot) Duration() uint16 {
	return slot.End - slot.Start
}

func (slot MeetingSlot) String() string {
	return fmt.Sprintf("%v %v-%v %v", slot.Day, FormatClock(slot.Start), FormatClock(slot.End), slot.Format)
}

type slotJson struct {
	Day    Weekday `json:"day"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Format Format  `json:"format"`
}

func (slot MeetingSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(slotJson{slot.Day, FormatClock(slot.Start), FormatClock(slot.End), slot.Format})
}

func (slot *MeetingSlot) UnmarshalJSON(data []byte) error {
	var raw slotJson
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, end, err := parseInterval(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*slot = MeetingSlot{Day: raw.Day, Start: start, End: end, Format: raw.Format}
	return nil
}

func (window Window) String() string {
	return fmt.Sprintf("%v %v-%v", window.Day, FormatClock(window.Start), FormatClock(window.End))
}

type windowJson struct {
	Day   Weekday `json:"day"`
	Start string  `json:"start"`
	End   string  `json:"end"`
}

func (window Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(windowJson{window.Day, FormatClock(window.Start), FormatClock(window.End)})
}

func (window *Window) UnmarshalJSON(data []byte) error {
	var raw windowJson
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, end, err := parseInterval(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*window = Window{Day: raw.Day, Start: start, End: end}
	return nil
}

func parseInterval(startClock, endClock string) (start, end uint16, err error) {
	if start, err = ParseClock(startClock); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(endClock); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Overlaps reports whether both slots fall on the same day and their half-open intervals intersect.
// Back-to-back slots do not overlap.
func Overlaps(a, b MeetingSlot) bool {
	return a.Day == b.Day && a.Start < b.End && b.Start < a.End
}

func OverlapWindow(a, b MeetingSlot) (Window, bool) {
	if !Overlaps(a, b) {
		return Window{}, false
	}
	return Window{Day: a.Day, Start: max(a.Start, b.Start), End: min(a.End, b.End)}, true
}

// ParseClock converts "H:MM" or "HH:MM" into minutes since midnight
func ParseClock(value string) (uint16, error) {
	hoursStr, minutesStr, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hoursStr) == 0 || len(hoursStr) > 2 || len(minutesStr) != 2 {
		return 0, fmt.Errorf("time %q must have the form HH:MM", value)
	}

	hours, err := strconv.ParseUint(hoursStr, 10, 8)
	if err != nil || hours > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", value)
	}
	minutes, err := strconv.ParseUint(minutesStr, 10, 8)
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("time %q has an invalid minute", value)
	}

	return uint16(hours*60 + minutes), nil
}

func FormatClock(minutes uint16) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
