package model

import (
	"fmt"
	"strings"
)

type Weekday uint8

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DaysPerWeek = 7

// Working days are Monday through Friday
const WorkingDays = 5

var Days = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

var dayCodes = [DaysPerWeek]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Accepted spellings, compared case-insensitively. The single-letter forms are the ones registrars commonly export.
var weekdayAliases = map[string]Weekday{
	"mo": Monday, "m": Monday, "mon": Monday, "monday": Monday,
	"tu": Tuesday, "tue": Tuesday, "tuesday": Tuesday,
	"we": Wednesday, "w": Wednesday, "wed": Wednesday, "wednesday": Wednesday,
	"th": Thursday, "thu": Thursday, "thursday": Thursday,
	"fr": Friday, "f": Friday, "fri": Friday, "friday": Friday,
	"sa": Saturday, "s": Saturday, "sat": Saturday, "saturday": Saturday,
	"su": Sunday, "sun": Sunday, "sunday": Sunday,
}

func ParseWeekday(code string) (Weekday, error) {
	day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return 0, fmt.Errorf("unrecognized weekday code %q", code)
	}
	return day, nil
}

func (day Weekday) Valid() bool {
	return day < DaysPerWeek
}

// String returns the two-letter code of the day
func (day Weekday) String() string {
	if !day.Valid() {
		return fmt.Sprintf("Weekday(%d)", uint8(day))
	}
	return dayCodes[day]
}

func (day Weekday) Name() string {
	return Days[day]
}

func (day Weekday) Weekend() bool {
	return day == Saturday || day == Sunday
}

func (day Weekday) MarshalText() ([]byte, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", uint8(day))
	}
	return []byte(day.String()), nil
}

func (day *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*day = parsed
	return nil
}
