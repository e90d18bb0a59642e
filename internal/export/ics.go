package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/limaJavier/classscheduler/pkg/model"
)

const productId = "-//classscheduler//timetable export//EN"

// Namespace of the event UIDs, so exporting the same schedule twice yields the same events
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("classscheduler/events"))

// Term places the weekly pattern of a schedule on the calendar
type Term struct {
	Start time.Time // First day of the term, its location is the one of every event
	Weeks int       // Occurrences of each meeting, 0 for open ended
}

// Calendar turns a schedule into one weekly recurring event per meeting
func Calendar(catalog model.Catalog, schedule model.RankedResult, term Term) *ics.Calendar {
	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId(productId)
	calendar.SetXWRTimezone(term.Start.Location().String())
	if name := strings.TrimSpace(catalog.Program + " " + catalog.Term); name != "" {
		calendar.SetXWRCalName(name)
	}

	for _, selection := range schedule.Selections {
		course := catalog.Courses[selection.Course]
		section := catalog.Section(selection)

		for i, slot := range section.Slots {
			key := fmt.Sprintf("%v/%v/%v/%v/%d", catalog.Program, catalog.Term, course.Name, section.Id, i)
			event := calendar.AddEvent(uuid.NewSHA1(eventNamespace, []byte(key)).String())

			date := firstOccurrence(term.Start, slot.Day)
			event.SetDtStampTime(term.Start)
			event.SetStartAt(atClock(date, slot.Start))
			event.SetEndAt(atClock(date, slot.End))
			event.SetSummary(course.Name)
			event.SetDescription(describe(section))
			if slot.Format == model.Online {
				event.SetLocation("Online")
			}

			rule := "FREQ=WEEKLY;BYDAY=" + strings.ToUpper(slot.Day.String())
			if term.Weeks > 0 {
				rule += fmt.Sprintf(";COUNT=%d", term.Weeks)
			}
			event.AddRrule(rule)
		}
	}

	return calendar
}

func WriteCalendar(w io.Writer, catalog model.Catalog, schedule model.RankedResult, term Term) error {
	return Calendar(catalog, schedule, term).SerializeTo(w, ics.WithNewLineWindows)
}

// firstOccurrence returns midnight of the first day on or after start that falls on day
func firstOccurrence(start time.Time, day model.Weekday) time.Time {
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	target := time.Weekday((int(day) + 1) % model.DaysPerWeek)
	offset := (int(target) - int(midnight.Weekday()) + model.DaysPerWeek) % model.DaysPerWeek
	return midnight.AddDate(0, 0, offset)
}

// atClock reads minutes after midnight on the wall clock of date
func atClock(date time.Time, minutes uint16) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(minutes/60), int(minutes%60), 0, 0, date.Location())
}

func describe(section model.Section) string {
	description := fmt.Sprintf("Section %d", section.Id+1)
	if section.Instructor != "" {
		description += ", " + section.Instructor
	}
	return description
}
