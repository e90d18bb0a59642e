package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/limaJavier/classscheduler/pkg/model"
)

// Height of a grid row in minutes
const bandMinutes = 30

const summarySheet = "Summary"

// Workbook lays out a summary sheet followed by one weekly grid per schedule
func Workbook(catalog model.Catalog, schedules []model.RankedResult) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	writeSummary(f, styles, catalog, schedules)

	for rank, schedule := range schedules {
		sheet := fmt.Sprintf("Schedule %d", rank+1)
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}
		writeGrid(f, styles, sheet, catalog, schedule)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func WriteWorkbook(w io.Writer, catalog model.Catalog, schedules []model.RankedResult) error {
	f, err := Workbook(catalog, schedules)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

type styles struct {
	header   int
	meeting  int
	conflict int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles{}, err
	}
	meeting, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return styles{}, err
	}
	conflict, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, meeting: meeting, conflict: conflict}, nil
}

var summaryHeader = []string{"Rank", "Score", "Conflicts", "Days off", "Online-only days", "Idle minutes", "Weekend meetings", "Sections"}

func writeSummary(f *excelize.File, styles styles, catalog model.Catalog, schedules []model.RankedResult) {
	f.SetColWidth(summarySheet, "A", "G", 16)
	f.SetColWidth(summarySheet, "H", "H", 60)

	for i, title := range summaryHeader {
		f.SetCellValue(summarySheet, cell(colName(i), 1), title)
	}
	f.SetCellStyle(summarySheet, "A1", cell(colName(len(summaryHeader)-1), 1), styles.header)

	for rank, schedule := range schedules {
		row := rank + 2
		sections := lo.Map(schedule.Selections, func(selection model.Selection, _ int) string {
			return fmt.Sprintf("%v #%d", catalog.Courses[selection.Course].Name, selection.Section+1)
		})
		values := []any{
			rank + 1,
			schedule.Score,
			schedule.ConflictCount,
			schedule.Metrics.DaysOff,
			schedule.Metrics.OnlineOnlyDays,
			schedule.Metrics.IdleMinutes,
			schedule.Metrics.WeekendMeetings,
			strings.Join(sections, ", "),
		}
		for i, value := range values {
			f.SetCellValue(summarySheet, cell(colName(i), row), value)
		}
	}
}

// writeGrid fills one row per half-hour band between the earliest start and the latest end, one column per weekday
func writeGrid(f *excelize.File, styles styles, sheet string, catalog model.Catalog, schedule model.RankedResult) {
	type meeting struct {
		label string
		slot  model.MeetingSlot
	}
	meetings := lo.FlatMap(schedule.Selections, func(selection model.Selection, _ int) []meeting {
		name := catalog.Courses[selection.Course].Name
		return lo.Map(catalog.Section(selection).Slots, func(slot model.MeetingSlot, _ int) meeting {
			label := fmt.Sprintf("%v #%d", name, selection.Section+1)
			if slot.Format == model.Online {
				label += " (online)"
			}
			return meeting{label: label, slot: slot}
		})
	})

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", colName(model.DaysPerWeek), 22)

	f.SetCellValue(sheet, "A1", "Time")
	for day := model.Monday; day < model.DaysPerWeek; day++ {
		f.SetCellValue(sheet, cell(colName(int(day)+1), 1), day.Name())
	}
	f.SetCellStyle(sheet, "A1", cell(colName(model.DaysPerWeek), 1), styles.header)

	if len(meetings) == 0 {
		return
	}

	first := lo.MinBy(meetings, func(a, b meeting) bool { return a.slot.Start < b.slot.Start }).slot.Start
	last := lo.MaxBy(meetings, func(a, b meeting) bool { return a.slot.End > b.slot.End }).slot.End
	first -= first % bandMinutes

	row := 2
	for band := first; band < last; band += bandMinutes {
		f.SetCellValue(sheet, cell("A", row), fmt.Sprintf("%v-%v", model.FormatClock(band), model.FormatClock(band+bandMinutes)))

		for day := model.Monday; day < model.DaysPerWeek; day++ {
			labels := lo.FilterMap(meetings, func(meeting meeting, _ int) (string, bool) {
				return meeting.label, meeting.slot.Day == day && meeting.slot.Start < band+bandMinutes && band < meeting.slot.End
			})
			if len(labels) == 0 {
				continue
			}

			coordinates := cell(colName(int(day)+1), row)
			f.SetCellValue(sheet, coordinates, strings.Join(labels, "\n"))
			style := styles.meeting
			if len(labels) > 1 {
				style = styles.conflict
			}
			f.SetCellStyle(sheet, coordinates, coordinates, style)
		}
		row++
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
