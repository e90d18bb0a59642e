package model

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

type RawDayBlock struct {
	Day    string `json:"day" mapstructure:"day" validate:"required"`
	Start  string `json:"start" mapstructure:"start" validate:"required"`
	End    string `json:"end" mapstructure:"end" validate:"required"`
	Format string `json:"format,omitempty" mapstructure:"format"`
}

type RawSection struct {
	Professor string       `json:"professor" mapstructure:"professor"`
	Day1      *RawDayBlock `json:"day1,omitempty" mapstructure:"day1"`
	Day2      *RawDayBlock `json:"day2,omitempty" mapstructure:"day2"`
}

type RawCourse struct {
	Course   string       `json:"course" mapstructure:"course" validate:"required"`
	Sections []RawSection `json:"sections" mapstructure:"sections" validate:"required,min=1,dive"`
}

type RawCatalog struct {
	Program string      `json:"program,omitempty" mapstructure:"program"`
	Term    string      `json:"term,omitempty" mapstructure:"term"`
	Courses []RawCourse `json:"courses" mapstructure:"courses" validate:"required,min=1,dive"`
}

// RawOptions are the search options a payload may carry next to its courses
type RawOptions struct {
	ExcludeWeekend *bool  `json:"exclude_weekend,omitempty" mapstructure:"exclude_weekend"`
	SoftWeekend    bool   `json:"soft_weekend,omitempty" mapstructure:"soft_weekend"`
	ResultCount    int    `json:"result_count,omitempty" mapstructure:"result_count"`
	MaxExplored    uint64 `json:"max_explored,omitempty" mapstructure:"max_explored"`
	RequireFormat  string `json:"require_format,omitempty" mapstructure:"require_format"`
}

var structValidator = newStructValidator()

// Field names in validation errors follow the wire names so they can be reported as paths
func newStructValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

func CatalogFromJson(file string) (Catalog, RawOptions, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Catalog{}, RawOptions{}, fmt.Errorf("cannot read catalog file: %w", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Catalog{}, RawOptions{}, malformed("", "invalid json: %v", err)
	}

	rawCatalog, rawOptions, err := DecodeRawCatalog(inputJson)
	if err != nil {
		return Catalog{}, RawOptions{}, err
	}
	catalog, err := ProcessRawCatalog(rawCatalog)
	return catalog, rawOptions, err
}

// DecodeRawCatalog reads the catalog and the options carried by a generic json document
func DecodeRawCatalog(inputJson map[string]any) (RawCatalog, RawOptions, error) {
	var rawCatalog RawCatalog
	if err := mapstructure.Decode(inputJson, &rawCatalog); err != nil {
		return RawCatalog{}, RawOptions{}, malformed("", "%v", err)
	}
	var rawOptions RawOptions
	if err := mapstructure.Decode(inputJson, &rawOptions); err != nil {
		return RawCatalog{}, RawOptions{}, malformed("", "%v", err)
	}
	return rawCatalog, rawOptions, nil
}

type rawSelections struct {
	Selections []SelectionRequest `mapstructure:"selections" validate:"required,min=1,dive"`
}

// DecodeSelections reads the "selections" list of a generic json document
func DecodeSelections(inputJson map[string]any) ([]SelectionRequest, error) {
	var raw rawSelections
	if err := mapstructure.Decode(inputJson, &raw); err != nil {
		return nil, malformed("selections", "%v", err)
	}
	if err := structValidator.Struct(raw); err != nil {
		return nil, validationError(err)
	}
	return raw.Selections, nil
}

func ProcessRawCatalog(rawCatalog RawCatalog) (Catalog, error) {
	if err := structValidator.Struct(rawCatalog); err != nil {
		return Catalog{}, validationError(err)
	}

	catalog := Catalog{
		Program: strings.TrimSpace(rawCatalog.Program),
		Term:    strings.TrimSpace(rawCatalog.Term),
		Courses: make([]Course, 0, len(rawCatalog.Courses)),
	}

	names := make(map[string]int)
	for i, rawCourse := range rawCatalog.Courses {
		coursePath := fmt.Sprintf("courses[%d]", i)

		//** Manage course name
		name := strings.TrimSpace(rawCourse.Course)
		if name == "" {
			return Catalog{}, malformed(coursePath+".course", "must not be blank")
		}
		if previous, ok := names[name]; ok {
			return Catalog{}, malformed(coursePath+".course", "duplicates the name of courses[%d]", previous)
		}
		names[name] = i

		//** Manage sections
		course := Course{
			Id:       uint64(i),
			Name:     name,
			Sections: make([]Section, 0, len(rawCourse.Sections)),
		}
		for j, rawSection := range rawCourse.Sections {
			sectionPath := fmt.Sprintf("%v.sections[%d]", coursePath, j)

			slots := make([]MeetingSlot, 0, 2)
			for k, block := range []*RawDayBlock{rawSection.Day1, rawSection.Day2} {
				if block == nil {
					continue
				}
				slot, err := processDayBlock(*block, fmt.Sprintf("%v.day%d", sectionPath, k+1))
				if err != nil {
					return Catalog{}, err
				}
				slots = append(slots, slot)
			}

			if len(slots) == 0 {
				return Catalog{}, malformed(sectionPath, "must meet at least once a week")
			}
			if len(slots) == 2 && Overlaps(slots[0], slots[1]) {
				return Catalog{}, malformed(sectionPath, "meetings overlap each other")
			}

			course.Sections = append(course.Sections, Section{
				Id:         uint64(j),
				Course:     course.Id,
				Instructor: strings.TrimSpace(rawSection.Professor),
				Slots:      slots,
			})
		}

		catalog.Courses = append(catalog.Courses, course)
	}

	return catalog, nil
}

func processDayBlock(block RawDayBlock, path string) (MeetingSlot, error) {
	day, err := ParseWeekday(block.Day)
	if err != nil {
		return MeetingSlot{}, malformed(path+".day", "%v", err)
	}
	start, err := ParseClock(block.Start)
	if err != nil {
		return MeetingSlot{}, malformed(path+".start", "%v", err)
	}
	end, err := ParseClock(block.End)
	if err != nil {
		return MeetingSlot{}, malformed(path+".end", "%v", err)
	}
	if start >= end {
		return MeetingSlot{}, malformed(path, "start %v must be before end %v", block.Start, block.End)
	}
	format, err := ParseFormat(block.Format)
	if err != nil {
		return MeetingSlot{}, malformed(path+".format", "%v", err)
	}

	return MeetingSlot{Day: day, Start: start, End: end, Format: format}, nil
}

// Options translates the raw options, falling back to defaultCount when no result count is given.
// A positive maxCount bounds the result count a payload may ask for.
func (rawOptions RawOptions) Options(defaultCount, maxCount int, defaultExcludeWeekend bool) (Options, error) {
	options := Options{
		ExcludeWeekend: defaultExcludeWeekend,
		SoftWeekend:    rawOptions.SoftWeekend,
		ResultCount:    rawOptions.ResultCount,
		MaxExplored:    rawOptions.MaxExplored,
	}
	if rawOptions.ExcludeWeekend != nil {
		options.ExcludeWeekend = *rawOptions.ExcludeWeekend
	}
	if options.ResultCount == 0 {
		options.ResultCount = defaultCount
	}
	if maxCount > 0 && options.ResultCount > maxCount {
		return Options{}, malformed("result_count", "must be at most %d, got %d", maxCount, options.ResultCount)
	}
	if rawOptions.RequireFormat != "" {
		format, err := ParseFormat(rawOptions.RequireFormat)
		if err != nil {
			return Options{}, malformed("require_format", "%v", err)
		}
		options.RequireFormat = &format
	}
	return options, options.Validate()
}

func validationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return malformed("", "%v", err)
	}

	fieldError := validationErrors[0]
	// Drop the root struct name from the namespace
	_, path, _ := strings.Cut(fieldError.Namespace(), ".")

	switch fieldError.Tag() {
	case "required":
		return malformed(path, "is required")
	case "min":
		return malformed(path, "must have at least %v entries", fieldError.Param())
	default:
		return malformed(path, "failed the %v check", fieldError.Tag())
	}
}
