package model

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrUnknownSelection = errors.New("unknown selection")
)

// MalformedInputError points at the offending field with a dotted path such as "courses[2].sections[0].day1.start"
type MalformedInputError struct {
	Path   string
	Reason string
}

func (err *MalformedInputError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("malformed input: %v", err.Reason)
	}
	return fmt.Sprintf("malformed input at %v: %v", err.Path, err.Reason)
}

func (err *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(path string, format string, args ...any) error {
	return &MalformedInputError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

type UnknownSelectionError struct {
	Course  string
	Section uint64
	Reason  string
}

func (err *UnknownSelectionError) Error() string {
	return fmt.Sprintf("unknown selection %v/%v: %v", err.Course, err.Section, err.Reason)
}

func (err *UnknownSelectionError) Is(target error) bool {
	return target == ErrUnknownSelection
}
