package tools

import (
	"errors"
	"fmt"
)

// Category classifies a tool or dispatch failure. The set is closed:
// handlers and the dispatcher only ever produce these values, and the
// error response code is always one of them.
type Category string

const (
	CategoryUnknownMethod   Category = "unknown_method"
	CategoryInvalidRequest  Category = "invalid_request"
	CategoryUnknownTool     Category = "unknown_tool"
	CategoryDuplicateTool   Category = "duplicate_tool"
	CategoryInvalidArgument Category = "invalid_argument"
	CategoryFileNotFound    Category = "file_not_found"
	CategoryDirNotFound     Category = "directory_not_found"
	CategoryExecution       Category = "tool_execution"
)

// Error is a categorized failure returned by handlers and the registry.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Errorf builds a categorized Error with a formatted message.
func Errorf(cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...)}
}

// CategoryOf extracts the category from an error. Errors that are not
// a *Error fall into the tool_execution catch-all.
func CategoryOf(err error) Category {
	var te *Error
	if errors.As(err, &te) {
		return te.Category
	}
	return CategoryExecution
}
