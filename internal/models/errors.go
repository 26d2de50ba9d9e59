package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrListingNotFound = errors.New("models: listing not found")
)

// ValidationError reports user-correctable problems with submitted form
// fields. It is never fatal; handlers redisplay the form with the messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "models: invalid input"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("models: invalid input (%s)", strings.Join(fields, ", "))
}
