package domain

import "fmt"

// ArgumentError reports a tool argument that is missing or unusable.
type ArgumentError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: argument %q %s", e.Tool, e.Field, e.Reason)
}
