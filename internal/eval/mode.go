package eval

import (
	"fmt"
	"strings"
)

// SubstMode selects how a beta step substitutes the argument into the body.
type SubstMode uint8

const (
	// SubstTextual replaces every occurrence of the parameter name, including
	// occurrences under binders that shadow it. Free names of the argument can
	// be captured.
	SubstTextual SubstMode = iota
	// SubstCaptureAvoiding stops at shadowing binders and renames a binder
	// when it would capture a free name of the argument.
	SubstCaptureAvoiding
)

func (m SubstMode) String() string {
	switch m {
	case SubstTextual:
		return "textual"
	case SubstCaptureAvoiding:
		return "capture-avoiding"
	default:
		return "unknown"
	}
}

// ParseSubstMode converts a flag value to SubstMode.
func ParseSubstMode(s string) (SubstMode, error) {
	switch strings.ToLower(s) {
	case "", "textual":
		return SubstTextual, nil
	case "capture-avoiding", "hygienic":
		return SubstCaptureAvoiding, nil
	default:
		return SubstTextual, fmt.Errorf("invalid substitution mode: %q (expected: textual|capture-avoiding)", s)
	}
}
