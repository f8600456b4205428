package eval

import "fmt"

// StepLimitError is returned when Options.MaxSteps beta steps were performed
// and the term is still not in normal form.
type StepLimitError struct {
	Steps int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("did not normalize within %d steps", e.Steps)
}
