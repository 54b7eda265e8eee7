package probes

import (
	"fmt"
)

// ErrInvalidConfig is returned when a probe configuration is invalid
type ErrInvalidConfig struct {
	ProbeName string
	Field     string
	Reason    string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration field %q in probe %q: %s", e.Field, e.ProbeName, e.Reason)
}
