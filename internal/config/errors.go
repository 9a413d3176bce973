package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing or malformed remote settings.
type ConfigurationError struct {
	Missing []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("configuration error: %v", e.Err)
	case len(e.Missing) > 0:
		return fmt.Sprintf("configuration error: missing %s", strings.Join(e.Missing, ", "))
	default:
		return "configuration error"
	}
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
