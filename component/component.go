package component

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("component: invalid config")

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}
