package floating

import (
	"errors"
	"fmt"
	"log/slog"
)

// ConfigError describes an option combination that cannot be honoured.
// It is reported, never fatal: the interaction continues with degraded
// behaviour.
type ConfigError struct {
	Component string
	Option    string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("%s: option %s: %s", e.Component, e.Option, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Component, e.Reason)
}

// Warn logs every ConfigError found in err at warn level. Other errors are
// logged as-is.
func Warn(logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range flatten(err) {
		var cfg *ConfigError
		if errors.As(e, &cfg) {
			logger.Warn("floating: misconfiguration", "component", cfg.Component, "option", cfg.Option, "reason", cfg.Reason)
			continue
		}
		logger.Warn("floating: "+e.Error())
	}
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
