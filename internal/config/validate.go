package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.RetryAttempts < 1 {
		return fmt.Errorf("database.retry_attempts must be >= 1 (got %d)", c.Database.RetryAttempts)
	}

	if err := c.Oracle.validate(); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}

	if err := c.Training.validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}

	return nil
}

func (o *OracleConfig) validate() error {
	if o.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", o.MaxAttempts)
	}
	if o.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %v)", o.RequestTimeout)
	}
	return nil
}

func (t *TrainingConfig) validate() error {
	if t.MaxImportWords <= 0 {
		return fmt.Errorf("max_import_words must be > 0 (got %d)", t.MaxImportWords)
	}

	limits, err := ParseSessionLimits(t.SessionLimitsRaw)
	if err != nil {
		return fmt.Errorf("session_limits: %w", err)
	}
	if len(limits) == 0 {
		return fmt.Errorf("session_limits must name at least one size")
	}
	t.SessionLimits = limits

	return nil
}

// ParseSessionLimits parses a comma-separated string of positive integers
// (e.g. "1,3,5,10,20") into a sorted-as-given slice. An empty string
// returns a nil slice.
func ParseSessionLimits(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	limits := make([]int, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", p, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("size must be positive (got %d)", n)
		}
		limits = append(limits, n)
	}

	return limits, nil
}
