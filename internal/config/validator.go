package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

func ValidStorageDrivers() []string {
	return []string{"s3", "memory"}
}

// Validate returns all invalid settings.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, ValidationError{"database.path", c.Database.Path, "must not be empty"})
	}

	if !slices.Contains(ValidStorageDrivers(), c.Storage.Driver) {
		errs = append(errs, ValidationError{"storage.driver", c.Storage.Driver,
			"must be one of " + strings.Join(ValidStorageDrivers(), ", ")})
	}
	if c.Storage.Driver == "s3" && c.Storage.Bucket == "" {
		errs = append(errs, ValidationError{"storage.bucket", c.Storage.Bucket, "is required for the s3 driver"})
	}

	if strings.TrimSpace(c.Intake.ReservedEmailDomain) == "" {
		errs = append(errs, ValidationError{"intake.reserved_email_domain", c.Intake.ReservedEmailDomain, "is required"})
	}
	if c.Intake.DefaultPhaseEffort <= 0 {
		errs = append(errs, ValidationError{"intake.default_phase_effort", c.Intake.DefaultPhaseEffort, "must be positive"})
	}
	if c.Intake.PlacementHour < 0 || c.Intake.PlacementHour > 23 {
		errs = append(errs, ValidationError{"intake.placement_hour", c.Intake.PlacementHour, "must be between 0 and 23"})
	}
	if _, err := c.Intake.Location(); err != nil {
		errs = append(errs, ValidationError{"intake.timezone", c.Intake.Timezone, "is not a known time zone"})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level,
			"must be one of " + strings.Join(ValidLogLevels(), ", ")})
	}
	if !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errs = append(errs, ValidationError{"logging.format", c.Logging.Format,
			"must be one of " + strings.Join(ValidLogFormats(), ", ")})
	}
	return errs
}
