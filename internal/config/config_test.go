package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "ekyte.com", cfg.Intake.ReservedEmailDomain)
	assert.Equal(t, 60, cfg.Intake.DefaultPhaseEffort)
	assert.Equal(t, 8, cfg.Intake.PlacementHour)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /var/lib/intake/intake.db
storage:
  driver: s3
  bucket: attachments
  force_path_style: true
intake:
  placement_hour: 9
  timezone: America/Sao_Paulo
logging:
  format: json
`), 0o600))
	t.Setenv("INTAKE_STORAGE_PREFIX", "uploads")
	t.Setenv("INTAKE_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/intake/intake.db", cfg.Database.Path)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "attachments", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.ForcePathStyle)
	assert.Equal(t, "uploads", cfg.Storage.Prefix)
	assert.Equal(t, 9, cfg.Intake.PlacementHour)
	assert.Equal(t, 60, cfg.Intake.DefaultPhaseEffort, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	loc, err := cfg.Intake.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestLoad_DBEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: from-file.db\n"), 0o600))
	t.Setenv("INTAKE_DB", "from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("INTAKE_STORAGE_DRIVER", "s3")
	t.Setenv("INTAKE_INTAKE_PLACEMENT_HOUR", "25")

	_, err := Load("")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"storage.bucket", "intake.placement_hour"}, fields)
	assert.Contains(t, err.Error(), "2 validation errors")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "ftp" }, "storage.driver"},
		{"empty db path", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"zero effort", func(c *Config) { c.Intake.DefaultPhaseEffort = 0 }, "intake.default_phase_effort"},
		{"empty alias domain", func(c *Config) { c.Intake.ReservedEmailDomain = "" }, "intake.reserved_email_domain"},
		{"bad timezone", func(c *Config) { c.Intake.Timezone = "Mars/Olympus" }, "intake.timezone"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidate_MidnightPlacementHour(t *testing.T) {
	cfg := Default()
	cfg.Intake.PlacementHour = 0
	assert.Empty(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	for _, tz := range []string{"", "Local"} {
		loc, err := (&IntakeConfig{Timezone: tz}).Location()
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	}
	loc, err := (&IntakeConfig{Timezone: "UTC"}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
