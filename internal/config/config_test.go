package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, EnvDev, cfg.AppEnv)
	require.Equal(t, "halfstats-ingestor", cfg.ServiceName)
	require.Equal(t, 4, cfg.ProviderMaxAttempts)
	require.Equal(t, 700*time.Millisecond, cfg.ProviderBackoff)
	require.Equal(t, 60*time.Millisecond, cfg.ProbeDelay)
	require.Equal(t, 150*time.Millisecond, cfg.AppendDelay)
	require.Equal(t, 60, cfg.MaxProbeRound)
	require.Equal(t, 6, cfg.MissStreakLimit)
	require.Equal(t, 2025, cfg.SeasonStartYear)
	require.Equal(t, "America/Sao_Paulo", cfg.ReportTimezone)
}

func TestLoadReportTimezoneOverride(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "UTC", cfg.ReportTimezone)
}

func TestLoadRejectsInvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "qa")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsMalformedProviderURL(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresUptraceDSNWhenEnabled(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
}
