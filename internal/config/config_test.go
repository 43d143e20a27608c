package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)
	t.Setenv("SAM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.sam.gov/opportunities/v2/search", cfg.SAM.BaseURL)
	assert.Equal(t, []string{"238290", "236220", "238210", "561210"}, cfg.SAM.NAICSCodes)
	assert.Equal(t, []string{"o", "k"}, cfg.SAM.PostingTypes)
	assert.Equal(t, "HI", cfg.SAM.State)
	assert.Equal(t, 60, cfg.SAM.LookbackDays)
	assert.Equal(t, 100, cfg.SAM.Limit)
	assert.Equal(t, "opportunities.json", cfg.SAM.Output)
	assert.Empty(t, cfg.SAM.APIKey)

	assert.Equal(t, []string{"A", "B", "C", "D"}, cfg.Spend.AwardTypeCodes)
	assert.Equal(t, []string{"HI"}, cfg.Spend.States)
	assert.Equal(t, []int{1825}, cfg.Spend.LookbackDays)
	assert.Equal(t, 500, cfg.Spend.Limit)
	assert.Equal(t, 10, cfg.Spend.TopCompetitors)
	assert.Equal(t, 5, cfg.Spend.TopAgencies)
	assert.Equal(t, "intelligence_top.json", cfg.Spend.Output)

	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, time.Second, cfg.Fetch.Pause)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Zero(t, cfg.Fetch.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.Fetch.BreakerCooldown)
	assert.Equal(t, 10*time.Minute, cfg.Run.Timeout)
	assert.Empty(t, cfg.RunLog.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sam:
  naics_codes: ["236220"]
  keywords: ["elevator", "roofing"]
  state: CA
spend:
  states: ["HI", "GU"]
  top_competitors: 3
fetch:
  timeout: 30s
  concurrency: 2
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"236220"}, cfg.SAM.NAICSCodes)
	assert.Equal(t, []string{"elevator", "roofing"}, cfg.SAM.Keywords)
	assert.Equal(t, "CA", cfg.SAM.State)
	assert.Equal(t, []string{"HI", "GU"}, cfg.Spend.States)
	assert.Equal(t, 3, cfg.Spend.TopCompetitors)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Spend.TopAgencies)
	assert.Equal(t, []string{"o", "k"}, cfg.SAM.PostingTypes)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sam:
  state: CA
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("INTEL_SAM_STATE", "HI")
	t.Setenv("INTEL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "HI", cfg.SAM.State)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadSAMKeyFromPlainEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("INTEL_SAM_API_KEY", "")
	t.Setenv("SAM_API_KEY", "plain-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "plain-key", cfg.SAM.APIKey)
}

func TestLoadSAMKeyPrefixedWins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("INTEL_SAM_API_KEY", "prefixed-key")
	t.Setenv("SAM_API_KEY", "plain-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.SAM.APIKey)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("sam: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.SAM.BaseURL = "https://api.sam.gov/opportunities/v2/search"
	cfg.SAM.Output = "opportunities.json"
	cfg.SAM.Limit = 100
	cfg.SAM.LookbackDays = 60
	cfg.Spend.BaseURL = "https://api.usaspending.gov/api/v2/search/spending_by_award/"
	cfg.Spend.Output = "intelligence_top.json"
	cfg.Spend.Limit = 500
	cfg.Spend.LookbackDays = []int{1825}
	cfg.Spend.TopCompetitors = 10
	cfg.Spend.TopAgencies = 5
	cfg.Fetch.Timeout = 60 * time.Second
	cfg.Fetch.Pause = time.Second
	cfg.Fetch.Concurrency = 4
	cfg.Run.Timeout = 10 * time.Minute
	return cfg
}

func TestValidate_AllModesPass(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"opportunities", "spend", "all"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidate_MissingAPIKeyIsNotAnError(t *testing.T) {
	cfg := validDefaults()
	cfg.SAM.APIKey = ""
	assert.NoError(t, cfg.Validate("opportunities"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Fetch.Concurrency = 0
	err := cfg.Validate("spend")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fetch.concurrency must be between 1 and 32")

	cfg.Fetch.Concurrency = 33
	err = cfg.Validate("spend")
	assert.Error(t, err)

	cfg.Fetch.Concurrency = 32
	assert.NoError(t, cfg.Validate("spend"))
}

func TestValidate_OpportunitiesFields(t *testing.T) {
	cfg := validDefaults()
	cfg.SAM.Output = ""
	cfg.SAM.Limit = 0

	err := cfg.Validate("opportunities")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sam.output is required")
	assert.Contains(t, err.Error(), "sam.limit must be between 1 and 1000")

	// Spend mode does not look at SAM settings.
	assert.NoError(t, cfg.Validate("spend"))
}

func TestValidate_SpendFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Spend.TopAgencies = -1
	cfg.Spend.LookbackDays = []int{30, 0}

	err := cfg.Validate("all")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "spend.top_competitors and spend.top_agencies must be >= 0")
	assert.Contains(t, err.Error(), "spend.lookback_days values must be > 0")
}

func TestValidate_Timeouts(t *testing.T) {
	cfg := validDefaults()
	cfg.Fetch.Timeout = 0
	cfg.Run.Timeout = 0

	err := cfg.Validate("all")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fetch.timeout must be > 0")
	assert.Contains(t, err.Error(), "run.timeout must be > 0")
}

func TestValidate_BreakerThreshold(t *testing.T) {
	cfg := validDefaults()
	cfg.Fetch.BreakerThreshold = -1
	err := cfg.Validate("spend")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fetch.breaker_threshold must be >= 0")

	cfg.Fetch.BreakerThreshold = 3
	assert.NoError(t, cfg.Validate("spend"))
}
