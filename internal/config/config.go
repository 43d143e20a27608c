package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default output paths, used when configuration cannot be loaded at all.
const (
	DefaultSAMOutput   = "opportunities.json"
	DefaultSpendOutput = "intelligence_top.json"
)

// Config holds the full application configuration.
type Config struct {
	SAM    SAMConfig    `yaml:"sam" mapstructure:"sam"`
	Spend  SpendConfig  `yaml:"spend" mapstructure:"spend"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Run    RunConfig    `yaml:"run" mapstructure:"run"`
	RunLog RunLogConfig `yaml:"runlog" mapstructure:"runlog"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SAMConfig configures the SAM.gov opportunities pipeline.
type SAMConfig struct {
	APIKey       string   `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string   `yaml:"base_url" mapstructure:"base_url"`
	NAICSCodes   []string `yaml:"naics_codes" mapstructure:"naics_codes"`
	Keywords     []string `yaml:"keywords" mapstructure:"keywords"`
	PostingTypes []string `yaml:"posting_types" mapstructure:"posting_types"`
	State        string   `yaml:"state" mapstructure:"state"`
	LookbackDays int      `yaml:"lookback_days" mapstructure:"lookback_days"`
	Limit        int      `yaml:"limit" mapstructure:"limit"`
	Output       string   `yaml:"output" mapstructure:"output"`
}

// SpendConfig configures the USAspending award intelligence pipeline.
type SpendConfig struct {
	BaseURL        string   `yaml:"base_url" mapstructure:"base_url"`
	NAICSCodes     []string `yaml:"naics_codes" mapstructure:"naics_codes"`
	AwardTypeCodes []string `yaml:"award_type_codes" mapstructure:"award_type_codes"`
	States         []string `yaml:"states" mapstructure:"states"`
	LookbackDays   []int    `yaml:"lookback_days" mapstructure:"lookback_days"`
	Limit          int      `yaml:"limit" mapstructure:"limit"`
	TopCompetitors int      `yaml:"top_competitors" mapstructure:"top_competitors"`
	TopAgencies    int      `yaml:"top_agencies" mapstructure:"top_agencies"`
	Output         string   `yaml:"output" mapstructure:"output"`
}

// FetchConfig configures outbound HTTP behavior shared by both sources.
type FetchConfig struct {
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Pause       time.Duration `yaml:"pause" mapstructure:"pause"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"`
	// BreakerThreshold is the number of consecutive failed queries against
	// one source after which the rest of its queries are skipped. 0 disables.
	BreakerThreshold int           `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown" mapstructure:"breaker_cooldown"`
}

// RunConfig bounds a single pipeline invocation.
type RunConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RunLogConfig configures the optional SQLite run ledger. Empty path disables it.
type RunLogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The SAM key is conventionally exported without a prefix.
	if err := v.BindEnv("sam.api_key", "INTEL_SAM_API_KEY", "SAM_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind sam api key")
	}

	// Defaults
	v.SetDefault("sam.base_url", "https://api.sam.gov/opportunities/v2/search")
	v.SetDefault("sam.naics_codes", []string{"238290", "236220", "238210", "561210"})
	v.SetDefault("sam.keywords", []string{})
	v.SetDefault("sam.posting_types", []string{"o", "k"})
	v.SetDefault("sam.state", "HI")
	v.SetDefault("sam.lookback_days", 60)
	v.SetDefault("sam.limit", 100)
	v.SetDefault("sam.output", DefaultSAMOutput)
	v.SetDefault("spend.base_url", "https://api.usaspending.gov/api/v2/search/spending_by_award/")
	v.SetDefault("spend.naics_codes", []string{"238290", "236220", "238210", "561210"})
	v.SetDefault("spend.award_type_codes", []string{"A", "B", "C", "D"})
	v.SetDefault("spend.states", []string{"HI"})
	v.SetDefault("spend.lookback_days", []int{1825})
	v.SetDefault("spend.limit", 500)
	v.SetDefault("spend.top_competitors", 10)
	v.SetDefault("spend.top_agencies", 5)
	v.SetDefault("spend.output", DefaultSpendOutput)
	v.SetDefault("fetch.user_agent", "govcon-intel/1.0")
	v.SetDefault("fetch.timeout", 60*time.Second)
	v.SetDefault("fetch.pause", time.Second)
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("fetch.breaker_threshold", 0)
	v.SetDefault("fetch.breaker_cooldown", 30*time.Second)
	v.SetDefault("run.timeout", 10*time.Minute)
	v.SetDefault("runlog.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks the configuration for the given mode ("opportunities",
// "spend" or "all"). A missing SAM API key is not a validation failure: the
// opportunities pipeline reports it itself so that an empty document still
// gets written.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "opportunities", "spend", "all":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Fetch.Concurrency < 1 || c.Fetch.Concurrency > 32 {
		problems = append(problems, "fetch.concurrency must be between 1 and 32")
	}
	if c.Fetch.Timeout <= 0 {
		problems = append(problems, "fetch.timeout must be > 0")
	}
	if c.Fetch.Pause < 0 {
		problems = append(problems, "fetch.pause must be >= 0")
	}
	if c.Fetch.BreakerThreshold < 0 {
		problems = append(problems, "fetch.breaker_threshold must be >= 0")
	}
	if c.Run.Timeout <= 0 {
		problems = append(problems, "run.timeout must be > 0")
	}

	if mode == "opportunities" || mode == "all" {
		if c.SAM.BaseURL == "" {
			problems = append(problems, "sam.base_url is required")
		}
		if c.SAM.Output == "" {
			problems = append(problems, "sam.output is required")
		}
		if c.SAM.Limit < 1 || c.SAM.Limit > 1000 {
			problems = append(problems, "sam.limit must be between 1 and 1000")
		}
		if c.SAM.LookbackDays < 1 || c.SAM.LookbackDays > 365 {
			problems = append(problems, "sam.lookback_days must be between 1 and 365")
		}
	}

	if mode == "spend" || mode == "all" {
		if c.Spend.BaseURL == "" {
			problems = append(problems, "spend.base_url is required")
		}
		if c.Spend.Output == "" {
			problems = append(problems, "spend.output is required")
		}
		if c.Spend.Limit < 1 || c.Spend.Limit > 500 {
			problems = append(problems, "spend.limit must be between 1 and 500")
		}
		if c.Spend.TopCompetitors < 0 || c.Spend.TopAgencies < 0 {
			problems = append(problems, "spend.top_competitors and spend.top_agencies must be >= 0")
		}
		for _, d := range c.Spend.LookbackDays {
			if d < 1 {
				problems = append(problems, "spend.lookback_days values must be > 0")
				break
			}
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
