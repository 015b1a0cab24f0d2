package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Config holds the full application configuration.
type Config struct {
	Content       ContentConfig       `yaml:"content" mapstructure:"content"`
	Questionnaire QuestionnaireConfig `yaml:"questionnaire" mapstructure:"questionnaire"`
	Export        ExportConfig        `yaml:"export" mapstructure:"export"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// ContentConfig says where questions come from. BaseURL wins over Dir.
type ContentConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Dir         string `yaml:"dir" mapstructure:"dir"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// QuestionnaireConfig selects the completion policies.
type QuestionnaireConfig struct {
	RatingPolicy         string `yaml:"rating_policy" mapstructure:"rating_policy"`
	FollowUpPolicy       string `yaml:"follow_up_policy" mapstructure:"follow_up_policy"`
	GeneralInfoScaleFrom int    `yaml:"general_info_scale_from" mapstructure:"general_info_scale_from"`
}

// Options converts the section into controller options.
func (q QuestionnaireConfig) Options() (questionnaire.Options, error) {
	rp, err := questionnaire.ParseRatingPolicy(q.RatingPolicy)
	if err != nil {
		return questionnaire.Options{}, eris.Wrap(err, "config: questionnaire.rating_policy")
	}
	fp, err := questionnaire.ParseFollowUpPolicy(q.FollowUpPolicy)
	if err != nil {
		return questionnaire.Options{}, eris.Wrap(err, "config: questionnaire.follow_up_policy")
	}
	if q.GeneralInfoScaleFrom < 0 {
		return questionnaire.Options{}, eris.New("config: questionnaire.general_info_scale_from must not be negative")
	}
	return questionnaire.Options{
		RatingPolicy:         rp,
		FollowUpPolicy:       fp,
		GeneralInfoScaleFrom: q.GeneralInfoScaleFrom,
	}, nil
}

// ExportConfig configures the local answers file.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the database backend. An empty DatabaseURL
// selects the default SQLite file.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the content backend.
type ServerConfig struct {
	Port       int     `yaml:"port" mapstructure:"port"`
	AnswersDir string  `yaml:"answers_dir" mapstructure:"answers_dir"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst  int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LLMConfig configures the provider used to generate AI answers.
type LLMConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"`
	Model           string `yaml:"model" mapstructure:"model"`
	AnthropicKey    string `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	OpenAIKey       string `yaml:"openai_api_key" mapstructure:"openai_api_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url" mapstructure:"openai_base_url"`
	GeminiKey       string `yaml:"gemini_api_key" mapstructure:"gemini_api_key"`
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries"`
	MaxOutputTokens int    `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
}

// LogConfig configures logging. File, when set, receives log output
// instead of stderr.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "medval"))
	}

	// Environment
	v.SetEnvPrefix("MEDVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("content.base_url", "")
	v.SetDefault("content.dir", "content")
	v.SetDefault("content.timeout_secs", 10)
	v.SetDefault("questionnaire.rating_policy", "strict")
	v.SetDefault("questionnaire.follow_up_policy", "when_negative")
	v.SetDefault("questionnaire.general_info_scale_from", 0)
	v.SetDefault("export.dir", "answers")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.answers_dir", "answers")
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.anthropic_api_key", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_base_url", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.max_output_tokens", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

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

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return eris.Wrap(err, "config: create log dir")
		}
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks the settings a command needs. Mode is the command name:
// "run", "serve" or "generate".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run":
		if _, err := c.Questionnaire.Options(); err != nil {
			problems = append(problems, err.Error())
		}
		if c.Content.TimeoutSecs <= 0 {
			problems = append(problems, "content.timeout_secs must be positive")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.AnswersDir == "" {
			problems = append(problems, "server.answers_dir is required")
		}
		if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
			problems = append(problems, "server.rate_limit and server.rate_burst must be positive")
		}
		problems = append(problems, c.validateStore()...)
	case "generate":
		if c.LLM.Provider == "" {
			problems = append(problems, "llm.provider is required")
		}
	case "store":
		problems = append(problems, c.validateStore()...)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	var problems []string
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required for postgres")
	}
	return problems
}
