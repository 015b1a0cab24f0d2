package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/questionnaire"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	// Keep the user's config directory out of the search path.
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Empty(t, cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "answers", cfg.Server.AnswersDir)
	assert.InDelta(t, 5.0, cfg.Server.RateLimit, 0.001)
	assert.Equal(t, 20, cfg.Server.RateBurst)
	assert.Equal(t, 10, cfg.Content.TimeoutSecs)
	assert.Equal(t, "strict", cfg.Questionnaire.RatingPolicy)
	assert.Equal(t, "when_negative", cfg.Questionnaire.FollowUpPolicy)
	assert.Equal(t, "answers", cfg.Export.Dir)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/medval
questionnaire:
  rating_policy: lenient
  general_info_scale_from: 3
content:
  base_url: http://127.0.0.1:8000
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/medval", cfg.Store.DatabaseURL)
	assert.Equal(t, "lenient", cfg.Questionnaire.RatingPolicy)
	assert.Equal(t, 3, cfg.Questionnaire.GeneralInfoScaleFrom)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Content.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("MEDVAL_STORE_DRIVER", "postgres")
	t.Setenv("MEDVAL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEDVAL_SERVER_PORT=9100\n"), 0644))
	// godotenv does not override variables that are already set; make sure
	// this one is not, and clean it up afterwards.
	t.Setenv("MEDVAL_SERVER_PORT", "")
	os.Unsetenv("MEDVAL_SERVER_PORT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestQuestionnaireOptions(t *testing.T) {
	opts, err := QuestionnaireConfig{RatingPolicy: "lenient", FollowUpPolicy: "optional", GeneralInfoScaleFrom: 2}.Options()
	require.NoError(t, err)
	assert.Equal(t, questionnaire.RatingLenient, opts.RatingPolicy)
	assert.Equal(t, questionnaire.FollowUpOptional, opts.FollowUpPolicy)
	assert.Equal(t, 2, opts.GeneralInfoScaleFrom)

	_, err = QuestionnaireConfig{RatingPolicy: "sometimes"}.Options()
	assert.Error(t, err)

	_, err = QuestionnaireConfig{GeneralInfoScaleFrom: -1}.Options()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "medval.log")
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json", File: path}))

	zap.L().Info("hello")
	_ = zap.L().Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.Content.TimeoutSecs = 10
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "medval.db"
	cfg.Server.Port = 8000
	cfg.Server.AnswersDir = "answers"
	cfg.Server.RateLimit = 5
	cfg.Server.RateBurst = 20
	return cfg
}

func TestValidateServe(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	cfg.Store.Driver = "mysql"
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "store.driver")

	cfg = validDefaults()
	cfg.Store.Driver = "postgres"
	cfg.Store.DatabaseURL = ""
	err = cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")
}

func TestValidateRun(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("run"))

	cfg.Questionnaire.FollowUpPolicy = "always"
	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "follow_up_policy")
}

func TestValidateGenerate(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")

	cfg.LLM.Provider = "mock"
	assert.NoError(t, cfg.Validate("generate"))
}
