package cli

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults of the file locations and the listen address
const (
	DefaultAddr        = "127.0.0.1:8501"
	DefaultStorePath   = "Total_Words.xlsx"
	DefaultHistoryPath = "student_print_history.csv"
)

// Settings is the resolved configuration
type Settings struct {
	StorePath   string
	HistoryPath string
	Addr        string

	Provider        string
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration

	SpellThreshold  float64
	SpellMaxResults int
	AutoCorrect     bool

	CardsPerPage int
	ReviewRows   int
	Seed         int64

	SessionTTL time.Duration

	LogFile string
	Debug   bool
}

// SetDefaults registers the default value of every config key
func SetDefaults() {
	viper.SetDefault("store.path", DefaultStorePath)
	viper.SetDefault("history.path", DefaultHistoryPath)
	viper.SetDefault("server.addr", DefaultAddr)
	viper.SetDefault("server.session_ttl", 12*time.Hour)

	viper.SetDefault("generator.provider", "openai")
	viper.SetDefault("generator.model", "deepseek-chat")
	viper.SetDefault("generator.base_url", "https://api.deepseek.com")
	viper.SetDefault("generator.timeout", 60*time.Second)
	viper.SetDefault("generator.breaker_failures", 3)
	viper.SetDefault("generator.breaker_cooldown", 30*time.Second)

	viper.SetDefault("spell.threshold", 0.8)
	viper.SetDefault("spell.max_results", 3)
	viper.SetDefault("spell.auto_correct", true)

	viper.SetDefault("render.cards_per_page", 5)
	viper.SetDefault("render.review_rows", 4)
	viper.SetDefault("render.seed", 0)

	viper.SetDefault("log.file", "")
	viper.SetDefault("log.debug", false)
}

// LoadSettings reads the current configuration from viper
func LoadSettings() Settings {
	provider := viper.GetString("generator.provider")
	return Settings{
		StorePath:   viper.GetString("store.path"),
		HistoryPath: viper.GetString("history.path"),
		Addr:        viper.GetString("server.addr"),

		Provider:        provider,
		APIKey:          GetAPIKey(provider),
		Model:           viper.GetString("generator.model"),
		BaseURL:         viper.GetString("generator.base_url"),
		Timeout:         viper.GetDuration("generator.timeout"),
		BreakerFailures: viper.GetUint32("generator.breaker_failures"),
		BreakerCooldown: viper.GetDuration("generator.breaker_cooldown"),

		SpellThreshold:  viper.GetFloat64("spell.threshold"),
		SpellMaxResults: viper.GetInt("spell.max_results"),
		AutoCorrect:     viper.GetBool("spell.auto_correct"),

		CardsPerPage: viper.GetInt("render.cards_per_page"),
		ReviewRows:   viper.GetInt("render.review_rows"),
		Seed:         viper.GetInt64("render.seed"),

		SessionTTL: viper.GetDuration("server.session_ttl"),

		LogFile: viper.GetString("log.file"),
		Debug:   viper.GetBool("log.debug"),
	}
}
