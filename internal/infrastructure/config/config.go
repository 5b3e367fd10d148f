package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Inference InferenceConfig `mapstructure:"inference"`
	Models    ModelsConfig    `mapstructure:"models"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// InferenceConfig holds the model backend configuration
type InferenceConfig struct {
	HubURL       string        `mapstructure:"hub_url"`
	InferenceURL string        `mapstructure:"inference_url"`
	Token        string        `mapstructure:"token"`
	Timeout      time.Duration `mapstructure:"timeout"`
	WaitForModel bool          `mapstructure:"wait_for_model"`
}

// ModelsConfig overrides the registry defaults per capability
type ModelsConfig struct {
	Sentiment      ModelOverride `mapstructure:"sentiment"`
	Classification ModelOverride `mapstructure:"classification"`
	NER            ModelOverride `mapstructure:"ner"`
	QA             ModelOverride `mapstructure:"qa"`
	Translation    ModelOverride `mapstructure:"translation"`

	TranslationMaxLength int `mapstructure:"translation_max_length"`

	// PunctuateShortTranslations appends a period to inputs of two words or fewer
	PunctuateShortTranslations bool `mapstructure:"punctuate_short_translations"`
}

// ModelOverride replaces a registry model identifier or its fallback
type ModelOverride struct {
	Model    string `mapstructure:"model"`
	Fallback string `mapstructure:"fallback"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from defaults, an optional config file and
// SMARTNLP_ prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("SMARTNLP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("inference.hub_url", "https://huggingface.co")
	v.SetDefault("inference.inference_url", "https://api-inference.huggingface.co")
	v.SetDefault("inference.token", "")
	v.SetDefault("inference.timeout", 60*time.Second)
	v.SetDefault("inference.wait_for_model", true)

	// AutomaticEnv only resolves keys viper already knows about
	for _, c := range []string{"sentiment", "classification", "ner", "qa", "translation"} {
		v.SetDefault("models."+c+".model", "")
		v.SetDefault("models."+c+".fallback", "")
	}
	v.SetDefault("models.translation_max_length", 50)
	v.SetDefault("models.punctuate_short_translations", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.development", false)
}
