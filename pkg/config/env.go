// Env loader
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	QuranBaseURL       string
	TranslationEdition string
	AudioURLTemplate   string
	HTTPTimeout        time.Duration

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	SpeechLanguage string
	SpeechBinary   string
	SpeechRate     float64
	SpeechPitch    float64
	AudioPlayer    string

	DailyCacheDriver string
	DailyCacheFile   string
	Timezone         string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSchema   string
}

// LoadConfig loads the .env file for the current APP_ENV and then resolves
// every key through viper (environment first, then CONFIG_FILE, then defaults).
func LoadConfig() (*Config, error) {
	appEnv := os.Getenv("APP_ENV")

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			fmt.Println("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env.development"); err == nil {
			fmt.Println("Loaded .env.development")
		}
	}

	v := newViper()
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("QURAN_API_BASE_URL", "https://api.alquran.cloud/v1")
	v.SetDefault("QURAN_TRANSLATION_EDITION", "hi.hindi")
	v.SetDefault("AUDIO_URL_TEMPLATE", "https://cdn.islamic.network/quran/audio/128/ar.alafasy/{number}.mp3")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 0)
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("SPEECH_LANGUAGE", "hi-IN")
	v.SetDefault("SPEECH_BINARY", "espeak-ng")
	v.SetDefault("SPEECH_RATE", 0.9)
	v.SetDefault("SPEECH_PITCH", 1.0)
	v.SetDefault("AUDIO_PLAYER_BINARY", "mpg123")
	v.SetDefault("DAILY_CACHE_DRIVER", "file")
	v.SetDefault("DAILY_CACHE_FILE", "data/daily_ayah.json")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("BLUEPRINT_DB_HOST", "localhost")
	v.SetDefault("BLUEPRINT_DB_PORT", "5432")
	v.SetDefault("BLUEPRINT_DB_DATABASE", "quran_sukoon")
	v.SetDefault("BLUEPRINT_DB_USERNAME", "postgres")
	v.SetDefault("BLUEPRINT_DB_PASSWORD", "")
	v.SetDefault("BLUEPRINT_DB_SCHEMA", "public")

	// API_KEY is the name the web build used for the Gemini credential.
	_ = v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")
	_ = v.BindEnv("CONFIG_FILE")

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppEnv:   v.GetString("APP_ENV"),
		Port:     v.GetString("PORT"),
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),

		QuranBaseURL:       strings.TrimRight(v.GetString("QURAN_API_BASE_URL"), "/"),
		TranslationEdition: v.GetString("QURAN_TRANSLATION_EDITION"),
		AudioURLTemplate:   v.GetString("AUDIO_URL_TEMPLATE"),
		HTTPTimeout:        time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,

		GeminiAPIKey:  strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiBaseURL: strings.TrimRight(v.GetString("GEMINI_BASE_URL"), "/"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),

		SpeechLanguage: v.GetString("SPEECH_LANGUAGE"),
		SpeechBinary:   v.GetString("SPEECH_BINARY"),
		SpeechRate:     v.GetFloat64("SPEECH_RATE"),
		SpeechPitch:    v.GetFloat64("SPEECH_PITCH"),
		AudioPlayer:    v.GetString("AUDIO_PLAYER_BINARY"),

		DailyCacheDriver: strings.ToLower(v.GetString("DAILY_CACHE_DRIVER")),
		DailyCacheFile:   v.GetString("DAILY_CACHE_FILE"),
		Timezone:         v.GetString("TIMEZONE"),

		DBHost:     v.GetString("BLUEPRINT_DB_HOST"),
		DBPort:     v.GetString("BLUEPRINT_DB_PORT"),
		DBName:     v.GetString("BLUEPRINT_DB_DATABASE"),
		DBUser:     v.GetString("BLUEPRINT_DB_USERNAME"),
		DBPassword: v.GetString("BLUEPRINT_DB_PASSWORD"),
		DBSchema:   v.GetString("BLUEPRINT_DB_SCHEMA"),
	}
}

// Location resolves the configured device-local zone used for day keys.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func GetAppEnv() string {
	if value, exists := os.LookupEnv("APP_ENV"); exists {
		return value
	}
	return "development"
}
