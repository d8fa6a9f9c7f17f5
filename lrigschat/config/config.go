// lrigschat/config/config.go
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	APIKey          string   `env:"MISTRAL_API_KEY,required"`
	BaseURL         string   `env:"MISTRAL_BASE_URL" envDefault:"https://api.mistral.ai/v1"`
	DefaultModel    string   `env:"MISTRAL_DEFAULT_MODEL" envDefault:"mistral-small-latest"`
	AvailableModels []string `env:"MISTRAL_AVAILABLE_MODELS" envSeparator:","`
	ModelsFile      string   `env:"MODELS_FILE" envDefault:"models.yaml"`

	MaxImageSizeMB int `env:"MAX_IMAGE_SIZE_MB" envDefault:"5"`

	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8000"`
	SessionSecret string `env:"SESSION_SECRET"`
	Env           string `env:"LRIGSCHAT_ENV" envDefault:"development"`
}

// Load reads configuration from the environment, after a best-effort
// .env load. A missing MISTRAL_API_KEY is a fatal configuration error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	for i := range cfg.AvailableModels {
		cfg.AvailableModels[i] = strings.TrimSpace(cfg.AvailableModels[i])
	}
	if len(cfg.AvailableModels) == 0 {
		cfg.AvailableModels = []string{
			"mistral-small-latest",
			"mistral-medium-latest",
			"mistral-large-latest",
		}
	}
	if err := applyModelsFile(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
	}
	return cfg, nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// AllowedImageTypes lists the upload types the chat form accepts.
func (c Config) AllowedImageTypes() []string {
	return []string{"jpg", "jpeg", "png"}
}

// randomSecret generates a per-process session signing secret. Session
// cookies stop validating across restarts, which is fine: the stores
// they point at are gone too.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate session secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}
