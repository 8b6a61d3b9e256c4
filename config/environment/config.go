package environment

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ImgAltText/models"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultConfigFile = "alttext.yaml"
	DefaultModel      = "gemini-1.5-flash"
	DefaultGeminiURL  = "https://generativelanguage.googleapis.com/v1beta"

	// Gemini also speaks the OpenAI chat completions protocol.
	DefaultOpenAIURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

type Config struct {
	Key        string        `mapstructure:"key"`
	TextPrompt string        `mapstructure:"text_prompt"`
	JSInject   JSInject      `mapstructure:"js_inject"`
	Caption    CaptionConfig `mapstructure:"caption"`
	Server     ServerConfig  `mapstructure:"server"`
	Build      BuildConfig   `mapstructure:"build"`
}

// JSInject controls registration of the runtime observer as a build entry.
type JSInject struct {
	ObserverJS bool   `mapstructure:"observer_js"`
	JSName     string `mapstructure:"js_name"`
}

type CaptionConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	Mode      string `mapstructure:"mode"`
	ImageDir  string `mapstructure:"image_dir"`
	StaticDir string `mapstructure:"static_dir"`
}

type BuildConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Mode      string `mapstructure:"mode"`
	// Entry keeps whatever shape the user wrote: a string, a list or a map.
	Entry any `mapstructure:"entry"`
}

// Load reads .env, then the optional config file, then environment overrides.
// The returned value is read-only for the rest of the process.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}
	if path == "" {
		path = os.Getenv("ALTTEXT_CONFIG")
	}
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load without the .env step, reading the config file from fs.
func LoadFs(fs afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix("ALTTEXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("key", "ALTTEXT_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("server.port", "ALTTEXT_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.mode", "ALTTEXT_SERVER_MODE", "MODE")

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		exists, _ := afero.Exists(fs, path)
		if explicit || exists {
			return Config{}, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.Build.Mode == "" {
		cfg.Build.Mode = cfg.Server.Mode
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = StaticDirFor(cfg.Server.Mode)
	}
	if cfg.Build.OutputDir == "" {
		cfg.Build.OutputDir = StaticDirFor(cfg.Build.Mode)
	}
	if cfg.Caption.BaseURL == "" && cfg.Caption.Provider == ProviderOpenAI {
		cfg.Caption.BaseURL = DefaultOpenAIURL
	}
	if cfg.Caption.BaseURL == "" {
		cfg.Caption.BaseURL = DefaultGeminiURL
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("key", "")
	v.SetDefault("text_prompt", models.DefaultPrompt)
	v.SetDefault("js_inject.observer_js", false)
	v.SetDefault("js_inject.js_name", "")
	v.SetDefault("caption.provider", ProviderGemini)
	v.SetDefault("caption.model", DefaultModel)
	v.SetDefault("caption.base_url", "")
	v.SetDefault("caption.timeout", 60*time.Second)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", ModeDevelopment)
	v.SetDefault("server.image_dir", "fromServer")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("build.output_dir", "")
	v.SetDefault("build.mode", "")
}

// StaticDirFor mirrors the demo layout: prodBuild for production, devBuild otherwise.
func StaticDirFor(mode string) string {
	if mode == ModeProduction {
		return "prodBuild"
	}
	return "devBuild"
}

// Prompt returns the configured prompt, falling back to the default one.
func (c Config) Prompt() string {
	if strings.TrimSpace(c.TextPrompt) == "" {
		return models.DefaultPrompt
	}
	return c.TextPrompt
}

func (c Config) Validate() error {
	if c.Key == "" {
		return errors.New("GEMINI_API_KEY environment variable is missing")
	}
	if c.JSInject.ObserverJS && strings.TrimSpace(c.JSInject.JSName) == "" {
		return errors.New("js_inject.js_name is required when js_inject.observer_js is enabled")
	}
	switch c.Caption.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown caption provider %q", c.Caption.Provider)
	}
	return nil
}
