package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Doubao    DoubaoConfig    `mapstructure:"doubao"`
	Qwen      QwenConfig      `mapstructure:"qwen"`
	Image     ImageConfig     `mapstructure:"image"`
	Render    RenderConfig    `mapstructure:"render"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	APIPrefix      string        `mapstructure:"api_prefix"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

// ModelConfig selects the chat model used for floor plan generation.
type ModelConfig struct {
	Provider string `mapstructure:"provider"`
}

type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DoubaoConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type QwenConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Temperature  float32       `mapstructure:"temperature"`
	TopP         float32       `mapstructure:"top_p"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DebugRequest bool          `mapstructure:"debug_request"`
}

// ImageConfig configures the text-to-image providers.
type ImageConfig struct {
	DefaultService string               `mapstructure:"default_service"`
	Size           string               `mapstructure:"size"`
	Services       []ImageServiceConfig `mapstructure:"services"`
}

type ImageServiceConfig struct {
	Name    string        `mapstructure:"name"`
	Kind    string        `mapstructure:"kind"` // huggingface | openai
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RenderConfig struct {
	Backends       []string            `mapstructure:"backends"`
	Width          int                 `mapstructure:"width"`
	Height         int                 `mapstructure:"height"`
	AttemptTimeout time.Duration       `mapstructure:"attempt_timeout"`
	TempDir        string              `mapstructure:"temp_dir"`
	Native         NativeRenderConfig  `mapstructure:"native"`
	Drawing        DrawingRenderConfig `mapstructure:"drawing"`
	Browser        BrowserRenderConfig `mapstructure:"browser"`
}

type NativeRenderConfig struct {
	ErrorMode string `mapstructure:"error_mode"` // ignore | warn | strict
}

type DrawingRenderConfig struct {
	DPI float64 `mapstructure:"dpi"`
}

type BrowserRenderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	ExecPath string        `mapstructure:"exec_path"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Width    int           `mapstructure:"width"`
	Height   int           `mapstructure:"height"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type StorageConfig struct {
	Type     string        `mapstructure:"type"`
	DataDir  string        `mapstructure:"data_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

var cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.api_prefix", "/api/v1")
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 3*time.Minute)
	v.SetDefault("server.max_header_bytes", 1<<20)

	v.SetDefault("model.provider", "openai")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", 2*time.Minute)

	v.SetDefault("image.default_service", "hf")
	v.SetDefault("image.size", "1024x1024")

	v.SetDefault("render.backends", []string{"native", "drawing", "browser"})
	v.SetDefault("render.native.error_mode", "strict")
	v.SetDefault("render.drawing.dpi", 96.0)
	v.SetDefault("render.browser.enabled", true)
	v.SetDefault("render.browser.timeout", 30*time.Second)
	v.SetDefault("render.browser.width", 400)
	v.SetDefault("render.browser.height", 400)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"*"})
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("storage.type", "disk")
	v.SetDefault("storage.data_dir", "./generated_images")
	v.SetDefault("storage.cache_ttl", 10*time.Minute)
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("HOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, err
	}

	// 配置文件优先，如果配置文件中没有设置，则使用环境变量
	applyEnvFallbacks(loaded)

	cfg = loaded
	return cfg, nil
}

func applyEnvFallbacks(c *Config) {
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Doubao.APIKey == "" {
		if apiKey := os.Getenv("DOUBAO_API_KEY"); apiKey != "" {
			c.Doubao.APIKey = apiKey
		}
		if apiKey := os.Getenv("ARK_API_KEY"); apiKey != "" {
			c.Doubao.APIKey = apiKey
		}
	}
	if c.Qwen.APIKey == "" {
		c.Qwen.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}
	for i := range c.Image.Services {
		svc := &c.Image.Services[i]
		if svc.Token != "" {
			continue
		}
		switch svc.Kind {
		case "openai":
			svc.Token = c.OpenAI.APIKey
		default:
			svc.Token = os.Getenv("HF_API_KEY")
		}
	}
}

func Get() *Config {
	return cfg
}
