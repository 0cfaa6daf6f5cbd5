package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds configuration for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig selects the answer generator. The extractive generator
// works offline; openai calls a chat completions endpoint.
type GeneratorConfig struct {
	Type         string        `yaml:"type"`
	MaxSentences int           `yaml:"max_sentences"`
	OpenAI       *OpenAIConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks. Separator
// applies to the paragraph chunker, the sentence settings to the sentence one.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	Separator         string `yaml:"separator"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk,omitempty"`
	OverlapSentences  int    `yaml:"overlap_sentences,omitempty"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	Mode           string `yaml:"mode"`
	AuthHeader     string `yaml:"auth_header"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	DisableMetrics bool   `yaml:"disable_metrics"`
	MetricsPath    string `yaml:"metrics_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Output is stdout, stderr, discard or a file path.
	Output string `yaml:"output"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first setting no component can be built from.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf", "openai":
	default:
		return fmt.Errorf("unknown embedder type %q", c.Embedder.Type)
	}
	switch c.Generator.Type {
	case "extractive", "openai":
	default:
		return fmt.Errorf("unknown generator type %q", c.Generator.Type)
	}
	switch c.Chunker.Type {
	case "paragraph":
		if c.Chunker.Separator == "" {
			return errors.New("chunker separator must not be empty")
		}
	case "sentence":
		if c.Chunker.SentencesPerChunk < 1 {
			return errors.New("chunker sentences_per_chunk must be at least 1")
		}
	default:
		return fmt.Errorf("unknown chunker type %q", c.Chunker.Type)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval top_k must be at least 1, got %d", c.Retrieval.TopK)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:  EmbedderConfig{Type: "tfidf"},
		Generator: GeneratorConfig{Type: "extractive", MaxSentences: 3},
		Chunker:   ChunkerConfig{Type: "paragraph", Separator: "\n\n"},
		Retrieval: RetrievalConfig{TopK: 3},
		Server: ServerConfig{
			Addr:           ":8080",
			Mode:           "development",
			AuthHeader:     "X-Internal-Key",
			APIKeyEnv:      "INTERNAL_API_KEY",
			MaxUploadBytes: 10 << 20,
			MetricsPath:    "/metrics",
		},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-large")
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = def.Generator.Type
	}
	if cfg.Generator.MaxSentences == 0 {
		cfg.Generator.MaxSentences = def.Generator.MaxSentences
	}
	if cfg.Generator.Type == "openai" {
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Generator.OpenAI, "gpt-4")
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = def.Chunker.Type
	}
	if cfg.Chunker.Separator == "" {
		cfg.Chunker.Separator = def.Chunker.Separator
	}
	if cfg.Chunker.Type == "sentence" && cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = def.Server.Addr
	}
	if s.Mode == "" {
		s.Mode = def.Server.Mode
	}
	if s.AuthHeader == "" {
		s.AuthHeader = def.Server.AuthHeader
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = def.Server.APIKeyEnv
	}
	if s.MaxUploadBytes == 0 {
		s.MaxUploadBytes = def.Server.MaxUploadBytes
	}
	if s.MetricsPath == "" {
		s.MetricsPath = def.Server.MetricsPath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = def.Logging.Output
	}
}

func applyOpenAIDefaults(c *OpenAIConfig, model string) {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 30
	}
}
