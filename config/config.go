package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"case-analysis/matcher"
)

// Config holds all configuration for the case analysis service.
// Values come from an optional YAML file; environment variables override it.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Cases    CasesConfig    `yaml:"cases"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Posters  PostersConfig  `yaml:"posters"`
	Export   ExportConfig   `yaml:"export"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" env:"SERVER_ADDR" env-default:":8090"`
	GinMode string `yaml:"gin_mode" env:"GIN_MODE" env-default:"release"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"cases.db"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // json or console
}

type CasesConfig struct {
	PageSize int `yaml:"page_size" env:"CASES_PAGE_SIZE" env-default:"30"`
}

type AnalysisConfig struct {
	Matcher      string        `yaml:"matcher" env:"ANALYSIS_MATCHER" env-default:"ecmascript"`
	Workers      int           `yaml:"workers" env:"ANALYSIS_WORKERS" env-default:"4"`
	MatchTimeout time.Duration `yaml:"match_timeout" env:"ANALYSIS_MATCH_TIMEOUT" env-default:"1s"`
}

// PostersConfig paths are relative to PublicDir, the same way image_url
// values stored on posters are.
type PostersConfig struct {
	PublicDir  string `yaml:"public_dir" env:"POSTERS_PUBLIC_DIR" env-default:"public"`
	OutputPath string `yaml:"output_path" env:"POSTERS_OUTPUT_PATH" env-default:"data/poster-image/output.png"`
	ImagesDir  string `yaml:"images_dir" env:"POSTERS_IMAGES_DIR" env-default:"analysis"`
}

type ExportConfig struct {
	Dir         string        `yaml:"dir" env:"EXPORT_DIR" env-default:"PIO-neerNet"`
	CSVName     string        `yaml:"csv_name" env:"EXPORT_CSV_NAME" env-default:"R5 1.csv"`
	Script      string        `yaml:"script" env:"EXPORT_SCRIPT" env-default:"an_tp_test.py"`
	Interpreter string        `yaml:"interpreter" env:"EXPORT_INTERPRETER" env-default:"python"`
	Timeout     time.Duration `yaml:"timeout" env:"EXPORT_TIMEOUT" env-default:"2m"`
}

// Load reads path (if it exists) with environment overrides, falling back to
// environment variables and defaults when the file is absent.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Cases.PageSize <= 0 {
		return fmt.Errorf("cases.page_size must be positive, got %d", c.Cases.PageSize)
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis.workers must be positive, got %d", c.Analysis.Workers)
	}
	if !matcher.ValidKind(matcher.Kind(c.Analysis.Matcher)) {
		return fmt.Errorf("analysis.matcher %q is not one of ecmascript, regexp, literal", c.Analysis.Matcher)
	}
	if c.Export.Timeout <= 0 {
		return fmt.Errorf("export.timeout must be positive, got %s", c.Export.Timeout)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
