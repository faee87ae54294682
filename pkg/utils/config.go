package utils

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

type Config struct {
	HTTPAddr     string   `yaml:"http_addr"`
	GRPCAddr     string   `yaml:"grpc_addr"`
	FeedAddr     string   `yaml:"feed_addr"`
	DataDir      string   `yaml:"data_dir"`
	SchemaDir    string   `yaml:"schema_dir"`
	MonsterFiles []string `yaml:"monster_files"`
	SpellFiles   []string `yaml:"spell_files"`
	Source       string   `yaml:"source"` // file | sqlite
	DBPath       string   `yaml:"db_path"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"` // text | json
}

func DefaultConfig() Config {
	return Config{
		HTTPAddr:     ":8000",
		GRPCAddr:     ":9090",
		FeedAddr:     ":7070",
		DataDir:      "./user_data",
		SchemaDir:    "./schema",
		MonsterFiles: []string{"bestiary-mm.json"},
		SpellFiles:   []string{"spells-phb.json"},
		Source:       SourceFile,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// LoadConfig reads the YAML file named by LOREHUB_CONFIG (if any) over the
// defaults, then applies LOREHUB_* environment overrides.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if path := getenv("LOREHUB_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// dev convenience: a missing file means defaults
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	overrideString(&cfg.HTTPAddr, getenv("LOREHUB_HTTP_ADDR"))
	overrideString(&cfg.GRPCAddr, getenv("LOREHUB_GRPC_ADDR"))
	overrideString(&cfg.FeedAddr, getenv("LOREHUB_FEED_ADDR"))
	overrideString(&cfg.DataDir, getenv("LOREHUB_DATA_DIR"))
	overrideString(&cfg.SchemaDir, getenv("LOREHUB_SCHEMA_DIR"))
	overrideList(&cfg.MonsterFiles, getenv("LOREHUB_MONSTER_FILES"))
	overrideList(&cfg.SpellFiles, getenv("LOREHUB_SPELL_FILES"))
	overrideString(&cfg.Source, getenv("LOREHUB_SOURCE"))
	overrideString(&cfg.DBPath, getenv("LOREHUB_DB_PATH"))
	overrideString(&cfg.LogLevel, getenv("LOREHUB_LOG_LEVEL"))
	overrideString(&cfg.LogFormat, getenv("LOREHUB_LOG_FORMAT"))

	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source != SourceFile && cfg.Source != SourceSQLite {
		return cfg, fmt.Errorf("unknown data source %q", cfg.Source)
	}
	return cfg, nil
}

func overrideString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// overrideList splits a comma-separated env value.
func overrideList(dst *[]string, v string) {
	if strings.TrimSpace(v) == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
