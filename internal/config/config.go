package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		SearchPath []string `yaml:"search_path"`
		Exclude    []string `yaml:"exclude"`
	} `yaml:"project"`
	Parser struct {
		TreatCommentBlocksAsDocstrings bool `yaml:"treat_comment_blocks_as_docstrings"`
		ExpandNames                    bool `yaml:"expand_names"`
	} `yaml:"parser"`
	Output struct {
		Format string `yaml:"format"` // "json" or "markdown"
	} `yaml:"output"`
}

func Default() *Config {
	var cfg Config
	cfg.Output.Format = "json"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if searchPath := os.Getenv("PYDEX_SEARCH_PATH"); searchPath != "" {
		cfg.Project.SearchPath = strings.Split(searchPath, string(os.PathListSeparator))
	}
	if format := os.Getenv("PYDEX_OUTPUT_FORMAT"); format != "" {
		cfg.Output.Format = format
	}

	return cfg, nil
}
