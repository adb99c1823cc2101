package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Log  LogConfig  `koanf:"log"`
	Weni WeniConfig `koanf:"weni"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type WeniConfig struct {
	BaseURL     string `koanf:"base_url"`
	Language    string `koanf:"language"`
	Timeout     string `koanf:"timeout"`
	ProjectUUID string `koanf:"project_uuid"`
	BearerToken string `koanf:"bearer_token"`
}

const (
	DefaultLogLevel     = "info"
	DefaultWeniBaseURL  = "https://nexus.weni.ai"
	DefaultWeniLanguage = "en-US"
	DefaultWeniTimeout  = "60s"
)

// Load resolves configuration from defaults, an optional YAML file, AGENTPROBE_*
// environment variables, and CLI flags, in increasing priority.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"log.level":     DefaultLogLevel,
		"weni.base_url": DefaultWeniBaseURL,
		"weni.language": DefaultWeniLanguage,
		"weni.timeout":  DefaultWeniTimeout,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".agentprobe", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	k.Load(env.Provider("AGENTPROBE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "AGENTPROBE_")), "_", ".", 1)
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
