package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	envAPIURL       = "URL_SHORTENER_API_URL"
	envTokenPath    = "URL_SHORTENER_TOKEN_PATH"
	envClientConfig = "URL_SHORTENER_CONFIG"
)

const (
	// Адрес бэкенда по умолчанию (физическое устройство в той же сети)
	DefaultAPIBaseURL     = "http://192.168.1.5:8000/api"
	defaultClientLogLevel = "warn"
	tokenFileName         = "session.json"
	appDirName            = "urlshortener"
)

type ClientConfig struct {
	APIBaseURL string `yaml:"api_url"`
	TokenPath  string `yaml:"token_path"`
	LogLevel   string `yaml:"log_level"`
}

// NewClientConfig собирает конфиг клиента.
// Приоритет: defaults < yaml файл < окружение (.env) < флаги.
// Возвращает оставшиеся после флагов аргументы (имя команды и ее флаги).
func NewClientConfig(args []string, lookup LookupFunc) (*ClientConfig, []string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := &ClientConfig{
		APIBaseURL: DefaultAPIBaseURL,
		TokenPath:  defaultTokenPath(lookup),
		LogLevel:   defaultClientLogLevel,
	}

	var (
		configPath string
		apiURL     string
		tokenPath  string
		logLevel   string
	)

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&apiURL, "api-url", "", "API base URL")
	fs.StringVar(&tokenPath, "token-path", "", "Path of the persisted session token")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if configPath == "" {
		applyEnv(lookup, envClientConfig, &configPath)
	}
	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, nil, err
		}
	}

	applyEnv(lookup, envAPIURL, &cfg.APIBaseURL)
	applyEnv(lookup, envTokenPath, &cfg.TokenPath)
	applyEnv(lookup, envLogLevel, &cfg.LogLevel)

	overrideIfSet(apiURL, &cfg.APIBaseURL)
	overrideIfSet(tokenPath, &cfg.TokenPath)
	overrideIfSet(logLevel, &cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, fs.Args(), nil
}

func (c *ClientConfig) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("api base url cannot be empty")
	}
	if strings.TrimSpace(c.TokenPath) == "" {
		return errors.New("token path cannot be empty")
	}
	return nil
}

func (c *ClientConfig) loadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg ClientConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideIfSet(fileCfg.APIBaseURL, &c.APIBaseURL)
	overrideIfSet(fileCfg.TokenPath, &c.TokenPath)
	overrideIfSet(fileCfg.LogLevel, &c.LogLevel)
	return nil
}

func overrideIfSet(val string, target *string) {
	if strings.TrimSpace(val) != "" {
		*target = val
	}
}

func defaultTokenPath(lookup LookupFunc) string {
	if dir, ok := lookup("XDG_CONFIG_HOME"); ok && dir != "" {
		return filepath.Join(dir, appDirName, tokenFileName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName, tokenFileName)
	}
	return filepath.Join(".", "."+appDirName, tokenFileName)
}
