package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "CAMPUS"
	configName = "config"
	configType = "toml"
	configDir  = ".campus"

	KeyAPIBaseURL    = "api_base_url"
	KeyPageOrigin    = "page_origin"
	KeyDefaultTenant = "default_tenant"
	KeyStatePath     = "state.path"
	KeySecretsDir    = "secrets.dir"
	KeySecretsStore  = "secrets.store"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

const (
	SecretsStoreAuto = "auto"
	SecretsStoreFile = "file"
)

type Config struct {
	Origin Origin
	// PageOrigin is the origin of the calling page; an https value makes it a secure context.
	PageOrigin    string
	DefaultTenant domain.TenantID
	StatePath     string
	SecretsDir    string
	// SecretsStore is "auto" (pass, then files under SecretsDir) or "file".
	SecretsStore string
	LogLevel     string
	LogFormat    string
}

func (c Config) SecurePage() bool {
	return strings.HasPrefix(strings.ToLower(c.PageOrigin), "https://")
}

// Load reads .env, the config file and CAMPUS_* environment variables into v and resolves the
// backend origin. It is meant to run once per process.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, configDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(baseDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDefaultTenant, string(domain.FallbackTenant().ID))
	v.SetDefault(KeyStatePath, filepath.Join(baseDir, "state.toml"))
	v.SetDefault(KeySecretsDir, filepath.Join(baseDir, "secrets"))
	v.SetDefault(KeySecretsStore, SecretsStoreAuto)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Origin: ResolveOrigin(OriginInput{
			ExplicitOverride:  v.GetString(KeyAPIBaseURL),
			IsProductionBuild: version.IsProduction(),
		}),
		PageOrigin:    strings.TrimRight(v.GetString(KeyPageOrigin), "/"),
		DefaultTenant: domain.TenantID(strings.TrimSpace(v.GetString(KeyDefaultTenant))),
		StatePath:     v.GetString(KeyStatePath),
		SecretsDir:    v.GetString(KeySecretsDir),
		SecretsStore:  strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsStore))),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if !c.DefaultTenant.Valid() {
		return errors.New("default tenant is empty")
	}
	if c.SecretsStore != SecretsStoreAuto && c.SecretsStore != SecretsStoreFile {
		return fmt.Errorf("unsupported secrets store %q (want %s or %s)", c.SecretsStore, SecretsStoreAuto, SecretsStoreFile)
	}
	if c.PageOrigin == "" {
		return nil
	}

	parsed, err := url.Parse(c.PageOrigin)
	if err != nil {
		return fmt.Errorf("parse page origin: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("page origin must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("page origin host is required")
	}

	return nil
}
