package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

/**
 * Admin server configuration parameters
 * @property {string} address - Admin API TCP address (e.g. "127.0.0.1:8999"), empty disables it
 * @property {string} socket - Admin API unix socket path, empty disables it
 * @property {string} mode - gin mode (debug/release/test)
 * @property {string} host - Bind host for every echo listener
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Socket  string `mapstructure:"socket"`
	Mode    string `mapstructure:"mode"`
	Host    string `mapstructure:"host"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" logs to stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Request body configuration
 * @property {string} temp_dir - Directory uploaded files are staged into
 * @property {int64} body_limit - Maximum request body size in bytes
 */
type UploadConfig struct {
	TempDir   string `mapstructure:"temp_dir"`
	BodyLimit int64  `mapstructure:"body_limit"`
}

// PersistConfig 写请求体的目录
type PersistConfig struct {
	Dir string `mapstructure:"dir"`
}

const (
	DefaultAdminAddress = "127.0.0.1:8999"
	DefaultHost         = "0.0.0.0"
	DefaultTempDir      = "/tmp/echo-server"
	DefaultBodyLimit    = int64(5) << 30
	EnvPrefix           = "ECHO"
)

// DefaultProfiles 未配置时启用的标签
var DefaultProfiles = []string{"b"}

var ErrInvalidService = errors.New("invalid service definition")

type AppConfig struct {
	Server   ServerConfig    `mapstructure:"server"`
	Log      LogConfig       `mapstructure:"log"`
	Upload   UploadConfig    `mapstructure:"upload"`
	Persist  PersistConfig   `mapstructure:"persist"`
	Profiles []string        `mapstructure:"profiles"`
	Services []ServiceConfig `mapstructure:"services"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", DefaultAdminAddress)
	v.SetDefault("server.socket", "")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "console")
	v.SetDefault("upload.temp_dir", DefaultTempDir)
	v.SetDefault("upload.body_limit", DefaultBodyLimit)
	v.SetDefault("persist.dir", ".")
	v.SetDefault("profiles", DefaultProfiles)
}

/**
 * Load application configuration from YAML file and environment
 * @param {string} path - Config file path, empty searches ./config.yaml
 * @returns {*AppConfig} Loaded configuration with defaults applied
 * @returns {error} Error if an explicit file can't be read or decoded
 * @description
 * - A missing ./config.yaml is not an error, defaults are used
 * - ECHO_* environment variables override file values (ECHO_LOG_LEVEL, ECHO_PROFILES)
 * - An empty service list falls back to DefaultServices()
 */
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config failed: %w", err)
	}
	return collectConfig(&cfg), nil
}

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Upload.TempDir == "" {
		cfg.Upload.TempDir = DefaultTempDir
	}
	if cfg.Upload.BodyLimit <= 0 {
		cfg.Upload.BodyLimit = DefaultBodyLimit
	}
	if cfg.Persist.Dir == "" {
		cfg.Persist.Dir = "."
	}
	if len(cfg.Services) == 0 {
		cfg.Services = DefaultServices()
	}
	return cfg
}

// Default 返回不读取任何文件时的配置
func Default() *AppConfig {
	v := viper.New()
	setDefaults(v)
	var cfg AppConfig
	_ = v.Unmarshal(&cfg)
	return collectConfig(&cfg)
}
