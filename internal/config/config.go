package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// ClientConfig 远程后端（API 变体）的连接参数
type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Config struct {
	// Backend selects the store implementation: "local" or "remote".
	Backend  string         `mapstructure:"backend"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Client   ClientConfig   `mapstructure:"client"`
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for "config.yaml" in the current working
// directory and falls back to defaults when no file exists.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. MONEYUP_SERVER_PORT=9000
	v.SetEnvPrefix("MONEYUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 默认路径下允许没有配置文件，全部用默认值
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "local")
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/moneyup.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("cors.origins", []string{"*"})
	v.SetDefault("client.base_url", "http://127.0.0.1:3001/api")
	v.SetDefault("client.timeout_seconds", 10)
}
