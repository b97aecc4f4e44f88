package config

import (
	"errors"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	envPrefix = "APP"

	// DefaultAccessSecret 仅用于本地调试，release 模式下必须替换
	DefaultAccessSecret = "change-me"
)

var (
	cfg  *Config
	mu   sync.RWMutex
	file string
)

// SetFile 指定配置文件路径，需在 Init 前调用
func SetFile(path string) {
	file = path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("prefix", "api")
	v.SetDefault("mode", string(ModeDebug))

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "marketplace.db")
	v.SetDefault("database.port", "3306")

	v.SetDefault("redis.port", "6379")

	v.SetDefault("jwt.access_secret", DefaultAccessSecret)
	v.SetDefault("jwt.access_expire", 7*24*3600)

	v.SetDefault("Log.level", "info")
	v.SetDefault("Log.max_size", 100)
	v.SetDefault("Log.max_backups", 7)
	v.SetDefault("Log.max_age", 30)

	v.SetDefault("upload.local_dir", "./upload")
	v.SetDefault("upload.base_url", "/api/static")
	v.SetDefault("upload.max_size", 10<<20)

	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "activity-marketplace/1.0")
	v.SetDefault("geocoder.cache_ttl", 7*24*3600)
}

func load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时使用默认值 + 环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	// 环境变量优先级最高，例如 APP_DATABASE_HOST
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Mode == ModeRelease && (c.JWT.AccessSecret == "" || c.JWT.AccessSecret == DefaultAccessSecret) {
		return errors.New("release 模式必须配置 jwt.access_secret（APP_JWT_ACCESS_SECRET）")
	}
	return nil
}

// Init 读取配置文件与环境变量，失败直接 panic
func Init() {
	c, err := load()
	if err != nil {
		panic(err)
	}
	Set(c)
}

// Set 替换全局配置，测试中用于注入
func Set(c *Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

// Get 获取全局配置，未 Init 时返回默认配置
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}

	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		c, err := load()
		if err != nil {
			c = &Config{Mode: ModeDebug}
		}
		cfg = c
	}
	return cfg
}
