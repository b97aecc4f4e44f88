package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Domain   string `envconfig:"DOMAIN"`
	Prefix   string `envconfig:"PREFIX"`
	Mode     Mode   `envconfig:"MODE"`
	Database Database
	Redis    Redis
	JWT      JWT
	Log      Log `mapstructure:"Log"`
	Sentry   Sentry
	S3       S3
	Upload   Upload
	Geocoder Geocoder
}

type Database struct {
	Driver   string `envconfig:"DRIVER" mapstructure:"driver"` // mysql | postgres | sqlite
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
	DSN      string `envconfig:"DSN" mapstructure:"dsn"` // sqlite 文件路径，或直接指定完整 DSN
}

type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"` // 秒
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"` // 性能追踪采样率
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int64 `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int64 `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool  `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
}

// Upload 未配置 S3 bucket 时的本地存储
type Upload struct {
	LocalDir string `envconfig:"LOCAL_DIR" mapstructure:"local_dir"`
	BaseURL  string `envconfig:"BASE_URL" mapstructure:"base_url"`
	MaxSize  int64  `envconfig:"MAX_SIZE" mapstructure:"max_size"` // 单个文件最大字节数
}

type Geocoder struct {
	Enable    bool   `envconfig:"ENABLE" mapstructure:"enable"`
	BaseURL   string `envconfig:"BASE_URL" mapstructure:"base_url"`
	UserAgent string `envconfig:"USER_AGENT" mapstructure:"user_agent"`
	CacheTTL  int64  `envconfig:"CACHE_TTL" mapstructure:"cache_ttl"` // 秒
}
