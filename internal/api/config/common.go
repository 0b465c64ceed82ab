package config

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Platforms PlatformsConfig `mapstructure:"platforms"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// BaseDomain 各平台授权回调的外部地址前缀
	BaseDomain string `mapstructure:"base_domain"`
}

type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	DraftBucket string `mapstructure:"draft_bucket"`
}

// AppKeyConfig 平台方下发的应用凭据
type AppKeyConfig struct {
	ClientKey    string `mapstructure:"client_key"`
	ClientSecret string `mapstructure:"client_secret"`
}

type PlatformsConfig struct {
	LinkedIn AppKeyConfig `mapstructure:"linkedin"`
	Tumblr   AppKeyConfig `mapstructure:"tumblr"`
	Twitter  AppKeyConfig `mapstructure:"twitter"`
}

type SnapshotConfig struct {
	// Spec cron 表达式，带秒位
	Spec string `mapstructure:"spec"`
	// Parallelism 单轮快照的并发上限
	Parallelism int `mapstructure:"parallelism"`
	// TimeoutSeconds 单个凭据的请求超时
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}
