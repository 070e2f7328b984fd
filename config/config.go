package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DBDriver = "database.driver"
	DBURL    = "database.mysql"

	Port               = "server.port"
	Secret             = "server.secret"
	NonceSecret        = "server.nonce_secret"
	CookieKey          = "server.cookie_key"
	JWTOfflineInterval = "server.jwt_offline_interval"

	RedisAddress   = "redis.address"
	RedisPassword  = "redis.password"
	RedisDB        = "redis.db"
	RedisOptionTTL = "redis.option_ttl"

	VaultAddress    = "vault.address"
	VaultToken      = "vault.token"
	VaultSecretPath = "vault.secret_path"

	SiteURL      = "site.url"
	SiteTimezone = "site.timezone"

	UploadDir     = "upload.dir"
	UploadURL     = "upload.url"
	UploadMaxSize = "upload.max_size"

	MaintenanceInterval      = "maintenance.interval"
	MaintenancePreviewMaxAge = "maintenance.preview_max_age"

	LogLevel   = "log.level"
	AppVersion = "app.version"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, ":9000")
	viper.SetDefault(DBDriver, DriverMySQL)
	viper.SetDefault(DBURL, "root:root@tcp(localhost:3306)/event_manager?parseTime=true")
	viper.SetDefault(JWTOfflineInterval, 120)
	viper.SetDefault(RedisOptionTTL, 10*time.Minute)
	viper.SetDefault(SiteURL, "http://localhost:9000")
	viper.SetDefault(SiteTimezone, "UTC")
	viper.SetDefault(UploadDir, "./uploads")
	viper.SetDefault(UploadURL, "http://localhost:9000/uploads")
	viper.SetDefault(UploadMaxSize, 5*1024*1024)
	viper.SetDefault(MaintenanceInterval, time.Hour)
	viper.SetDefault(MaintenancePreviewMaxAge, 30*24*time.Hour)
	viper.SetDefault(LogLevel, "info")
	viper.SetDefault(AppVersion, "3.1.40")
}
