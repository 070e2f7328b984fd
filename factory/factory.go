package factory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"event-manager-backend/config"
	"event-manager-backend/logger"
	"event-manager-backend/option"
	"event-manager-backend/store"

	"github.com/go-redis/redis"
	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

type Factory interface {
	DB(ctx context.Context) *sql.DB
	Redis(ctx context.Context) *redis.Client
	Store(ctx context.Context) *store.Store
	Options(ctx context.Context) *option.Options
}

type factory struct {
	dbOnce    sync.Once
	redisOnce sync.Once
	storeOnce sync.Once
	optOnce   sync.Once

	db    *sql.DB
	redis *redis.Client
	store *store.Store
	opts  *option.Options
}

func NewFactory() Factory {
	return &factory{}
}

// NewFactoryWithStore serves a prebuilt store and no redis cache.
func NewFactoryWithStore(s *store.Store) Factory {
	f := &factory{store: s}
	f.storeOnce.Do(func() {})
	f.redisOnce.Do(func() {})
	return f
}

func (f *factory) DB(ctx context.Context) *sql.DB {
	var dbError error
	f.dbOnce.Do(func() {
		sqlDB, err := sql.Open("mysql", viper.GetString(config.DBURL))
		if err != nil {
			dbError = err
			return
		}
		sqlDB.SetConnMaxLifetime(3 * time.Minute)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)

		f.db = sqlDB
	})

	if dbError != nil {
		logger.Fatalf(ctx, "Could not establish connection to the DB: %+v", dbError)
	}

	return f.db
}

// Redis returns nil when no address is configured.
func (f *factory) Redis(ctx context.Context) *redis.Client {
	f.redisOnce.Do(func() {
		addr := viper.GetString(config.RedisAddress)
		if addr == "" {
			logger.Info(ctx, "redis: no address configured, option cache disabled")
			return
		}
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: viper.GetString(config.RedisPassword),
			DB:       viper.GetInt(config.RedisDB),
		})
		if err := client.Ping().Err(); err != nil {
			logger.Warnf(ctx, "redis: ping to %s failed, option cache disabled: %v", addr, err)
			client.Close()
			return
		}
		f.redis = client
	})
	return f.redis
}

func (f *factory) Store(ctx context.Context) *store.Store {
	f.storeOnce.Do(func() {
		switch viper.GetString(config.DBDriver) {
		case config.DriverMemory:
			f.store = store.New(store.NewMemory())
		default:
			f.store = store.New(store.NewMySQL(f.DB(ctx)))
		}
	})
	return f.store
}

func (f *factory) Options(ctx context.Context) *option.Options {
	f.optOnce.Do(func() {
		var cache option.Cache
		if client := f.Redis(ctx); client != nil {
			cache = client
		}
		f.opts = option.New(f.Store(ctx), cache, viper.GetDuration(config.RedisOptionTTL))
	})
	return f.opts
}
