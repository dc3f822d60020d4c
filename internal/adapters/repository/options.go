package repository

import "github.com/redis/go-redis/v9"

// DefaultKeyPrefix namespaces keys in shared backends.
const DefaultKeyPrefix = "touchline:"

type options struct {
	path          string
	keyPrefix     string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisClient   *redis.Client
}

func defaultOptions() options {
	return options{
		path:      "data/touchline.db",
		keyPrefix: DefaultKeyPrefix,
		redisAddr: "localhost:6379",
	}
}

// Option applies a configuration option to Open.
type Option func(*options)

// WithPath sets the SQLite database file.
func WithPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.path = path
		}
	}
}

// WithKeyPrefix sets the prefix prepended to every key.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

// WithRedis sets the Redis connection parameters.
func WithRedis(addr, password string, db int) Option {
	return func(o *options) {
		if addr != "" {
			o.redisAddr = addr
		}
		o.redisPassword = password
		o.redisDB = db
	}
}

// WithRedisClient reuses an existing Redis client.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) {
		o.redisClient = client
	}
}
