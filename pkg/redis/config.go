package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required"`                    // ConnectionURL is the redis connection string.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"5s"` // ConnectTimeout bounds the initial connection attempt.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`   // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`  // RetryInterval is the delay between attempts.
}
