// Package redis connects streams to Redis pub/sub.
//
// This package wraps the go-redis client with connection validation, retry logic and
// configuration, and adapts Redis channels to the stream protocol.
//
// # Key Features
//
//   - Connect: Creates a Redis client with exponential retry logic and connection verification
//   - Healthcheck: Returns a health check function for monitoring Redis connectivity
//   - Channel: A stream.Publisher of the messages published to Redis channels
//   - Publisher: A stream.Subscriber that publishes every value to a Redis channel
//
// # Configuration
//
// All configuration is handled through the Config struct with environment variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		ChannelSize    int           `env:"REDIS_CHANNEL_SIZE" envDefault:"100"`
//	}
//
// # Usage Example
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("Failed to connect to Redis:", err)
//	}
//	defer client.Close()
//
//	// Relay decoded events from one channel to another
//	in := codec.Decode[Event](stream.Map(redis.Channel(ctx, client, []string{"events"}),
//		func(m *goredis.Message) []byte { return []byte(m.Payload) }), codec.JSON)
//	out := redis.NewPublisher[[]byte](ctx, client, "events:processed")
//	codec.Encode(in, codec.JSON).Subscribe(out)
//	<-out.Done()
//
// # Backpressure
//
// Redis pub/sub does not wait for slow consumers. Channel reads from the go-redis
// message channel only while the downstream has demand; once that buffer (ChannelSize)
// is full, go-redis drops messages after its own timeout. Publisher requests one value at
// a time and publishes synchronously.
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrFailedToParseRedisConnString: Returned when the Redis connection URL is malformed
//   - ErrRedisNotReady: Returned when Redis doesn't become ready within the timeout period
//   - ErrEmptyConnectionURL: Returned when no connection URL is provided
//   - ErrHealthcheckFailed: Returned when health check ping fails
//   - ErrSubscribeFailed: Fails a Channel stream whose subscription was rejected
//   - ErrPublishFailed: Reported by Publisher.Err after a failed publish
package redis
