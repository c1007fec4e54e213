// Package redis provides Redis client initialization and health checking
// for the shared counter store.
//
// Connect validates the connection URL, creates a go-redis client, and
// verifies connectivity with a ping before returning, retrying up to the
// configured number of attempts:
//
//	cfg := redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  5 * time.Second,
//		ConnectTimeout: 30 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Healthcheck wraps the client for readiness probes:
//
//	check := redis.Healthcheck(client)
//	if err := check(ctx); err != nil {
//		// report unhealthy
//	}
//
// Sentinel errors (ErrEmptyConnectionURL, ErrFailedToParseRedisConnString,
// ErrRedisNotReady, ErrHealthcheckFailed) are checkable with errors.Is and
// wrap the underlying go-redis errors.
package redis
