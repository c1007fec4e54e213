package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Weiwf/distribute-limit/core/config"
	"github.com/Weiwf/distribute-limit/core/logger"
	"github.com/Weiwf/distribute-limit/integration/database/redis"
	"github.com/Weiwf/distribute-limit/middleware"
	"github.com/Weiwf/distribute-limit/pkg/fixedwindow"
)

type serverConfig struct {
	Addr           string        `env:"ADDR" envDefault:":8080"`
	Window         time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"10s"`
	Limit          int64         `env:"RATE_LIMIT_COUNT" envDefault:"5"`
	AcquireTimeout time.Duration `env:"RATE_LIMIT_ACQUIRE_TIMEOUT" envDefault:"500ms"`
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var srvCfg serverConfig
	config.MustLoad(&srvCfg)
	var redisCfg redis.Config
	config.MustLoad(&redisCfg)

	ctx := context.Background()
	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.Error("redis connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer client.Close()

	counter := fixedwindow.NewRedisCounter(client,
		fixedwindow.WithKeyPrefix("demo:"),
		fixedwindow.WithTimeout(srvCfg.AcquireTimeout),
	)
	guard := fixedwindow.NewGuard(counter, fixedwindow.WithLogger(log))

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	healthcheck := redis.Healthcheck(client)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := healthcheck(r.Context()); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	limited := middleware.RateLimit(middleware.RateLimitConfig{
		Guard:      guard,
		Policy:     fixedwindow.Policy{Window: srvCfg.Window, Limit: srvCfg.Limit},
		Target:     "example-server",
		SetHeaders: true,
		Skip: func(r *http.Request) bool {
			return r.URL.Path == "/health"
		},
	})

	handler := middleware.RequestID()(middleware.ClientIP()(limited(mux)))

	log.Info("listening",
		slog.String("addr", srvCfg.Addr),
		logger.Window(srvCfg.Window),
		logger.Limit(srvCfg.Limit))

	if err := http.ListenAndServe(srvCfg.Addr, handler); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
