package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jsamuelsen11/project-intake-service/internal/platform/config"
)

// ErrConnect is returned when no connection attempt succeeded.
var ErrConnect = errors.New("failed to connect to mongo")

// Connect opens a client and verifies it with a ping, retrying up to
// cfg.ConnectAttempts times with cfg.ConnectInterval between attempts.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	var lastErr error
	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		client, err := tryConnect(ctx, opts, cfg.ConnectTimeout)
		if err == nil {
			logger.InfoContext(ctx, "connected to mongo",
				slog.String("database", cfg.Database),
				slog.Int("attempt", attempt),
			)
			return client, nil
		}
		lastErr = err

		logger.WarnContext(ctx, "mongo connection attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.ConnectAttempts),
			slog.Any("error", err),
		)

		if attempt == cfg.ConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnect, ctx.Err())
		case <-time.After(cfg.ConnectInterval):
		}
	}

	return nil, errors.Join(ErrConnect, lastErr)
}

func tryConnect(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}
