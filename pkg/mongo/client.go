package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(true).
		SetRetryReads(true)
}

// New connects and pings the server, retrying cfg.RetryAttempts times.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		client, err := mongo.Connect(clientOptions(cfg))
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(context.WithoutCancel(ctx))
		}
		lastErr = err

		if i == max(cfg.RetryAttempts, 1)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

// NewWithDatabase connects and returns cfg.Database.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}
