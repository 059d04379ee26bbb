// Package redis connects go-redis clients with retries and provides a typed
// JSON key-value Store.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	sessions := redis.NewStore[identity.Principal](client, "session")
package redis
