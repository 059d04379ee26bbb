// Package mongo connects the official MongoDB v2 driver from env-driven
// Config with retries and exposes a readiness check.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
//	if err != nil {
//		return err
//	}
//	sessions := study.NewMongoStorage(db)
package mongo
