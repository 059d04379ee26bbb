// Package session issues anonymous browser sessions. A session's ID is the
// key other components bind state to (the identity provider binds the signed
// in principal to it); the token travels in a signed HttpOnly cookie and is
// rotated on sign-in without changing the ID.
//
//	mgr := session.New(cookies, session.WithStore(session.NewRedisStore(client)))
//	r.Use(mgr.Middleware)
//	sid := session.IDFromContext(r.Context())
package session
