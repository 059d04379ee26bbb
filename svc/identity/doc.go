// Package identity is the identity provider behind account pages: it issues
// credentials, re-authenticates, changes passwords and streams per-session
// auth state.
//
// Provider is the contract the password flow depends on. LocalProvider
// implements it with bcrypt hashes in a Storage (memory or Postgres) and
// session bindings in a StateStore (memory or Redis). Sign-in and sign-out
// are published on a broadcast hub so StateSource subscribers see them.
//
//	p := identity.NewLocalProvider(identity.NewPostgresStorage(pool), identity.NewRedisStateStore(rdb, ttl))
//	unsubscribe := p.OnAuthStateChanged(ctx, sessionID, func(pr *identity.Principal) { ... })
//	defer unsubscribe()
//
// UpdatePassword requires a sign-in or Reauthenticate within
// Config.RecentLoginWindow and returns ErrRequiresRecentLogin otherwise.
package identity
