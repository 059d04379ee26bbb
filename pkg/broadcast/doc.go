// Package broadcast provides a generic, non-blocking publish/subscribe
// primitive. The identity provider uses it to fan auth-state changes out to
// session observers.
//
//	b := broadcast.NewMemoryBroadcaster[Event](16)
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//	for msg := range sub.Receive() { ... }
package broadcast
