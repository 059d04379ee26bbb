// Package statemachine implements small finite state machines: an immutable
// Definition (states, events, guards, actions) from which independent
// Machines are started.
//
//	def := statemachine.MustDefine("idle",
//		statemachine.WithTransition("idle", "busy", "start"),
//		statemachine.WithTransition("busy", "idle", "finish"),
//	)
//	m := def.Start()
//	_ = m.Fire(ctx, "start", nil)
package statemachine
