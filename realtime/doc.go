// Package realtime drives a behavior tree at a fixed tick rate.
//
// Discrete events are not stepped when they arrive. They are queued and
// delivered at the next tick boundary, followed by one update event that
// carries the tick duration in seconds:
//   - Events are batched and processed at fixed tick boundaries
//   - Deterministic event ordering via priority and sequence numbers
//   - Fixed time-step updates (e.g., 60 FPS)
//
// # Example Usage
//
//	var b behaviorx.Builder[string]
//	state := behaviorx.NewState[string, int](b.Sequence(b.Wait(1), b.Action("jump")))
//	rt := realtime.NewRuntime(realtime.StateStepper[string, int]{
//		State:  state,
//		Runner: runner,
//	}, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	rt.Start(ctx)
//	rt.SendEvent(behaviorx.PressEvent("jump"))
//	<-rt.Done()
//
// # Event Ordering Guarantees
//
// Events queued for the same tick are ordered by:
//  1. Priority (higher priority processed first)
//  2. Sequence number (FIFO for same priority)
//
// Given the same sequence of SendEvent calls between ticks, the tree always
// executes the same way, regardless of timing or concurrency. Advance runs a
// single tick synchronously, which makes scenarios reproducible in tests
// without a wall clock.
//
// # Termination
//
// The runtime stops ticking as soon as the tree reports Success or Failure,
// whether from a queued event or from the tick update. Done is closed at that
// point and Result reports the final status and leftover time.
package realtime
