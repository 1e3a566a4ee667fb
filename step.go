package behaviorx

import "math"

// Step advances s by one event and returns its status together with the
// part of the event's time delta that was not consumed. The leftover is 0
// for discrete events and for nodes that are still running.
//
// Action leaves are executed through r.
func (s *State[A, M]) Step(e Event, r ActionRunner[A, M]) (Status, float64) {
	dt, update := e.Update()
	switch s.kind {
	case KindWaitForSignal:
		if update {
			return Running, 0
		}
		// Signals happen instantly, nothing is left over.
		if sig, ok := e.Signal(); ok && sig == s.signal {
			return Success, 0
		}
		return Running, 0

	case KindAction:
		return r.Run(ActionArgs[A, M]{Event: e, DT: dt, Action: s.action, Memory: &s.memory})

	case KindFail:
		status, left := s.cursor.Step(e, r)
		return status.invert(), left

	case KindAlwaysSucceed:
		status, left := s.cursor.Step(e, r)
		if status == Running {
			return Running, left
		}
		return Success, left

	case KindWait:
		if !update {
			return Running, 0
		}
		// Waiting exactly the duration is not enough, there must be time
		// left for whatever follows.
		if s.elapsed+dt > s.total {
			left := s.elapsed + dt - s.total
			s.elapsed = s.total
			return Success, left
		}
		s.elapsed += dt
		return Running, 0

	case KindWaitForever:
		return Running, 0

	case KindIf:
		return s.stepIf(e, r)

	case KindSelect:
		return s.stepSequence(Failure, Success, e, r)

	case KindSequence:
		return s.stepSequence(Success, Failure, e, r)

	case KindWhile:
		return s.stepWhile(e, r)

	case KindWhenAll:
		return s.stepWhenAll(Success, Failure, e, r)

	case KindWhenAny:
		return s.stepWhenAll(Failure, Success, e, r)

	case KindAfter:
		return s.stepAfter(e, r)
	}
	panic("behaviorx: cannot step " + s.kind.String())
}

// subEvent returns the event a child is stepped with: the original event for
// discrete input, otherwise an update carrying only the remaining time.
func subEvent(e Event, update bool, remaining float64) Event {
	if !update {
		return e
	}
	return e.WithUpdate(remaining)
}

// whole returns the leftover of an event that nothing consumed.
func whole(dt float64, update bool) float64 {
	if !update {
		return 0
	}
	return dt
}

func (s *State[A, M]) stepIf(e Event, r ActionRunner[A, M]) (Status, float64) {
	remaining, update := e.Update()
	for {
		if s.status != Running {
			return s.cursor.Step(subEvent(e, update, remaining), r)
		}
		status, left := s.cursor.Step(e, r)
		switch status {
		case Running:
			return Running, left
		case Success:
			*s.cursor = compile[A, M](*s.success)
		default:
			*s.cursor = compile[A, M](*s.failure)
		}
		s.status = status
		remaining = left
	}
}

// stepSequence implements Sequence and Select.
//
// Sequence accepts Success and exits early on Failure; Select is the mirror
// image. An accepted child hands its leftover to the next one. Discrete
// events, and updates with nothing left, are consumed by the child that
// accepted them.
func (s *State[A, M]) stepSequence(accept, exit Status, e Event, r ActionRunner[A, M]) (Status, float64) {
	remaining, update := e.Update()
	for s.index < len(s.seq) {
		status, left := s.cursor.Step(subEvent(e, update, remaining), r)
		switch status {
		case Running:
			return Running, 0
		case exit:
			return exit, left
		}
		if s.index == len(s.seq)-1 {
			return accept, left
		}
		s.advance(s.index + 1)
		if !update || left <= 0 {
			return Running, 0
		}
		remaining = left
	}
	panic("behaviorx: " + s.kind.String() + " stepped past its last child")
}

// stepWhile steps the condition with the full event, then runs the body like
// a sequence that wraps around.
func (s *State[A, M]) stepWhile(e Event, r ActionRunner[A, M]) (Status, float64) {
	if status, left := s.cond.Step(e, r); status != Running {
		return status, left
	}
	remaining, update := e.Update()
	// Time left when the current pass over the body started; only passes
	// that ran entirely within this step are compared.
	passStart := math.Inf(1)
	if s.fresh {
		passStart = remaining
	}
	for {
		s.fresh = false
		status, left := s.cursor.Step(subEvent(e, update, remaining), r)
		switch status {
		case Running:
			return Running, 0
		case Failure:
			return Failure, left
		}
		next := s.index + 1
		if next == len(s.seq) {
			next = 0
		}
		s.advance(next)
		s.fresh = next == 0
		if !update || left <= 0 {
			return Running, 0
		}
		if next == 0 {
			// A pass over the body that took no time would repeat forever.
			if left >= passStart {
				return Running, 0
			}
			passStart = left
		}
		remaining = left
	}
}

// stepWhenAll implements WhenAll and WhenAny.
//
// WhenAll accepts Success and exits early on Failure; WhenAny is the mirror
// image. Every active child sees the same event. The node finishes with the
// smallest leftover of the children that finished last.
func (s *State[A, M]) stepWhenAll(accept, exit Status, e Event, r ActionRunner[A, M]) (Status, float64) {
	dt, update := e.Update()
	minLeft := math.Inf(1)
	done := 0
	for i, cur := range s.cursors {
		if cur == nil {
			done++
			continue
		}
		status, left := cur.Step(e, r)
		switch status {
		case Running:
			continue
		case exit:
			return exit, left
		}
		minLeft = math.Min(minLeft, left)
		s.cursors[i] = nil
		done++
	}
	if done < len(s.cursors) {
		return Running, 0
	}
	if math.IsInf(minLeft, 1) {
		return accept, whole(dt, update)
	}
	return accept, minLeft
}

// stepAfter steps every child that has not yet been counted. A success only
// counts when it comes from the front child and leaves strictly less time
// than any success counted before it in this step.
func (s *State[A, M]) stepAfter(e Event, r ActionRunner[A, M]) (Status, float64) {
	dt, update := e.Update()
	minLeft := math.Inf(1)
	for j := s.index; j < len(s.cursors); j++ {
		status, left := s.cursors[j].Step(e, r)
		switch status {
		case Running:
			minLeft = 0
		case Success:
			if j != s.index || left >= minLeft {
				// The failure is detected when the earliest of the two
				// finished.
				return Failure, math.Min(minLeft, left)
			}
			s.index++
			minLeft = left
		case Failure:
			return Failure, left
		}
	}
	if s.index < len(s.cursors) {
		return Running, 0
	}
	if math.IsInf(minLeft, 1) {
		return Success, whole(dt, update)
	}
	return Success, minLeft
}
