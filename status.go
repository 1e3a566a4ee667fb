package behaviorx

import "fmt"

// Status is the result of stepping a behavior or running an action.
type Status int

const (
	// Running means the behavior has not finished and keeps its progress.
	Running Status = iota
	// Success means the behavior finished and succeeded.
	Success
	// Failure means the behavior finished and failed.
	Failure
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether s is Success or Failure.
func (s Status) Terminal() bool {
	return s == Success || s == Failure
}

// invert swaps Success and Failure. Running is returned unchanged.
func (s Status) invert() Status {
	switch s {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return s
	}
}

func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case Running, Success, Failure:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "success":
		*s = Success
	case "failure":
		*s = Failure
	default:
		return fmt.Errorf("invalid status %q", text)
	}
	return nil
}
