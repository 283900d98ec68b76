package riskbalancer

import "fmt"

// statusThreshold is the fixed absolute band around the target cash weight
// inside which a category counts as on target.
const statusThreshold = 1e-4

// Status classifies a category's actual weight against its target cash weight.
type Status int

const (
	OnTarget Status = iota
	OverInvested
	UnderInvested
)

func (s Status) String() string {
	switch s {
	case OnTarget:
		return "on_target"
	case OverInvested:
		return "over_invested"
	case UnderInvested:
		return "under_invested"
	default:
		return "unknown"
	}
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "on_target":
		return OnTarget, nil
	case "over_invested":
		return OverInvested, nil
	case "under_invested":
		return UnderInvested, nil
	default:
		return 0, fmt.Errorf("unknown status: %q", s)
	}
}

// CategoryStatus compares a category's actual weight with its risk-parity
// cash weight. Values are transient computation outputs, not stored.
type CategoryStatus struct {
	Path             CategoryPath
	ActualWeight     float64
	TargetCashWeight float64
}

// Delta is actual minus target.
func (s CategoryStatus) Delta() float64 {
	return s.ActualWeight - s.TargetCashWeight
}

// Status maps the delta to on_target within the fixed threshold, otherwise
// over or under invested by its sign.
func (s CategoryStatus) Status() Status {
	d := s.Delta()
	if d > -statusThreshold && d < statusThreshold {
		return OnTarget
	}
	if d > 0 {
		return OverInvested
	}
	return UnderInvested
}
