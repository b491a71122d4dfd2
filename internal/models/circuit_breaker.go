package models

// CircuitBreakerState is exported as a gauge: 0 closed, 1 open, 2 half-open.
type CircuitBreakerState int

func (s CircuitBreakerState) String() string {
	switch s {
	case 1:
		return "open"
	case 2:
		return "half-open"
	default:
		return "closed"
	}
}
