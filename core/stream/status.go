package stream

// state is the lifecycle of an internal subscription: awaiting → subscribed → terminated.
type state uint8

const (
	awaiting state = iota
	subscribed
	terminated
)

func (s state) String() string {
	switch s {
	case awaiting:
		return "awaiting"
	case subscribed:
		return "subscribed"
	default:
		return "terminated"
	}
}

// status couples the lifecycle state with the upstream subscription it holds while subscribed.
type status struct {
	state    state
	upstream Subscription
}

func (s *status) subscribe(up Subscription) bool {
	if s.state != awaiting {
		return false
	}
	s.state = subscribed
	s.upstream = up
	return true
}

// terminate moves to terminated and returns the upstream held until now, or nil when the
// status was not subscribed.
func (s *status) terminate() Subscription {
	up := s.upstream
	wasSubscribed := s.state == subscribed
	s.state = terminated
	s.upstream = nil
	if !wasSubscribed {
		return nil
	}
	return up
}

func (s *status) isSubscribed() bool {
	return s.state == subscribed
}

func (s *status) isTerminated() bool {
	return s.state == terminated
}
