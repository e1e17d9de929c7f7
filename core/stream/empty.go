package stream

type emptySubscription struct{}

func (emptySubscription) Request(Demand) {}
func (emptySubscription) Cancel()        {}

var empty Subscription = emptySubscription{}

// EmptySubscription returns the shared subscription that ignores requests and cancellation.
// Publishers use it to complete a subscriber immediately without producing values.
func EmptySubscription() Subscription {
	return empty
}
