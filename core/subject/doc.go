// Package subject provides hot publishers that values are pushed into imperatively and
// broadcast to every subscriber.
//
// Passthrough forwards values to the subscribers that currently have demand and drops
// them otherwise. CurrentValue also retains the latest value: a new subscriber receives it
// on its first request, and a subscriber that missed updates for lack of demand receives
// the value current at its next request.
//
//	temperature := subject.NewCurrentValue(20.5)
//	c := stream.SinkFunc[float64](temperature, func(v float64) { fmt.Println(v) }, nil)
//	defer c.Cancel()
//
//	temperature.Send(21.0)
//	temperature.SendCompletion(stream.Finished)
//
// Feed connects any publisher to a subject, Multicast and Share let many subscribers
// consume one upstream subscription, and ObservableField wraps a value whose every
// change is published.
//
// Subjects are safe for concurrent use. Delivery iterates a snapshot of the subscribers,
// so a subscriber attached during a Send does not receive that value.
package subject
