// Package sse serves streams as Server-Sent Events.
//
//	http.Handle("/prices", sse.Handler(func(r *http.Request) stream.Publisher[Price] {
//		return timing.Debounce[Price](prices, time.Second, sched)
//	}, sse.WithEventName[Price]("price")))
//
// Strings and byte slices are written as is; other values go through the configured
// codec.Encoder (JSON by default). Multi-line payloads are split into one data field per
// line. A comment line is sent every 30 seconds while idle unless disabled with
// WithoutKeepAlive.
package sse
