// Package logger provides slog attribute helpers shared by the streamkit components.
//
// Every helper returns an empty slog.Attr for nil input, so calls can be written without
// nil checks:
//
//	log.Debug("subscription completed",
//		logger.Component("subject"),
//		logger.SubscriptionID(id),
//		logger.Completion(c),
//		logger.Error(c.Err()),
//	)
//
// Components accept a *slog.Logger through a WithLogger option and fall back to Discard.
package logger
