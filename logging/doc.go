// Package logging builds the *slog.Logger used by the cmrx command.
//
// Library packages never create loggers on their own: they receive one
// through their options (cmrx.Options.Logger, progress.NewLog) and treat
// nil as "discard".
//
//	logger, err := logging.New(logging.Config{Level: "debug", JSON: true, Service: "cmrx"})
package logging
