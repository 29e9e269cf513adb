// Package logging provides structured logging for the phonebook CLI and its
// demo workers.
//
// This package wraps Go's log/slog to emit JSON lines, either to stderr or to
// a phonebook.log file in a configured directory. Child loggers carry
// persistent attributes such as the component name or a worker's role and
// number, so interleaved output from concurrent readers and writers can be
// filtered after the fact.
//
// The lock and record store packages never log; they return errors and leave
// reporting to the caller.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/phonebook", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	w := logger.WithComponent("demo").WithWorker("writer", 1)
//	w.Info("record added", "name", name, "phone", phone)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"record added","component":"demo","role":"writer","worker":1,"name":"...","phone":"..."}
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package logging
