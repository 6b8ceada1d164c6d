package ports

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// Fatal logs err and terminates the host process with exitCode.
	// Only the command line layer calls it; library code returns errors instead.
	Fatal(err error, exitCode int)
}
