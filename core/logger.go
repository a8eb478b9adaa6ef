package core

// Logger is the app-wide logging interface.
// expected args fmt: error, map[string]interface{}, user.User
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Critical(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
