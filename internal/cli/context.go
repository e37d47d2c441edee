package cli

import "github.com/thread-miners/scrape/internal/app"

// The single Application instance shared by all commands for the lifetime
// of one CLI invocation.
var globalApp *app.Application

// SetApp stores the Application for command handlers.
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the Application, or nil before initialization.
func GetApp() *app.Application {
	return globalApp
}
