package rules

import "github.com/rs/zerolog"

// logger receives state-transition diagnostics. Disabled by default so the
// engine stays silent inside searches; CLIs opt in via SetLogger.
var logger = zerolog.Nop()

// SetLogger routes the engine's transition diagnostics to l.
func SetLogger(l zerolog.Logger) { logger = l }
