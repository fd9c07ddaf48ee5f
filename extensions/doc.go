// Package extensions provides the Lua-based extension system for ptatemp.
// It includes the runtime for executing Lua scripts and defines the Go functions
// and types that are exposed to the Lua environment, allowing extensions to
// register template filters and inspect or adjust journal entries before they
// are rendered.
package extensions
