package extensions

import (
	"fmt"
	"regexp"

	"github.com/Shopify/go-lua"
	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/core"
)

// registerPtatempLibrary registers the `ptatemp` global library and its
// sub-libraries into the Lua state. This is the main entry point for exposing
// the engine's functionality to Lua scripts.
func registerPtatempLibrary(l *lua.State, service EngineService, runtime *Runtime) {
	funcs := []lua.RegistryFunction{
		// log writes a message to the engine's log.
		//
		// @param message string The message to log.
		// @param level string (optional) The log level (e.g., "INFO", "WARN", "ERROR").
		// Defaults to "INFO".
		{Name: "log", Function: func(l *lua.State) int {
			message := lua.CheckString(l, 2)
			level := lua.OptString(l, 3, "INFO")
			if extID := getExtensionID(l); extID != uuid.Nil {
				err := service.WriteLog(level, message, core.LogWithExtensionID(extID))
				if err != nil {
					lua.Errorf(l, fmt.Sprintf("writing log : %s", err.Error()))
					return 0
				}
			} else {
				err := service.WriteLog(level, message)
				if err != nil {
					lua.Errorf(l, fmt.Sprintf("writing log : %s", err.Error()))
					return 0
				}
			}
			return 0
		}},
		// config returns the path to the engine's configuration directory.
		//
		// @return string The configuration directory path.
		{Name: "config", Function: func(l *lua.State) int {
			config, err := service.GetConfigDir()
			if err != nil {
				l.PushString("")
				return 1
			}
			l.PushString(config)
			return 1
		}},
		// journal returns the path of the journal file entries are posted to.
		//
		// @return string The journal file path.
		{Name: "journal", Function: func(l *lua.State) int {
			journal, err := service.GetJournal()
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("getting journal : %s", err.Error()))
				return 0
			}
			l.PushString(journal)
			return 1
		}},
		// scope returns the engine's current account scope.
		//
		// @return Scope The scope object.
		{Name: "scope", Function: func(l *lua.State) int {
			s, err := service.GetScope()
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("getting scope : %s", err.Error()))
				return 0
			}
			l.PushUserData(s)
			lua.SetMetaTableNamed(l, "scope")
			return 1
		}},
		// balance queries the journal for an account's balance.
		//
		// @param account string The account to query.
		// @return number The balance in cents.
		{Name: "balance", Function: func(l *lua.State) int {
			account := lua.CheckString(l, 2)
			cents, err := service.GetBalance(account)
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("getting balance for %s : %s", account, err.Error()))
				return 0
			}
			l.PushInteger(int(cents))
			return 1
		}},
		// compile compiles a regex pattern into a regexp object.
		//
		// @param pattern string The regex pattern.
		// @return Regexp|nil, string The compiled regexp, or nil and an error message.
		{Name: "compile", Function: func(l *lua.State) int {
			pattern := lua.CheckString(l, 2)
			re, err := regexp.Compile(pattern)
			if err != nil {
				l.PushNil()
				l.PushString(err.Error())
				return 2
			}
			l.PushUserData(re)
			lua.SetMetaTableNamed(l, "regexp")
			return 1
		}},
		// quote_meta escapes special regex characters in a string.
		//
		// @param input string The string to escape.
		// @return string The escaped string.
		{Name: "quote_meta", Function: func(l *lua.State) int {
			input := lua.CheckString(l, 2)
			l.PushString(regexp.QuoteMeta(input))
			return 1
		}},
		// match matches a pattern directly against a string.
		//
		// @param pattern string The regex pattern.
		// @param input string The string to match against.
		// @return boolean|nil, string True if matched, or nil and an error message.
		{Name: "match", Function: func(l *lua.State) int {
			pattern := lua.CheckString(l, 2)
			input := lua.CheckString(l, 3)
			re, err := regexp.Compile(pattern)
			if err != nil {
				l.PushNil()
				l.PushString(fmt.Sprintf("compiling regex: %s", err.Error()))
				return 2
			}
			l.PushBoolean(re.MatchString(input))
			return 1
		}},
	}

	lua.NewLibrary(l, funcs)
	l.SetGlobal("ptatemp")

	registerFiltersLibrary(l, runtime)
	registerSettingsLibrary(l, service)
	registerRepoLibrary(l, service)
	registerAmountLibrary(l, service)
	registerStringsLibrary(l)
	registerUtilsLibrary(l)
	registerEncodingLibrary(l)
}
