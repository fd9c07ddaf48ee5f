package extensions

import (
	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
)

// registerFiltersLibrary registers the `ptatemp.filters` library into the Lua
// state. Extensions use it to register template filters that become available
// in template expressions under the extension's registered names.
func registerFiltersLibrary(l *lua.State, runtime *Runtime) {
	l.Global("ptatemp")

	if l.IsNil(-1) {
		l.Pop(1)
		return
	}

	lua.NewLibrary(l, filtersLibrary(runtime))

	l.SetField(-2, "filters")

	l.Pop(1)
}

// filtersLibrary returns the list of Lua functions for managing template
// filters. These functions are available under the `ptatemp.filters` table
// in Lua scripts.
func filtersLibrary(runtime *Runtime) []lua.RegistryFunction {
	return []lua.RegistryFunction{
		// register makes a Lua function available as a template filter.
		// The function receives the filter input and an optional parameter
		// and must return the transformed value.
		//
		// @param name string The filter name used in templates.
		// @param filter function The filter function.
		{Name: "register", Function: func(l *lua.State) int {
			name := lua.CheckString(l, 2)
			if name == "" {
				lua.ArgumentError(l, 2, "filter name cannot be empty")
				return 0
			}
			if !l.IsFunction(3) {
				lua.ArgumentError(l, 3, "expected filter function")
				return 0
			}

			registryKey := "ptatemp_filter_" + runtime.Data.ID.String() + "_" + name
			l.PushValue(3)
			l.SetField(lua.RegistryIndex, registryKey)

			runtime.filters[name] = registryKey
			return 0
		}},
		// list returns the names of filters registered by this extension.
		//
		// @return table A sorted table of filter names.
		{Name: "list", Function: func(l *lua.State) int {
			util.DeepPush(l, runtime.Filters())
			return 1
		}},
	}
}
