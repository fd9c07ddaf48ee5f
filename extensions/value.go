package extensions

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/google/uuid"
)

// extensionIDRegistryKey is the Lua registry field that holds the ID of the
// extension owning the state.
const extensionIDRegistryKey = "ptatemp_extension_id"

// getExtensionID reads the owning extension's ID from the Lua registry.
// It returns uuid.Nil when the state was prepared without an extension.
func getExtensionID(l *lua.State) uuid.UUID {
	l.Field(lua.RegistryIndex, extensionIDRegistryKey)
	idString, ok := l.ToString(-1)
	l.Pop(1)

	if !ok {
		return uuid.Nil
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		return uuid.Nil
	}

	return id
}

// goValue converts the Lua value at the given stack index to its Go
// representation. Tables become []any or map[string]any, userdata is returned
// as the underlying Go value.
func goValue(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeNil:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeNumber:
		number, _ := l.ToNumber(index)
		return number
	case lua.TypeString:
		str, _ := l.ToString(index)
		return str
	case lua.TypeTable:
		return parseTable(l, index, goValue)
	case lua.TypeUserData:
		return l.ToUserData(index)
	default:
		return nil
	}
}

// parseTable walks the Lua table at the given index and converts it using the
// provided value converter. Tables with contiguous integer keys starting at 1
// become []any, everything else becomes map[string]any. util.PullTable cannot
// handle mixed keys, which is why this exists.
func parseTable(l *lua.State, index int, conv func(l *lua.State, index int) any) any {
	index = l.AbsIndex(index)

	array := make([]any, 0)
	table := make(map[string]any)
	isArray := true

	l.PushNil()
	for l.Next(index) {
		valueIndex := l.Top()
		keyIndex := valueIndex - 1
		value := conv(l, valueIndex)

		if l.TypeOf(keyIndex) == lua.TypeNumber {
			key, _ := l.ToNumber(keyIndex)
			if isArray && int(key) == len(array)+1 && key == float64(int(key)) {
				array = append(array, value)
				l.Pop(1)
				continue
			}
			if isArray {
				for i, existing := range array {
					table[fmt.Sprintf("%d", i+1)] = existing
				}
				isArray = false
			}
			if key == float64(int(key)) {
				table[fmt.Sprintf("%d", int(key))] = value
			} else {
				table[fmt.Sprintf("%v", key)] = value
			}
			l.Pop(1)
			continue
		}

		if isArray {
			for i, existing := range array {
				table[fmt.Sprintf("%d", i+1)] = existing
			}
			isArray = false
		}

		if l.TypeOf(keyIndex) == lua.TypeString {
			key, _ := l.ToString(keyIndex)
			table[key] = value
		}
		l.Pop(1)
	}

	if isArray {
		return array
	}
	return table
}

// asMap normalizes a parsed Lua table into a map. Empty tables in Lua are cast
// as []any, which callers expecting key-value settings need converted.
func asMap(val any) map[string]any {
	switch v := val.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) == 0 {
			return map[string]any{}
		}
	}
	return nil
}
