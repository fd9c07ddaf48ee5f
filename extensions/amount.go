package extensions

import (
	"github.com/Shopify/go-lua"
	"github.com/tfkr-ae/ptatemp/domain"
)

func registerAmountLibrary(l *lua.State, service EngineService) {
	l.Global("ptatemp")

	if l.IsNil(-1) {
		l.Pop(1)
		return
	}

	lua.NewLibrary(l, amountLibrary(service))

	l.SetField(-2, "amount")

	l.Pop(1)
}

// amountLibrary returns a list of Lua functions for working with currency
// amounts. These functions are available under the `ptatemp.amount` table
// in Lua scripts.
func amountLibrary(service EngineService) []lua.RegistryFunction {
	return []lua.RegistryFunction{
		// parse converts an amount string to cents.
		//
		// @param input string The amount (e.g., "$1,234.56" or "-42.5").
		// @return number The amount in cents.
		{Name: "parse", Function: func(l *lua.State) int {
			input := lua.CheckString(l, 2)

			cents, err := domain.ParseAmount(input)
			if err != nil {
				lua.Errorf(l, "parsing amount %s: %s", input, err.Error())
				return 0
			}

			l.PushInteger(int(cents))
			return 1
		}},
		// format converts cents to a currency string using the configured
		// currency symbol.
		//
		// @param cents number The amount in cents.
		// @return string The formatted amount (e.g., "$12.34").
		{Name: "format", Function: func(l *lua.State) int {
			cents := lua.CheckInteger(l, 2)

			l.PushString(domain.FormatAmount(int64(cents), service.Currency()))
			return 1
		}},
		// split divides an amount in cents into n near-equal parts whose sum
		// equals the original amount. The first parts absorb the remainder.
		//
		// @param cents number The amount in cents.
		// @param parts number The number of parts.
		// @return table A table of cent amounts.
		{Name: "split", Function: func(l *lua.State) int {
			cents := lua.CheckInteger(l, 2)
			parts := lua.CheckInteger(l, 3)

			if parts <= 0 {
				lua.ArgumentError(l, 3, "parts must be positive")
				return 0
			}

			base := cents / parts
			remainder := cents - base*parts

			l.CreateTable(parts, 0)
			for i := 0; i < parts; i++ {
				share := base
				if remainder > 0 {
					share++
					remainder--
				} else if remainder < 0 {
					share--
					remainder++
				}
				l.PushInteger(i + 1)
				l.PushInteger(share)
				l.SetTable(-3)
			}
			return 1
		}},
	}
}
