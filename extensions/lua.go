package extensions

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
	"github.com/tfkr-ae/ptatemp/domain"
	"github.com/tfkr-ae/ptatemp/scope"
)

// RegisterType creates a new metatable in the Lua state and associates it with a name.
// It registers a set of functions as methods for the type and a `__tostring` metamethod.
// This is a generic helper for exposing Go types to Lua.
func RegisterType(l *lua.State, name string, functions map[string]lua.Function, toString func(l *lua.State) int) {
	lua.NewMetaTable(l, name)
	l.PushGoFunction(FunctionIndex(functions))
	l.SetField(-2, "__index")
	l.PushGoFunction(toString)
	l.SetField(-2, "__tostring")
	l.Pop(1)
}

// FunctionIndex returns a Lua function that acts as an `__index` metamethod.
// It looks up a field name in the provided functions map and pushes the corresponding
// function onto the stack if found.
func FunctionIndex(functions map[string]lua.Function) func(l *lua.State) int {
	return func(l *lua.State) int {
		field := lua.CheckString(l, 2)
		if function, ok := functions[field]; ok {
			l.PushGoFunction(function)
		} else {
			l.PushNil()
		}
		return 1
	}
}

// RegisterScopeType registers the `scope.Scope` type and its methods with the Lua state.
// This allows Lua scripts to interact with the engine's account scope, adding,
// removing, and checking rules.
func RegisterScopeType(runtime *Runtime) {
	funcs := map[string]lua.Function{
		// add_rule adds a new rule to the scope.
		//
		// @param rule string The rule pattern. A leading "-" makes it an exclude rule.
		// @param matchType string The type of match ("account" or "exact").
		"add_rule": func(l *lua.State) int {
			s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)
			ruleString := lua.CheckString(l, 2)
			matchType := lua.CheckString(l, 3)
			isExclude := strings.HasPrefix(ruleString, "-")

			err := s.AddRule(ruleString, matchType, isExclude)
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("adding rule : %s", err.Error()))
				return 0
			}

			return 0
		},
		// remove_rule removes a rule from the scope.
		//
		// @param rule string The rule pattern to remove.
		// @param matchType string The type of match.
		"remove_rule": func(l *lua.State) int {
			s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)
			ruleString := lua.CheckString(l, 2)
			matchType := lua.CheckString(l, 3)
			isExclude := strings.HasPrefix(ruleString, "-")

			err := s.RemoveRule(ruleString, matchType, isExclude)
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("removing rule : %s", err.Error()))
				return 0
			}
			return 0
		},
		// matches checks if an account name is in scope.
		//
		// @param account string The account name to check.
		// @return boolean True if the account is in scope.
		"matches": func(l *lua.State) int {
			s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)
			account := lua.CheckString(l, 2)

			l.PushBoolean(s.MatchesAccount(account))
			return 1
		},
		// matches_posting checks if a posting's account is in scope.
		//
		// @param posting Posting The posting to check.
		// @return boolean True if the posting is in scope.
		"matches_posting": func(l *lua.State) int {
			s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)
			posting := lua.CheckUserData(l, 2, "posting").(*domain.Posting)

			l.PushBoolean(s.MatchesPosting(*posting))
			return 1
		},
		// set_default_allow sets the default scope policy.
		//
		// @param allow boolean True to allow by default, false to block.
		"set_default_allow": func(l *lua.State) int {
			s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)
			allow := l.ToBoolean(2)

			s.DefaultAllow = allow
			return 0
		},
		// clear_rules removes all rules from the scope.
		"clear_rules": func(l *lua.State) int {
			s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)
			s.ClearRules()
			return 0
		},
	}

	RegisterType(runtime.LuaState, "scope", funcs, func(l *lua.State) int {
		s := lua.CheckUserData(l, 1, "scope").(*scope.Scope)

		policy := "Block"
		if s.DefaultAllow {
			policy = "Allow"
		}

		formatRules := func(rules map[string]scope.Rule) string {
			if len(rules) == 0 {
				return " [None]"
			}
			var parts []string
			for _, r := range rules {
				parts = append(parts, fmt.Sprintf("%s (%s)", r.Pattern.String(), r.MatchType))
			}
			slices.Sort(parts)

			return "\n    - " + strings.Join(parts, "\n    - ")
		}

		result := fmt.Sprintf(
			"Scope (Default: %s)\n  Include Rules:%s\n  Exclude Rules:%s",
			policy,
			formatRules(s.IncludeRules),
			formatRules(s.ExcludeRules),
		)

		l.PushString(result)
		return 1
	})
}

// RegisterRegexType registers the `regexp.Regexp` type and its methods with the Lua state.
// This allows Lua scripts to perform regular expression matching, searching, and replacement.
func RegisterRegexType(runtime *Runtime) {
	funcs := make(map[string]lua.Function)

	// match checks if the regex matches a string.
	//
	// @param input string The string to match against.
	// @return boolean True if the regex matches.
	funcs["match"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		matched := re.MatchString(input)

		l.PushBoolean(matched)
		return 1
	}

	// is_anchored_match checks if the regex matches the entire string.
	//
	// @param input string The string to match against.
	// @return boolean True if the regex matches the entire string.
	funcs["is_anchored_match"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)

		loc := re.FindStringIndex(input)
		isAnchored := loc != nil && loc[0] == 0 && loc[1] == len(input)

		l.PushBoolean(isAnchored)
		return 1
	}

	// find returns the first match in a string.
	//
	// @param input string The string to search in.
	// @return string The first match, or an empty string if no match.
	funcs["find"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		match := re.FindString(input)

		l.PushString(match)
		return 1
	}

	// find_all returns all non-overlapping matches in a string.
	//
	// @param input string The string to search in.
	// @return table A table of all matches, or nil if no match.
	funcs["find_all"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		matches := re.FindAllString(input, -1)

		if matches == nil {
			l.PushNil()
			return 1
		}

		util.DeepPush(l, matches)
		return 1
	}

	// find_submatch returns the first match and its submatches.
	//
	// @param input string The string to search in.
	// @return table A table of the match and its submatches, or nil if no match.
	funcs["find_submatch"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		submatches := re.FindStringSubmatch(input)

		if submatches == nil {
			l.PushNil()
			return 1
		}

		util.DeepPush(l, submatches)
		return 1
	}

	// find_named_submatch returns a table of named submatches.
	//
	// @param input string The string to search in.
	// @return table A table of named submatches, or nil if no match.
	funcs["find_named_submatch"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		submatches := re.FindStringSubmatch(input)

		if submatches == nil {
			l.PushNil()
			return 1
		}

		result := make(map[string]string)
		names := re.SubexpNames()

		for i, name := range names {
			if i > 0 && name != "" {
				result[name] = submatches[i]
			}
		}

		util.DeepPush(l, result)
		return 1
	}

	// replace replaces all matches in a string with a replacement string.
	//
	// @param input string The string to search in.
	// @param replacement string The replacement string.
	// @return string The new string.
	funcs["replace"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		replacement := lua.CheckString(l, 3)
		result := re.ReplaceAllString(input, replacement)

		l.PushString(result)
		return 1
	}

	// split splits a string by the regex.
	//
	// @param input string The string to split.
	// @return table A table of the split parts.
	funcs["split"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		input := lua.CheckString(l, 2)
		parts := re.Split(input, -1)
		util.DeepPush(l, parts)
		return 1
	}

	// pattern returns the regex pattern as a string.
	//
	// @return string The regex pattern.
	funcs["pattern"] = func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		l.PushString(re.String())
		return 1
	}

	RegisterType(runtime.LuaState, "regexp", funcs, func(l *lua.State) int {
		re := lua.CheckUserData(l, 1, "regexp").(*regexp.Regexp)
		l.PushString(fmt.Sprintf("Regexp { Pattern: %s, Subexpressions: %d }", re.String(), re.NumSubexp()))
		return 1
	})
}

// RegisterPostingType registers the `domain.Posting` type and its methods with
// the Lua state. This allows Lua scripts to read and modify individual journal
// postings from the on_transaction hook.
func RegisterPostingType(runtime *Runtime) {
	funcs := make(map[string]lua.Function)

	// account returns the posting's account name.
	//
	// @return string The account name.
	funcs["account"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		l.PushString(posting.Account)
		return 1
	}

	// set_account sets the posting's account name.
	//
	// @param account string The new account name.
	funcs["set_account"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		account := lua.CheckString(l, 2)

		if account == "" {
			lua.ArgumentError(l, 2, "account cannot be empty")
			return 0
		}
		posting.Account = account
		return 0
	}

	// amount returns the posting's amount in cents.
	//
	// @return number The amount in cents.
	funcs["amount"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		l.PushInteger(int(posting.Amount))
		return 1
	}

	// set_amount sets the posting's amount in cents.
	//
	// @param cents number The new amount in cents.
	funcs["set_amount"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		cents := lua.CheckInteger(l, 2)

		posting.Amount = int64(cents)
		return 0
	}

	// amount_string returns the posting's amount formatted as currency.
	//
	// @return string The formatted amount (e.g., "$42.50").
	funcs["amount_string"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		l.PushString(domain.FormatCents(posting.Amount))
		return 1
	}

	// is_virtual reports whether the posting is virtual.
	//
	// @return boolean True if the posting is virtual.
	funcs["is_virtual"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		l.PushBoolean(posting.Virtual)
		return 1
	}

	// set_virtual flags the posting as virtual or real.
	//
	// @param virtual boolean True for a virtual posting.
	funcs["set_virtual"] = func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		posting.Virtual = l.ToBoolean(2)
		return 0
	}

	RegisterType(runtime.LuaState, "posting", funcs, func(l *lua.State) int {
		posting := lua.CheckUserData(l, 1, "posting").(*domain.Posting)
		l.PushString(posting.String())
		return 1
	})
}

// RegisterTransactionType registers the `domain.Transaction` type and its
// methods with the Lua state. The on_transaction hook receives a transaction
// userdata and can adjust its fields before the entry is balanced.
func RegisterTransactionType(runtime *Runtime) {
	funcs := make(map[string]lua.Function)

	// date returns the transaction date.
	//
	// @return string The date in YYYY-MM-DD form.
	funcs["date"] = func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)
		l.PushString(transaction.Date.Format("2006-01-02"))
		return 1
	}

	// set_date sets the transaction date.
	//
	// @param date string The new date in YYYY-MM-DD form.
	funcs["set_date"] = func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)
		dateString := lua.CheckString(l, 2)

		date, err := time.Parse("2006-01-02", dateString)
		if err != nil {
			lua.ArgumentError(l, 2, fmt.Sprintf("invalid date: %v", err))
			return 0
		}
		transaction.Date = date
		return 0
	}

	// description returns the transaction description.
	//
	// @return string The description.
	funcs["description"] = func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)
		l.PushString(transaction.Description)
		return 1
	}

	// set_description sets the transaction description.
	//
	// @param description string The new description.
	funcs["set_description"] = func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)
		description := lua.CheckString(l, 2)

		if description == "" {
			lua.ArgumentError(l, 2, "description cannot be empty")
			return 0
		}
		transaction.Description = description
		return 0
	}

	// postings returns the transaction's postings.
	//
	// @return table A table of posting objects.
	funcs["postings"] = func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)

		l.CreateTable(len(transaction.Postings), 0)
		for i := range transaction.Postings {
			l.PushInteger(i + 1)
			l.PushUserData(&transaction.Postings[i])
			lua.SetMetaTableNamed(l, "posting")
			l.SetTable(-3)
		}
		return 1
	}

	// add_posting appends a new posting to the transaction.
	//
	// @param account string The account name, optionally in bracketed
	// `[Account]` form.
	// @param cents number The amount in cents.
	// @param virtual boolean (optional) True for a virtual posting.
	funcs["add_posting"] = func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)
		account := lua.CheckString(l, 2)
		cents := lua.CheckInteger(l, 3)
		virtual := l.ToBoolean(4)

		// The bracketed form wins over the flag, matching the posting parser
		if strings.HasPrefix(account, "[") && strings.HasSuffix(account, "]") {
			account = strings.TrimSpace(account[1 : len(account)-1])
			virtual = true
		}
		if account == "" {
			lua.ArgumentError(l, 2, "account cannot be empty")
			return 0
		}

		transaction.Postings = append(transaction.Postings, domain.Posting{
			Account: account,
			Amount:  int64(cents),
			Virtual: virtual,
		})
		return 0
	}

	RegisterType(runtime.LuaState, "transaction", funcs, func(l *lua.State) int {
		transaction := lua.CheckUserData(l, 1, "transaction").(*domain.Transaction)
		l.PushString(transaction.String())
		return 1
	})
}
