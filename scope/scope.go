// Package scope provides the account filtering rules used to validate
// rendered postings before they reach a journal. Rules are regular
// expressions matched against full account paths, split into include and
// exclude sets with a configurable default policy.
package scope

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tfkr-ae/ptatemp/domain"
)

// Rule represents a single filtering rule in the scope system.
// It contains a compiled regular expression and the type of matching to perform.
type Rule struct {
	Pattern   *regexp.Regexp // Compiled regular expression pattern
	MatchType string         // Type of matching: "account" or "exact"
}

// Scope represents the inclusion/exclusion rules and default behavior for
// validating accounts. Exclude rules are checked first, then include rules,
// then the default policy.
type Scope struct {
	IncludeRules map[string]Rule // Map of inclusion rules, key format: "pattern|matchType"
	ExcludeRules map[string]Rule // Map of exclusion rules, key format: "pattern|matchType"
	DefaultAllow bool            // Default behavior for accounts not matching any rule
}

// NewScope creates a new Scope with the specified default behavior and empty
// rule sets.
func NewScope(defaultAllow bool) *Scope {
	return &Scope{
		IncludeRules: make(map[string]Rule),
		ExcludeRules: make(map[string]Rule),
		DefaultAllow: defaultAllow,
	}
}

// MatchesAccount determines if an account path is in scope. The "account"
// match type searches anywhere in the path, "exact" requires the pattern to
// cover the whole path.
func (s *Scope) MatchesAccount(account string) bool {
	for _, rule := range s.ExcludeRules {
		if ruleMatches(rule, account) {
			return false
		}
	}

	for _, rule := range s.IncludeRules {
		if ruleMatches(rule, account) {
			return true
		}
	}

	return s.DefaultAllow
}

func ruleMatches(rule Rule, account string) bool {
	switch rule.MatchType {
	case "account":
		return rule.Pattern.MatchString(account)
	case "exact":
		loc := rule.Pattern.FindStringIndex(account)
		return loc != nil && loc[0] == 0 && loc[1] == len(account)
	default:
		return false
	}
}

// MatchesPosting determines if a posting's account is in scope.
func (s *Scope) MatchesPosting(posting domain.Posting) bool {
	return s.MatchesAccount(posting.Account)
}

// ClearRules clears all inclusion and exclusion rules from the scope
func (s *Scope) ClearRules() {
	s.IncludeRules = make(map[string]Rule)
	s.ExcludeRules = make(map[string]Rule)
}

// AddRule adds a rule to the scope. A leading "-" on the pattern is stripped,
// it is the conventional marker for exclusion rules.
func (s *Scope) AddRule(pattern, matchType string, exclude bool) error {
	matchType = strings.ToLower(matchType)
	if matchType != "account" && matchType != "exact" {
		return fmt.Errorf("invalid match type: %s", matchType)
	}

	trimmedPattern := strings.TrimPrefix(pattern, "-")
	compiled, err := regexp.Compile(trimmedPattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}
	rule := Rule{
		Pattern:   compiled,
		MatchType: matchType,
	}
	key := fmt.Sprintf("%s|%s", compiled.String(), matchType)

	if exclude {
		if _, exists := s.ExcludeRules[key]; exists {
			return fmt.Errorf("rule already exists in exclude list")
		}
		s.ExcludeRules[key] = rule
	} else {
		if _, exists := s.IncludeRules[key]; exists {
			return fmt.Errorf("rule already exists in include list")
		}
		s.IncludeRules[key] = rule
	}

	return nil
}

// RemoveRule removes a rule from the scope
func (s *Scope) RemoveRule(pattern, matchType string, exclude bool) error {
	matchType = strings.ToLower(matchType)
	key := fmt.Sprintf("%s|%s", strings.TrimPrefix(pattern, "-"), matchType)

	if exclude {
		if _, exists := s.ExcludeRules[key]; !exists {
			return fmt.Errorf("rule not found in exclude list")
		}
		delete(s.ExcludeRules, key)
	} else {
		if _, exists := s.IncludeRules[key]; !exists {
			return fmt.Errorf("rule not found in include list")
		}
		delete(s.IncludeRules, key)
	}

	return nil
}
