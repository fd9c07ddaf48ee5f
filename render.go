package ptatemp

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
	"github.com/tfkr-ae/ptatemp/extensions"
)

// balanceMarker matches `<<account>>` balance interpolation markers in
// template text.
var balanceMarker = regexp.MustCompile(`<<([^>]+)>>`)

// OutOfScopeError reports a rendered posting whose account is excluded by the
// engine's scope rules.
type OutOfScopeError struct {
	Account string
}

func (e *OutOfScopeError) Error() string {
	return fmt.Sprintf("account %s is out of scope", e.Account)
}

// RenderParams carries one render invocation. TemplateName is a stored
// template name or a file path; Content, when set, is used directly and
// TemplateName only labels the history record.
type RenderParams struct {
	TemplateName string
	Content      string
	Description  string
	Date         time.Time
	Vars         map[string]any
	Overrides    []domain.Posting
	Journal      string
}

// RenderResult is a successful render: the balanced transaction and the
// history record captured for it (nil when the engine has no repository).
type RenderResult struct {
	Transaction *domain.Transaction
	Record      *domain.Record
}

// Render runs the full pipeline: template resolution, balance interpolation,
// Jinja2-style evaluation, posting parsing, override merge, scope validation,
// extension hooks, and balancing. Every successful render is captured in the
// history.
func (engine *Engine) Render(params RenderParams) (*RenderResult, error) {
	content, err := engine.resolveTemplate(params)
	if err != nil {
		return nil, err
	}

	interpolated, err := engine.interpolateBalances(content, params.Journal)
	if err != nil {
		return nil, err
	}

	rendered, err := evaluateTemplate(interpolated, params.Vars)
	if err != nil {
		return nil, err
	}

	defaults, err := parsePostings(rendered)
	if err != nil {
		return nil, err
	}

	merged := domain.MergeOverrides(defaults, params.Overrides)

	date := params.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &domain.Transaction{
		Date:        date,
		Description: params.Description,
		Postings:    merged,
	}
	for _, ext := range engine.Extensions {
		if err := ext.CallTransactionHook(transaction); err != nil {
			return nil, fmt.Errorf("running extension hook : %w", err)
		}
	}

	// Scope runs after the hooks so hook-added postings are validated too
	for _, posting := range transaction.Postings {
		if !engine.Scope.MatchesPosting(posting) {
			return nil, &OutOfScopeError{Account: posting.Account}
		}
	}

	balanced, err := domain.NewTransaction().
		WithDate(transaction.Date).
		WithDescription(transaction.Description).
		WithPostings(transaction.Postings).
		Balance()
	if err != nil {
		return nil, fmt.Errorf("balancing transaction : %w", err)
	}

	result := &RenderResult{Transaction: balanced}
	if engine.Repo != nil {
		record, err := engine.recordRender(params, balanced)
		if err != nil {
			return nil, err
		}
		result.Record = record
	}

	return result, nil
}

// resolveTemplate picks the template source: inline content first, then a
// readable file at TemplateName, then the stored template library.
func (engine *Engine) resolveTemplate(params RenderParams) (string, error) {
	if params.Content != "" {
		return params.Content, nil
	}
	if params.TemplateName == "" {
		return "", fmt.Errorf("no template given")
	}

	if raw, err := os.ReadFile(params.TemplateName); err == nil {
		return string(raw), nil
	}

	if engine.Repo == nil {
		return "", fmt.Errorf("template file %s not found and no template store configured", params.TemplateName)
	}
	template, err := engine.Repo.GetTemplateByName(params.TemplateName)
	if err != nil {
		return "", fmt.Errorf("loading template %s : %w", params.TemplateName, err)
	}
	return template.Content, nil
}

// interpolateBalances replaces every `<<account>>` marker with the account's
// current balance in cents. The journal is only resolved when at least one
// marker is present.
func (engine *Engine) interpolateBalances(content string, journalFlag string) (string, error) {
	if !balanceMarker.MatchString(content) {
		return content, nil
	}

	journal, err := engine.ResolveJournal(journalFlag)
	if err != nil {
		return "", fmt.Errorf("resolving journal for balance interpolation : %w", err)
	}

	var firstErr error
	interpolated := balanceMarker.ReplaceAllStringFunc(content, func(marker string) string {
		account := strings.TrimSpace(balanceMarker.FindStringSubmatch(marker)[1])
		cents, err := engine.Runner.Balance(journal, account)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("interpolating balance of %s : %w", account, err)
			}
			return marker
		}
		return strconv.FormatInt(cents, 10)
	})
	if firstErr != nil {
		return "", firstErr
	}

	return interpolated, nil
}

// evaluateTemplate runs the Jinja2-style template with the variable context.
func evaluateTemplate(content string, vars map[string]any) (string, error) {
	template, err := pongo2.FromString(content)
	if err != nil {
		return "", fmt.Errorf("parsing template : %w", err)
	}

	context := pongo2.Context{}
	for name, value := range vars {
		context[name] = value
	}

	rendered, err := template.Execute(context)
	if err != nil {
		return "", fmt.Errorf("executing template : %w", err)
	}
	return rendered, nil
}

// parsePostings converts each non-empty rendered line into a posting.
func parsePostings(rendered string) ([]domain.Posting, error) {
	var postings []domain.Posting
	for _, line := range strings.Split(rendered, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		posting, err := domain.ParsePosting(line)
		if err != nil {
			return nil, fmt.Errorf("parsing rendered line : %w", err)
		}
		postings = append(postings, *posting)
	}
	return postings, nil
}

// recordRender captures a balanced transaction in the render history.
func (engine *Engine) recordRender(params RenderParams, transaction *domain.Transaction) (*domain.Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating record id : %w", err)
	}

	metadata := map[string]any{}
	if len(params.Vars) > 0 {
		metadata["vars"] = params.Vars
	}
	if len(params.Overrides) > 0 {
		metadata["overrides"] = len(params.Overrides)
	}

	record := &domain.Record{
		ID:           id,
		TemplateName: params.TemplateName,
		Description:  transaction.Description,
		EntryDate:    transaction.Date,
		Rendered:     transaction.Render(engine.Currency()),
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	}
	if err := engine.Repo.InsertRecord(record); err != nil {
		return nil, fmt.Errorf("recording render : %w", err)
	}
	return record, nil
}

// ParseVars converts `name=value` arguments into a variable context. Values
// that parse as integers become int64, everything else stays a string.
// Malformed entries are logged and skipped.
func (engine *Engine) ParseVars(pairs []string) map[string]any {
	vars := make(map[string]any)
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			engine.WriteLog("WARN", fmt.Sprintf("skipping malformed variable %q, expected name=value", pair))
			continue
		}
		name = strings.TrimSpace(name)
		if number, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			vars[name] = number
		} else {
			vars[name] = value
		}
	}
	return vars
}

// ParseOverrides converts posting-line arguments into override postings.
func ParseOverrides(lines []string) ([]domain.Posting, error) {
	overrides := make([]domain.Posting, 0, len(lines))
	for _, line := range lines {
		posting, err := domain.ParsePosting(line)
		if err != nil {
			return nil, fmt.Errorf("parsing override : %w", err)
		}
		overrides = append(overrides, *posting)
	}
	return overrides, nil
}

// ParseDate parses a `YYYY-MM-DD` date, falling back to the current time for
// absent or unparseable input.
func ParseDate(input string) time.Time {
	if input == "" {
		return time.Now()
	}
	date, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Now()
	}
	return date
}

// registerTemplateFilters bridges an extension's registered filters into the
// template renderer so templates can use `{{ value|name }}`.
func registerTemplateFilters(runtime *extensions.Runtime) error {
	for _, name := range runtime.Filters() {
		if pongo2.FilterExists(name) {
			continue
		}
		filterName := name
		err := pongo2.RegisterFilter(filterName, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			result, err := runtime.CallFilter(filterName, in.Interface(), param.Interface())
			if err != nil {
				return nil, &pongo2.Error{Sender: "filter:" + filterName, OrigError: err}
			}
			return pongo2.AsValue(result), nil
		})
		if err != nil {
			return fmt.Errorf("registering filter %s : %w", filterName, err)
		}
	}
	return nil
}
