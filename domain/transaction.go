package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingDate is returned when a transaction is balanced without a date.
	ErrMissingDate = errors.New("transaction has no date")
	// ErrMissingDescription is returned when a transaction is balanced without a description.
	ErrMissingDescription = errors.New("transaction has no description")
	// ErrNotEnoughPostings is returned when a transaction has fewer than two postings.
	ErrNotEnoughPostings = errors.New("transaction needs at least two postings")
	// ErrMissingAccount is returned when a posting line has no account part.
	ErrMissingAccount = errors.New("posting has no account")
	// ErrMissingAmount is returned when a posting line has no amount part.
	ErrMissingAmount = errors.New("posting has no amount")
	// ErrUnbalancedBrackets is returned when a virtual account opens or closes
	// a bracket without its counterpart.
	ErrUnbalancedBrackets = errors.New("posting has unbalanced virtual brackets")
)

// UnbalancedError reports a transaction whose postings do not sum to zero.
// Real and virtual postings are checked independently, so the error carries
// which side failed and by how many cents.
type UnbalancedError struct {
	Virtual bool  // Whether the virtual postings failed to balance.
	Delta   int64 // The leftover amount in cents.
}

func (e *UnbalancedError) Error() string {
	side := "real"
	if e.Virtual {
		side = "virtual"
	}
	return fmt.Sprintf("%s postings do not balance, off by %s", side, FormatCents(e.Delta))
}

// Posting represents a single journal posting: an account paired with an
// amount. Amounts are integer cents end to end. Virtual postings are the
// bracketed `[Account]` form of plaintext accounting and balance separately
// from real postings.
type Posting struct {
	Account string // Full account path (e.g. "Expenses:Groceries").
	Amount  int64  // Amount in cents.
	Virtual bool   // Whether the posting is virtual (bracketed).
}

// ParsePosting parses a rendered posting line. Fields are separated by runs
// of at least two spaces: the first field is the account, the last is the
// amount (which may carry a currency symbol), and anything in between is
// ignored.
func ParsePosting(line string) (*Posting, error) {
	trimmed := strings.TrimSpace(line)

	first := strings.Index(trimmed, "  ")
	if first == -1 {
		return nil, fmt.Errorf("parsing %q : %w", line, ErrMissingAmount)
	}
	last := strings.LastIndex(trimmed, "  ")

	account := strings.TrimSpace(trimmed[:first])
	amountPart := strings.TrimSpace(trimmed[last:])

	if account == "" {
		return nil, fmt.Errorf("parsing %q : %w", line, ErrMissingAccount)
	}
	if amountPart == "" {
		return nil, fmt.Errorf("parsing %q : %w", line, ErrMissingAmount)
	}

	virtual := false
	open := strings.HasPrefix(account, "[")
	closed := strings.HasSuffix(account, "]")
	switch {
	case open && closed:
		virtual = true
		account = strings.TrimSpace(account[1 : len(account)-1])
		if account == "" {
			return nil, fmt.Errorf("parsing %q : %w", line, ErrMissingAccount)
		}
	case open || closed:
		return nil, fmt.Errorf("parsing %q : %w", line, ErrUnbalancedBrackets)
	}

	amount, err := ParseAmount(amountPart)
	if err != nil {
		return nil, fmt.Errorf("parsing %q : %w", line, err)
	}

	return &Posting{Account: account, Amount: amount, Virtual: virtual}, nil
}

// ParseAmount converts a decimal currency value (optionally prefixed with a
// currency symbol) into cents.
func ParseAmount(input string) (int64, error) {
	cleaned := strings.TrimSpace(input)
	cleaned = strings.TrimLeftFunc(cleaned, func(r rune) bool {
		return (r < '0' || r > '9') && r != '-' && r != '.'
	})
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q : %w", input, err)
	}

	return int64(math.Round(value * 100)), nil
}

// FormatAmount renders an amount in cents with the given currency symbol
// (e.g. "€-12.34").
func FormatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s%.2f", currency, float64(cents)/100)
}

// FormatCents renders an amount in cents as a dollar string (e.g. "$-12.34").
func FormatCents(cents int64) string {
	return FormatAmount(cents, "$")
}

// Same reports whether two postings share an identity for override purposes.
// Identity is the (virtual, account) pair; the amount does not participate.
func (p Posting) Same(other Posting) bool {
	return p.Virtual == other.Virtual && p.Account == other.Account
}

// Compare orders postings: real before virtual, then by account name.
func (p Posting) Compare(other Posting) int {
	if p.Virtual != other.Virtual {
		if p.Virtual {
			return 1
		}
		return -1
	}
	return strings.Compare(p.Account, other.Account)
}

// Format renders the posting line with the given currency symbol.
func (p Posting) Format(currency string) string {
	account := p.Account
	if p.Virtual {
		account = fmt.Sprintf("[%s]", account)
	}
	return fmt.Sprintf("%s  \t%s", account, FormatAmount(p.Amount, currency))
}

func (p Posting) String() string {
	return p.Format("$")
}

// SortPostings orders postings in place, real before virtual and
// alphabetically within each side.
func SortPostings(postings []Posting) {
	slices.SortStableFunc(postings, func(a, b Posting) int {
		return a.Compare(b)
	})
}

// MergeOverrides merges override postings over a set of defaults. An override
// with the same (virtual, account) identity as a default replaces it;
// everything else from both sides is kept. Both inputs are re-sorted, the
// result stays in posting order.
func MergeOverrides(defaults []Posting, overrides []Posting) []Posting {
	base := slices.Clone(defaults)
	extra := slices.Clone(overrides)
	SortPostings(base)
	SortPostings(extra)

	merged := make([]Posting, 0, len(base)+len(extra))
	i, j := 0, 0
	for i < len(base) && j < len(extra) {
		switch {
		case base[i].Same(extra[j]):
			merged = append(merged, extra[j])
			i++
			j++
		case base[i].Compare(extra[j]) < 0:
			merged = append(merged, base[i])
			i++
		default:
			merged = append(merged, extra[j])
			j++
		}
	}
	merged = append(merged, base[i:]...)
	merged = append(merged, extra[j:]...)

	return merged
}

// Transaction is a dated journal entry with a description and at least two
// postings. A transaction obtained through TransactionBuilder.Balance is
// guaranteed to balance.
type Transaction struct {
	Date        time.Time
	Description string
	Postings    []Posting
}

// Check verifies the transaction invariants: date, description, a minimum of
// two postings, and real and virtual postings each summing to zero.
func (tx *Transaction) Check() error {
	if tx.Date.IsZero() {
		return ErrMissingDate
	}
	if tx.Description == "" {
		return ErrMissingDescription
	}
	if len(tx.Postings) < 2 {
		return ErrNotEnoughPostings
	}

	var realSum, virtualSum int64
	for _, posting := range tx.Postings {
		if posting.Virtual {
			virtualSum += posting.Amount
		} else {
			realSum += posting.Amount
		}
	}

	if realSum != 0 {
		return &UnbalancedError{Virtual: false, Delta: realSum}
	}
	if virtualSum != 0 {
		return &UnbalancedError{Virtual: true, Delta: virtualSum}
	}

	return nil
}

// Render produces the transaction in journal format with the given currency
// symbol: the date and description on the first line, each posting indented
// below it.
func (tx *Transaction) Render(currency string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s %s", tx.Date.Format("2006-01-02"), tx.Description))
	for _, posting := range tx.Postings {
		builder.WriteString(fmt.Sprintf("\n    %s", posting.Format(currency)))
	}
	return builder.String()
}

// String renders the transaction in journal format with the dollar symbol.
func (tx *Transaction) String() string {
	return tx.Render("$")
}

// TransactionBuilder assembles a transaction step by step. Balance is the
// only way out, so every Transaction handed to callers has been checked.
type TransactionBuilder struct {
	date        time.Time
	description string
	postings    []Posting
}

// NewTransaction returns an empty transaction builder.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{}
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.date = date
	return b
}

// WithDescription sets the transaction description.
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	b.description = description
	return b
}

// WithPosting appends a single posting.
func (b *TransactionBuilder) WithPosting(posting Posting) *TransactionBuilder {
	b.postings = append(b.postings, posting)
	return b
}

// WithPostings appends a slice of postings.
func (b *TransactionBuilder) WithPostings(postings []Posting) *TransactionBuilder {
	b.postings = append(b.postings, postings...)
	return b
}

// Balance checks the accumulated fields and returns the finished transaction
// with its postings sorted, or the first invariant violation.
func (b *TransactionBuilder) Balance() (*Transaction, error) {
	postings := slices.Clone(b.postings)
	SortPostings(postings)

	tx := &Transaction{
		Date:        b.date,
		Description: b.description,
		Postings:    postings,
	}

	if err := tx.Check(); err != nil {
		return nil, err
	}

	return tx, nil
}
