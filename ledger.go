package ptatemp

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tfkr-ae/ptatemp/domain"
)

// ErrNoLedgerBinary is returned when none of the configured ledger binaries
// can be found on PATH.
var ErrNoLedgerBinary = errors.New("no ledger binary found")

// LedgerRunner answers balance queries against a journal file. The default
// implementation shells out to hledger or ledger; tests substitute fakes.
type LedgerRunner interface {
	// Balance returns the current balance of an account in cents.
	Balance(journal string, account string) (int64, error)
}

// ExecRunner runs balance queries through an external ledger binary. The
// binaries are tried in order; the first one found on PATH is used.
type ExecRunner struct {
	Binaries []string
}

// NewExecRunner returns a runner that prefers hledger and falls back to
// ledger.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Binaries: []string{"hledger", "ledger"}}
}

// Balance invokes `BINARY -f JOURNAL bal ACCOUNT` and parses the total line
// of its output into cents.
func (runner *ExecRunner) Balance(journal string, account string) (int64, error) {
	for _, binary := range runner.Binaries {
		binaryPath, err := exec.LookPath(binary)
		if err != nil {
			continue
		}

		output, err := exec.Command(binaryPath, "-f", journal, "bal", account).Output()
		if err != nil {
			return 0, fmt.Errorf("running %s bal %s : %w", binary, account, err)
		}

		cents, err := parseBalanceOutput(string(output))
		if err != nil {
			return 0, fmt.Errorf("parsing %s output for %s : %w", binary, account, err)
		}
		return cents, nil
	}

	return 0, fmt.Errorf("%w (tried %s)", ErrNoLedgerBinary, strings.Join(runner.Binaries, ", "))
}

// parseBalanceOutput extracts the balance in cents from ledger-style output.
// The total sits on the last non-empty line; everything but digits, the minus
// sign, and the decimal point is stripped before parsing.
func parseBalanceOutput(output string) (int64, error) {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		var builder strings.Builder
		for _, r := range line {
			if (r >= '0' && r <= '9') || r == '-' || r == '.' {
				builder.WriteRune(r)
			}
		}

		cleaned := builder.String()
		if cleaned == "" {
			return 0, fmt.Errorf("no numeric value in total line %q", line)
		}

		return domain.ParseAmount(cleaned)
	}
	return 0, errors.New("empty balance output")
}
