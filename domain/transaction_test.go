package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParsePosting(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		want    Posting
		wantErr error
	}{
		{
			name: "real posting with currency symbol",
			line: "Expenses:Groceries  $42.50",
			want: Posting{Account: "Expenses:Groceries", Amount: 4250, Virtual: false},
		},
		{
			name: "negative amount",
			line: "Assets:Checking  $-42.50",
			want: Posting{Account: "Assets:Checking", Amount: -4250, Virtual: false},
		},
		{
			name: "bare amount without symbol",
			line: "Expenses:Rent  1200",
			want: Posting{Account: "Expenses:Rent", Amount: 120000, Virtual: false},
		},
		{
			name: "virtual posting",
			line: "[Budget:Food]  $-42.50",
			want: Posting{Account: "Budget:Food", Amount: -4250, Virtual: true},
		},
		{
			name: "leading whitespace and wide separator",
			line: "    Expenses:Misc      $0.99",
			want: Posting{Account: "Expenses:Misc", Amount: 99, Virtual: false},
		},
		{
			name: "thousands separators",
			line: "Assets:Savings  $1,234.56",
			want: Posting{Account: "Assets:Savings", Amount: 123456, Virtual: false},
		},
		{
			name: "memo field between account and amount",
			line: "Expenses:Groceries  weekly shop  $5.00",
			want: Posting{Account: "Expenses:Groceries", Amount: 500, Virtual: false},
		},
		{
			name: "non-dollar currency symbol",
			line: "Expenses:Rent  €1200.00",
			want: Posting{Account: "Expenses:Rent", Amount: 120000, Virtual: false},
		},
		{
			name:    "missing separator",
			line:    "Expenses:Groceries $42.50",
			wantErr: ErrMissingAmount,
		},
		{
			name:    "missing account",
			line:    "  $42.50",
			wantErr: ErrMissingAmount,
		},
		{
			name:    "open bracket only",
			line:    "[Budget:Food  $10.00",
			wantErr: ErrUnbalancedBrackets,
		},
		{
			name:    "close bracket only",
			line:    "Budget:Food]  $10.00",
			wantErr: ErrUnbalancedBrackets,
		},
		{
			name:    "empty virtual account",
			line:    "[]  $10.00",
			wantErr: ErrMissingAccount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			posting, err := ParsePosting(tc.line)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ParsePosting(%q) error = %v, want %v", tc.line, err, tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParsePosting(%q) failed: %v", tc.line, err)
			}
			if *posting != tc.want {
				t.Errorf("ParsePosting(%q) = %+v, want %+v", tc.line, *posting, tc.want)
			}
		})
	}
}

func TestParseAmountRounding(t *testing.T) {
	testCases := []struct {
		input string
		want  int64
	}{
		{"0.005", 1},
		{"-0.005", -1},
		{"10", 1000},
		{"$0.10", 10},
		{"19.999", 2000},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if err != nil {
				t.Fatalf("ParseAmount(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}

	if _, err := ParseAmount("not-a-number"); err == nil {
		t.Error("ParseAmount accepted a non-numeric input")
	}
}

func TestPostingString(t *testing.T) {
	real := Posting{Account: "Expenses:Groceries", Amount: 4250}
	if got, want := real.String(), "Expenses:Groceries  \t$42.50"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	virtual := Posting{Account: "Budget:Food", Amount: -4250, Virtual: true}
	if got, want := virtual.String(), "[Budget:Food]  \t$-42.50"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFormatAmount(t *testing.T) {
	if got, want := FormatAmount(4250, "€"), "€42.50"; got != want {
		t.Errorf("FormatAmount = %q, want %q", got, want)
	}
	if got, want := FormatCents(-4250), "$-42.50"; got != want {
		t.Errorf("FormatCents = %q, want %q", got, want)
	}

	posting := Posting{Account: "Expenses:Rent", Amount: 120000}
	if got, want := posting.Format("€"), "Expenses:Rent  \t€1200.00"; got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestMergeOverrides(t *testing.T) {
	defaults := []Posting{
		{Account: "Expenses:Groceries", Amount: 4250},
		{Account: "Assets:Checking", Amount: -4250},
		{Account: "Budget:Food", Amount: -4250, Virtual: true},
	}

	testCases := []struct {
		name      string
		overrides []Posting
		want      []Posting
	}{
		{
			name:      "no overrides keeps defaults",
			overrides: nil,
			want: []Posting{
				{Account: "Assets:Checking", Amount: -4250},
				{Account: "Expenses:Groceries", Amount: 4250},
				{Account: "Budget:Food", Amount: -4250, Virtual: true},
			},
		},
		{
			name: "matching identity replaces amount",
			overrides: []Posting{
				{Account: "Expenses:Groceries", Amount: 1000},
			},
			want: []Posting{
				{Account: "Assets:Checking", Amount: -4250},
				{Account: "Expenses:Groceries", Amount: 1000},
				{Account: "Budget:Food", Amount: -4250, Virtual: true},
			},
		},
		{
			name: "new identity is appended in order",
			overrides: []Posting{
				{Account: "Expenses:Tips", Amount: 500},
			},
			want: []Posting{
				{Account: "Assets:Checking", Amount: -4250},
				{Account: "Expenses:Groceries", Amount: 4250},
				{Account: "Expenses:Tips", Amount: 500},
				{Account: "Budget:Food", Amount: -4250, Virtual: true},
			},
		},
		{
			name: "virtual identity does not replace real",
			overrides: []Posting{
				{Account: "Expenses:Groceries", Amount: 1000, Virtual: true},
			},
			want: []Posting{
				{Account: "Assets:Checking", Amount: -4250},
				{Account: "Expenses:Groceries", Amount: 4250},
				{Account: "Budget:Food", Amount: -4250, Virtual: true},
				{Account: "Expenses:Groceries", Amount: 1000, Virtual: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			merged := MergeOverrides(defaults, tc.overrides)
			if len(merged) != len(tc.want) {
				t.Fatalf("MergeOverrides returned %d postings, want %d: %+v", len(merged), len(tc.want), merged)
			}
			for i := range merged {
				if merged[i] != tc.want[i] {
					t.Errorf("posting %d = %+v, want %+v", i, merged[i], tc.want[i])
				}
			}
		})
	}
}

func TestTransactionBuilderBalance(t *testing.T) {
	date := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	t.Run("balanced transaction", func(t *testing.T) {
		tx, err := NewTransaction().
			WithDate(date).
			WithDescription("Groceries").
			WithPosting(Posting{Account: "Expenses:Groceries", Amount: 4250}).
			WithPosting(Posting{Account: "Assets:Checking", Amount: -4250}).
			Balance()
		if err != nil {
			t.Fatalf("Balance() failed: %v", err)
		}

		want := "2025-03-14 Groceries\n    Assets:Checking  \t$-42.50\n    Expenses:Groceries  \t$42.50"
		if tx.String() != want {
			t.Errorf("String() = %q, want %q", tx.String(), want)
		}
	})

	t.Run("virtual postings balance separately", func(t *testing.T) {
		_, err := NewTransaction().
			WithDate(date).
			WithDescription("Budgeted groceries").
			WithPostings([]Posting{
				{Account: "Expenses:Groceries", Amount: 4250},
				{Account: "Assets:Checking", Amount: -4250},
				{Account: "Budget:Food", Amount: -4250, Virtual: true},
				{Account: "Budget:Available", Amount: 4250, Virtual: true},
			}).
			Balance()
		if err != nil {
			t.Fatalf("Balance() failed: %v", err)
		}
	})

	t.Run("unbalanced real postings", func(t *testing.T) {
		_, err := NewTransaction().
			WithDate(date).
			WithDescription("Broken").
			WithPosting(Posting{Account: "Expenses:Groceries", Amount: 4250}).
			WithPosting(Posting{Account: "Assets:Checking", Amount: -4000}).
			Balance()

		var unbalanced *UnbalancedError
		if !errors.As(err, &unbalanced) {
			t.Fatalf("Balance() error = %v, want UnbalancedError", err)
		}
		if unbalanced.Virtual || unbalanced.Delta != 250 {
			t.Errorf("UnbalancedError = %+v, want real delta 250", unbalanced)
		}
	})

	t.Run("unbalanced virtual postings", func(t *testing.T) {
		_, err := NewTransaction().
			WithDate(date).
			WithDescription("Broken budget").
			WithPostings([]Posting{
				{Account: "Expenses:Groceries", Amount: 4250},
				{Account: "Assets:Checking", Amount: -4250},
				{Account: "Budget:Food", Amount: -100, Virtual: true},
			}).
			Balance()

		var unbalanced *UnbalancedError
		if !errors.As(err, &unbalanced) {
			t.Fatalf("Balance() error = %v, want UnbalancedError", err)
		}
		if !unbalanced.Virtual || unbalanced.Delta != -100 {
			t.Errorf("UnbalancedError = %+v, want virtual delta -100", unbalanced)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		postings := []Posting{
			{Account: "A", Amount: 100},
			{Account: "B", Amount: -100},
		}

		if _, err := NewTransaction().WithDescription("No date").WithPostings(postings).Balance(); !errors.Is(err, ErrMissingDate) {
			t.Errorf("Balance() error = %v, want ErrMissingDate", err)
		}
		if _, err := NewTransaction().WithDate(date).WithPostings(postings).Balance(); !errors.Is(err, ErrMissingDescription) {
			t.Errorf("Balance() error = %v, want ErrMissingDescription", err)
		}
		if _, err := NewTransaction().WithDate(date).WithDescription("One leg").WithPosting(postings[0]).Balance(); !errors.Is(err, ErrNotEnoughPostings) {
			t.Errorf("Balance() error = %v, want ErrNotEnoughPostings", err)
		}
	})
}
