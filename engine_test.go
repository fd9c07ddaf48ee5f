package ptatemp

import (
	"testing"
	"time"

	"github.com/tfkr-ae/ptatemp/core"
	"github.com/tfkr-ae/ptatemp/domain"
)

func TestWriteLog(t *testing.T) {
	t.Run("rejects unknown levels", func(t *testing.T) {
		engine := newTestEngine(t)
		if err := engine.WriteLog("LOUD", "nope"); err == nil {
			t.Fatal("wanted error for unknown level")
		}
	})

	t.Run("queues a stamped entry", func(t *testing.T) {
		engine := newTestEngine(t)
		before := time.Now()

		err := engine.WriteLog("INFO", "rendered groceries", core.LogWithContext(map[string]any{"template": "groceries"}))
		if err != nil {
			t.Fatalf("writing log : %v", err)
		}

		entry := (<-engine.WriteChannel).(*domain.Log)
		if entry.Level != "INFO" || entry.Message != "rendered groceries" {
			t.Errorf("wanted INFO entry, got %s %q", entry.Level, entry.Message)
		}
		if entry.ID.String() == "" || entry.Timestamp.Before(before) {
			t.Errorf("wanted stamped id and timestamp, got %+v", entry)
		}
		if entry.Context["template"] != "groceries" {
			t.Errorf("wanted context applied, got %v", entry.Context)
		}
	})

	t.Run("delivers to the log handler through the store writer", func(t *testing.T) {
		var delivered []*domain.Log
		engine := newTestEngine(t, WithLogHandler(func(log *domain.Log) error {
			delivered = append(delivered, log)
			return nil
		}))

		done := make(chan struct{})
		go func() {
			engine.WriteToStore()
			close(done)
		}()

		if err := engine.WriteLog("WARN", "skipping malformed variable"); err != nil {
			t.Fatalf("writing log : %v", err)
		}
		close(engine.WriteChannel)
		<-done

		if len(delivered) != 1 || delivered[0].Level != "WARN" {
			t.Fatalf("wanted one WARN entry delivered, got %v", delivered)
		}
	})

	t.Run("second log handler is rejected", func(t *testing.T) {
		handler := func(log *domain.Log) error { return nil }
		_, err := New(WithLogHandler(handler), WithLogHandler(handler))
		if err == nil {
			t.Fatal("wanted error for duplicate log handler")
		}
	})
}

func TestGetExtension(t *testing.T) {
	extension := &domain.Extension{Name: "budget-check", LuaContent: `ptatemp:log("loaded")`, Enabled: true}
	engine := newTestEngine(t, WithExtension(extension))

	if _, ok := engine.GetExtension("budget-check"); !ok {
		t.Error("wanted budget-check to be found")
	}
	if _, ok := engine.GetExtension("missing"); ok {
		t.Error("wanted missing extension to not be found")
	}
}

func TestCurrency(t *testing.T) {
	t.Run("defaults to dollar", func(t *testing.T) {
		engine := newTestEngine(t)
		if got := engine.Currency(); got != "$" {
			t.Errorf("wanted $, got %s", got)
		}
	})

	t.Run("config symbol is used for rendering", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.Config = &Config{Currency: "€"}
		if got := engine.Currency(); got != "€" {
			t.Fatalf("wanted €, got %s", got)
		}

		result, err := engine.Render(RenderParams{
			Content:     "Expenses:Groceries  42.50\nAssets:Checking  -42.50",
			Description: "Grocery run",
			Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("rendering : %v", err)
		}

		want := "2026-08-01 Grocery run\n    Assets:Checking  \t€-42.50\n    Expenses:Groceries  \t€42.50"
		if got := result.Transaction.Render(engine.Currency()); got != want {
			t.Errorf("wanted:\n%s\ngot:\n%s", want, got)
		}
	})
}

func TestGetBalance(t *testing.T) {
	runner := &fakeRunner{balances: map[string]int64{"Assets:Checking": 5000}}
	engine := newTestEngine(t, WithLedgerRunner(runner), WithJournal("/tmp/test.journal"))

	cents, err := engine.GetBalance("Assets:Checking")
	if err != nil {
		t.Fatalf("getting balance : %v", err)
	}
	if cents != 5000 {
		t.Errorf("wanted 5000, got %d", cents)
	}
}
