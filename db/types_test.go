package db

import "testing"

func TestMetadataScan(t *testing.T) {
	t.Run("nil becomes an empty map", func(t *testing.T) {
		var m Metadata
		if err := m.Scan(nil); err != nil {
			t.Fatalf("Scan(nil) failed: %v", err)
		}
		if m == nil || len(m) != 0 {
			t.Errorf("Scan(nil) = %v, want empty map", m)
		}
	})

	t.Run("valid json", func(t *testing.T) {
		var m Metadata
		if err := m.Scan([]byte(`{"template":"groceries"}`)); err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}
		if m["template"] != "groceries" {
			t.Errorf("metadata = %v, want template=groceries", m)
		}
	})

	t.Run("corrupt json is an error", func(t *testing.T) {
		var m Metadata
		if err := m.Scan([]byte(`{"template":`)); err == nil {
			t.Error("Scan() accepted truncated json bytes")
		}
		if err := m.Scan(`not json at all`); err == nil {
			t.Error("Scan() accepted a non-json string")
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		var m Metadata
		if err := m.Scan(42); err == nil {
			t.Error("Scan() accepted an int")
		}
	})
}
