package extensions

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

func TestRepoLibrary(t *testing.T) {
	templateID := uuid.MustParse("019907e1-0000-7000-8000-000000000001")
	recordID := uuid.MustParse("019907e1-0000-7000-8000-000000000002")

	templateRepo := &mockTemplateRepo{
		templates: []*domain.Template{
			{
				ID:          templateID,
				Name:        "groceries",
				Description: "Weekly grocery run",
				Content:     "Expenses:Groceries  {{ amount }}\nAssets:Checking  -{{ amount }}",
				Metadata:    map[string]any{"tags": "food"},
				UpdatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	recordRepo := &mockRecordRepo{
		records: []*domain.Record{
			{
				ID:           recordID,
				TemplateName: "groceries",
				Description:  "Grocery run",
				EntryDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				Rendered:     "2026-08-01 Grocery run\n    Expenses:Groceries  \t$42.50\n    Assets:Checking  \t$-42.50",
				Posted:       true,
				Journal:      "/home/user/finance.journal",
				CreatedAt:    time.Date(2026, 8, 1, 12, 5, 0, 0, time.UTC),
			},
		},
	}

	setup := func(t *testing.T) *Runtime {
		t.Helper()
		ext, mockService := setupTestExtension(t, "")
		mockService.GetTemplateRepoFunc = func() (domain.TemplateRepository, error) {
			return templateRepo, nil
		}
		mockService.GetRecordRepoFunc = func() (domain.RecordRepository, error) {
			return recordRepo, nil
		}
		return ext
	}

	t.Run("repo:get_templates should list stored templates", func(t *testing.T) {
		ext := setup(t)

		luaCode := `
			local templates = ptatemp.repo:get_templates()
			return #templates, templates[1].name, templates[1].description
		`
		err := ext.ExecuteLua(luaCode)
		if err != nil {
			t.Fatalf("executing lua: %v", err)
		}

		description := goValue(ext.LuaState, -1)
		name := goValue(ext.LuaState, -2)
		count := goValue(ext.LuaState, -3)

		if count != 1.0 {
			t.Errorf("\nwanted:\n1\ngot:\n%v", count)
		}
		if name != "groceries" {
			t.Errorf("\nwanted:\ngroceries\ngot:\n%v", name)
		}
		if description != "Weekly grocery run" {
			t.Errorf("\nwanted:\nWeekly grocery run\ngot:\n%v", description)
		}
	})

	t.Run("repo:get_template should return content and metadata", func(t *testing.T) {
		ext := setup(t)

		luaCode := `
			local template = ptatemp.repo:get_template("groceries")
			return template.content, template.metadata.tags
		`
		err := ext.ExecuteLua(luaCode)
		if err != nil {
			t.Fatalf("executing lua: %v", err)
		}

		tags := goValue(ext.LuaState, -1)
		content := goValue(ext.LuaState, -2)

		if tags != "food" {
			t.Errorf("\nwanted:\nfood\ngot:\n%v", tags)
		}
		contentStr, ok := content.(string)
		if !ok || !strings.Contains(contentStr, "Expenses:Groceries") {
			t.Errorf("\nwanted:\ncontent containing Expenses:Groceries\ngot:\n%v", content)
		}
	})

	t.Run("repo:get_template should error for unknown name", func(t *testing.T) {
		ext := setup(t)

		luaCode := `
			local ok, res = pcall(ptatemp.repo.get_template, ptatemp.repo, "missing")
			if ok then
				return "expected error"
			end
			return res
		`
		err := ext.ExecuteLua(luaCode)
		if err != nil {
			t.Fatalf("executing lua: %v", err)
		}

		result := goValue(ext.LuaState, -1)
		errStr, ok := result.(string)
		if !ok {
			t.Fatalf("wanted:\nstring error\ngot:\n%T", result)
		}
		if !strings.Contains(errStr, "template not found") {
			t.Errorf("wanted:\nerror containing 'template not found'\ngot:\n%v", errStr)
		}
	})

	t.Run("repo:get_history should list render records", func(t *testing.T) {
		ext := setup(t)

		luaCode := `
			local records = ptatemp.repo:get_history(10)
			return #records, records[1].template_name, records[1].entry_date, records[1].posted
		`
		err := ext.ExecuteLua(luaCode)
		if err != nil {
			t.Fatalf("executing lua: %v", err)
		}

		posted := goValue(ext.LuaState, -1)
		entryDate := goValue(ext.LuaState, -2)
		templateName := goValue(ext.LuaState, -3)
		count := goValue(ext.LuaState, -4)

		if count != 1.0 {
			t.Errorf("\nwanted:\n1\ngot:\n%v", count)
		}
		if templateName != "groceries" {
			t.Errorf("\nwanted:\ngroceries\ngot:\n%v", templateName)
		}
		if entryDate != "2026-08-01" {
			t.Errorf("\nwanted:\n2026-08-01\ngot:\n%v", entryDate)
		}
		if posted != true {
			t.Errorf("\nwanted:\ntrue\ngot:\n%v", posted)
		}
	})

	t.Run("repo:get_record should return a single record by ID", func(t *testing.T) {
		ext := setup(t)

		luaCode := `
			local record = ptatemp.repo:get_record("` + recordID.String() + `")
			return record.journal, record.rendered
		`
		err := ext.ExecuteLua(luaCode)
		if err != nil {
			t.Fatalf("executing lua: %v", err)
		}

		rendered := goValue(ext.LuaState, -1)
		journal := goValue(ext.LuaState, -2)

		if journal != "/home/user/finance.journal" {
			t.Errorf("\nwanted:\n/home/user/finance.journal\ngot:\n%v", journal)
		}
		renderedStr, ok := rendered.(string)
		if !ok || !strings.Contains(renderedStr, "2026-08-01 Grocery run") {
			t.Errorf("\nwanted:\nrendered entry\ngot:\n%v", rendered)
		}
	})

	t.Run("repo:get_record should error for a malformed ID", func(t *testing.T) {
		ext := setup(t)

		luaCode := `
			local ok, res = pcall(ptatemp.repo.get_record, ptatemp.repo, "not-a-uuid")
			if ok then
				return "expected error"
			end
			return res
		`
		err := ext.ExecuteLua(luaCode)
		if err != nil {
			t.Fatalf("executing lua: %v", err)
		}

		result := goValue(ext.LuaState, -1)
		errStr, ok := result.(string)
		if !ok {
			t.Fatalf("wanted:\nstring error\ngot:\n%T", result)
		}
		if !strings.Contains(errStr, "invalid UUID") {
			t.Errorf("wanted:\nerror containing 'invalid UUID'\ngot:\n%v", errStr)
		}
	})
}
