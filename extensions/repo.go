package extensions

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
	"github.com/google/uuid"
)

// registerRepoLibrary registers the `ptatemp.repo` library into the Lua state.
// This library provides read access to stored templates and the render
// history.
func registerRepoLibrary(l *lua.State, service EngineService) {
	l.Global("ptatemp")
	if l.IsNil(-1) {
		l.Pop(1)
		return
	}

	lua.NewLibrary(l, repoLibrary(service))
	l.SetField(-2, "repo")
	l.Pop(1)
}

// repoLibrary returns the list of Lua functions for the template and history
// repositories.
func repoLibrary(service EngineService) []lua.RegistryFunction {
	return []lua.RegistryFunction{
		// get_templates retrieves a summary of all stored templates.
		//
		// @return []table A list of tables with template name, description, and update time.
		{Name: "get_templates", Function: func(l *lua.State) int {
			repo, err := service.GetTemplateRepo()
			if err != nil {
				lua.Errorf(l, "getting template repo: %s", err.Error())
				return 0
			}

			templates, err := repo.GetTemplates()
			if err != nil {
				lua.Errorf(l, "getting templates: %s", err.Error())
				return 0
			}

			result := make([]map[string]any, len(templates))
			for i, template := range templates {
				result[i] = map[string]any{
					"id":          template.ID.String(),
					"name":        template.Name,
					"description": template.Description,
					"metadata":    template.Metadata,
					"updated_at":  template.UpdatedAt.UnixMilli(),
				}
			}

			util.DeepPush(l, result)
			return 1
		}},
		// get_template retrieves a single template including its content.
		//
		// @param name string The template name.
		// @return table A table with the template's fields.
		{Name: "get_template", Function: func(l *lua.State) int {
			repo, err := service.GetTemplateRepo()
			if err != nil {
				lua.Errorf(l, "getting template repo: %s", err.Error())
				return 0
			}

			name := lua.CheckString(l, 2)
			template, err := repo.GetTemplateByName(name)
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("getting template %s: %s", name, err.Error()))
				return 0
			}

			result := map[string]any{
				"id":          template.ID.String(),
				"name":        template.Name,
				"description": template.Description,
				"content":     template.Content,
				"metadata":    template.Metadata,
				"updated_at":  template.UpdatedAt.UnixMilli(),
			}
			util.DeepPush(l, result)
			return 1
		}},
		// get_history retrieves the most recent render records.
		//
		// @param limit number (optional) The maximum number of records. 0 returns all.
		// @return []table A list of tables with record fields.
		{Name: "get_history", Function: func(l *lua.State) int {
			repo, err := service.GetRecordRepo()
			if err != nil {
				lua.Errorf(l, "getting record repo: %s", err.Error())
				return 0
			}

			limit := lua.OptInteger(l, 2, 0)
			records, err := repo.GetRecords(limit)
			if err != nil {
				lua.Errorf(l, "getting records: %s", err.Error())
				return 0
			}

			result := make([]map[string]any, len(records))
			for i, record := range records {
				result[i] = map[string]any{
					"id":            record.ID.String(),
					"template_name": record.TemplateName,
					"description":   record.Description,
					"entry_date":    record.EntryDate.Format("2006-01-02"),
					"rendered":      record.Rendered,
					"posted":        record.Posted,
					"journal":       record.Journal,
					"metadata":      record.Metadata,
					"created_at":    record.CreatedAt.UnixMilli(),
				}
			}

			util.DeepPush(l, result)
			return 1
		}},
		// get_record retrieves a single render record by its ID.
		//
		// @param id string The UUID of the record.
		// @return table A table with the record's fields.
		{Name: "get_record", Function: func(l *lua.State) int {
			repo, err := service.GetRecordRepo()
			if err != nil {
				lua.Errorf(l, "getting record repo: %s", err.Error())
				return 0
			}

			idString := lua.CheckString(l, 2)
			id, err := uuid.Parse(idString)
			if err != nil {
				lua.ArgumentError(l, 2, "invalid UUID")
				return 0
			}

			record, err := repo.GetRecord(id)
			if err != nil {
				lua.Errorf(l, fmt.Sprintf("getting record %s: %s", idString, err.Error()))
				return 0
			}

			result := map[string]any{
				"id":            record.ID.String(),
				"template_name": record.TemplateName,
				"description":   record.Description,
				"entry_date":    record.EntryDate.Format("2006-01-02"),
				"rendered":      record.Rendered,
				"posted":        record.Posted,
				"journal":       record.Journal,
				"metadata":      record.Metadata,
				"created_at":    record.CreatedAt.UnixMilli(),
			}
			util.DeepPush(l, result)
			return 1
		}},
	}
}
