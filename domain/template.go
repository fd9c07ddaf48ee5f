package domain

import (
	"time"

	"github.com/google/uuid"
)

// TemplateRepository defines the interface for managing stored templates.
// It provides methods for creating, retrieving, updating, and removing
// template sources from the template library.
type TemplateRepository interface {
	// GetTemplates retrieves all templates in the library.
	GetTemplates() ([]*Template, error)

	// GetTemplateByName retrieves a single template by its unique name.
	// It returns an error if no template with the specified name is found.
	GetTemplateByName(name string) (*Template, error)

	// CreateTemplate saves a new template to the library.
	CreateTemplate(template *Template) error

	// UpdateTemplateContent updates the source text of an existing template
	// identified by its name.
	UpdateTemplateContent(name string, content string) error

	// DeleteTemplate removes the template with the given name.
	DeleteTemplate(name string) error

	// CountTemplates returns the number of templates in the library.
	CountTemplates() (int64, error)
}

// Template represents a stored template source. The content is the raw
// template text: posting lines with optional variable expressions, control
// constructs, and `<<account>>` balance markers.
type Template struct {
	ID          uuid.UUID      // Unique identifier for the template.
	Name        string         // The unique name of the template.
	Description string         // A brief description of what the template renders.
	Content     string         // The raw template source.
	Metadata    map[string]any // A map of additional key-value data.
	UpdatedAt   time.Time      // The timestamp of the last update to the template.
}
