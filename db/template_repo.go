package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

var _ domain.TemplateRepository = (*Repository)(nil)

var (
	// ErrNoTemplate is returned when an update or delete targets a template
	// that does not exist.
	ErrNoTemplate = errors.New("template not found")
)

// dbTemplate represents a template as stored in the database.
type dbTemplate struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Content     string    `db:"content"`
	Metadata    Metadata  `db:"metadata"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// toDomainTemplate converts a dbTemplate to a domain.Template.
func toDomainTemplate(dbTemplate *dbTemplate) *domain.Template {
	return &domain.Template{
		ID:          dbTemplate.ID,
		Name:        dbTemplate.Name,
		Description: dbTemplate.Description,
		Content:     dbTemplate.Content,
		Metadata:    map[string]any(dbTemplate.Metadata),
		UpdatedAt:   dbTemplate.UpdatedAt,
	}
}

// fromDomainTemplate converts a domain.Template to a dbTemplate.
func fromDomainTemplate(template *domain.Template) *dbTemplate {
	return &dbTemplate{
		ID:          template.ID,
		Name:        template.Name,
		Description: template.Description,
		Content:     template.Content,
		Metadata:    Metadata(template.Metadata),
		UpdatedAt:   template.UpdatedAt,
	}
}

// GetTemplates retrieves all templates ordered by name.
func (repo *Repository) GetTemplates() ([]*domain.Template, error) {
	var dbTemplates []*dbTemplate
	query := `SELECT * FROM templates ORDER BY name ASC`

	err := repo.dbConn.Select(&dbTemplates, query)
	if err != nil {
		return nil, fmt.Errorf("fetching all templates: %w", err)
	}

	domainTemplates := make([]*domain.Template, len(dbTemplates))
	for i, dbTemplate := range dbTemplates {
		domainTemplates[i] = toDomainTemplate(dbTemplate)
	}

	return domainTemplates, nil
}

// GetTemplateByName retrieves a single template by its name.
func (repo *Repository) GetTemplateByName(name string) (*domain.Template, error) {
	var dbTemplate dbTemplate
	query := `SELECT * FROM templates WHERE name = ?`

	err := repo.dbConn.Get(&dbTemplate, query, name)
	if err != nil {
		return nil, fmt.Errorf("fetching template %s: %w", name, err)
	}

	return toDomainTemplate(&dbTemplate), nil
}

// CreateTemplate saves a new template.
func (repo *Repository) CreateTemplate(template *domain.Template) error {
	dbTemplate := fromDomainTemplate(template)
	query := `INSERT INTO templates (id, name, description, content, metadata, updated_at)
	          VALUES (:id, :name, :description, :content, :metadata, :updated_at)`

	_, err := repo.dbConn.NamedExec(query, dbTemplate)
	if err != nil {
		return fmt.Errorf("inserting template %s: %w", template.Name, err)
	}

	return nil
}

// UpdateTemplateContent updates the source text of an existing template.
func (repo *Repository) UpdateTemplateContent(name string, content string) error {
	query := `UPDATE templates SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`

	result, err := repo.dbConn.Exec(query, content, name)
	if err != nil {
		return fmt.Errorf("updating template %s content: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update rows affected for %s: %w", name, err)
	}
	if rowsAffected == 0 {
		return ErrNoTemplate
	}

	return nil
}

// DeleteTemplate removes the template with the given name.
func (repo *Repository) DeleteTemplate(name string) error {
	query := `DELETE FROM templates WHERE name = ?`

	result, err := repo.dbConn.Exec(query, name)
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion rows affected for %s: %w", name, err)
	}
	if rowsAffected == 0 {
		return ErrNoTemplate
	}

	return nil
}

// CountTemplates returns the number of templates in the library.
func (repo *Repository) CountTemplates() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM templates`

	err := repo.dbConn.Get(&count, query)
	if err != nil {
		return 0, fmt.Errorf("counting templates: %w", err)
	}

	return count, nil
}
