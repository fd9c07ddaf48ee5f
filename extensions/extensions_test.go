package extensions

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
	"github.com/tfkr-ae/ptatemp/scope"
)

type mockEngineService struct {
	GetConfigDirFunc     func() (string, error)
	GetScopeFunc         func() (*scope.Scope, error)
	GetJournalFunc       func() (string, error)
	GetBalanceFunc       func(account string) (int64, error)
	CurrencyFunc         func() string
	WriteLogFunc         func(level string, message string, options ...func(log *domain.Log) error) error
	GetExtensionRepoFunc func() (domain.ExtensionRepository, error)
	GetTemplateRepoFunc  func() (domain.TemplateRepository, error)
	GetRecordRepoFunc    func() (domain.RecordRepository, error)

	scopeInstance *scope.Scope
}

func (m *mockEngineService) GetConfigDir() (string, error) {
	if m.GetConfigDirFunc != nil {
		return m.GetConfigDirFunc()
	}
	return "/tmp/ptatemp-test", nil
}

func (m *mockEngineService) GetScope() (*scope.Scope, error) {
	if m.GetScopeFunc != nil {
		return m.GetScopeFunc()
	}
	if m.scopeInstance == nil {
		m.scopeInstance = scope.NewScope(true)
	}
	return m.scopeInstance, nil
}

func (m *mockEngineService) GetJournal() (string, error) {
	if m.GetJournalFunc != nil {
		return m.GetJournalFunc()
	}
	return "/tmp/ptatemp-test/test.journal", nil
}

func (m *mockEngineService) GetBalance(account string) (int64, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(account)
	}
	return 0, nil
}

func (m *mockEngineService) Currency() string {
	if m.CurrencyFunc != nil {
		return m.CurrencyFunc()
	}
	return "$"
}

func (m *mockEngineService) WriteLog(level string, message string, options ...func(log *domain.Log) error) error {
	if m.WriteLogFunc != nil {
		return m.WriteLogFunc(level, message, options...)
	}
	return nil
}

func (m *mockEngineService) GetExtensionRepo() (domain.ExtensionRepository, error) {
	if m.GetExtensionRepoFunc != nil {
		return m.GetExtensionRepoFunc()
	}
	return nil, nil
}

func (m *mockEngineService) GetTemplateRepo() (domain.TemplateRepository, error) {
	if m.GetTemplateRepoFunc != nil {
		return m.GetTemplateRepoFunc()
	}
	return nil, nil
}

func (m *mockEngineService) GetRecordRepo() (domain.RecordRepository, error) {
	if m.GetRecordRepoFunc != nil {
		return m.GetRecordRepoFunc()
	}
	return nil, nil
}

type mockExtensionRepo struct {
	settingsStore map[uuid.UUID]map[string]any
	forceSetError bool
}

func (m *mockExtensionRepo) GetExtensions() ([]*domain.Extension, error) { return nil, nil }
func (m *mockExtensionRepo) GetExtensionByName(name string) (*domain.Extension, error) {
	return nil, nil
}
func (m *mockExtensionRepo) CreateExtension(extension *domain.Extension) error          { return nil }
func (m *mockExtensionRepo) SetExtensionEnabled(name string, enabled bool) error        { return nil }
func (m *mockExtensionRepo) DeleteExtension(name string) error                          { return nil }
func (m *mockExtensionRepo) GetExtensionLuaCodeByName(name string) (string, error)      { return "", nil }
func (m *mockExtensionRepo) UpdateExtensionLuaCodeByName(name string, code string) error {
	return nil
}

func (m *mockExtensionRepo) GetExtensionSettingsByUUID(id uuid.UUID) (map[string]any, error) {
	if settings, ok := m.settingsStore[id]; ok {
		return settings, nil
	}
	return make(map[string]any), nil
}

func (m *mockExtensionRepo) SetExtensionSettingsByUUID(id uuid.UUID, settings map[string]any) error {
	if m.forceSetError {
		return errors.New("forced set error")
	}
	if m.settingsStore == nil {
		m.settingsStore = make(map[uuid.UUID]map[string]any)
	}
	m.settingsStore[id] = settings
	return nil
}

type mockTemplateRepo struct {
	templates []*domain.Template
}

func (m *mockTemplateRepo) GetTemplates() ([]*domain.Template, error) { return m.templates, nil }
func (m *mockTemplateRepo) GetTemplateByName(name string) (*domain.Template, error) {
	for _, template := range m.templates {
		if template.Name == name {
			return template, nil
		}
	}
	return nil, errors.New("template not found")
}
func (m *mockTemplateRepo) CreateTemplate(template *domain.Template) error {
	m.templates = append(m.templates, template)
	return nil
}
func (m *mockTemplateRepo) UpdateTemplateContent(name string, content string) error { return nil }
func (m *mockTemplateRepo) DeleteTemplate(name string) error                        { return nil }
func (m *mockTemplateRepo) CountTemplates() (int64, error) {
	return int64(len(m.templates)), nil
}

type mockRecordRepo struct {
	records []*domain.Record
}

func (m *mockRecordRepo) InsertRecord(record *domain.Record) error {
	m.records = append(m.records, record)
	return nil
}
func (m *mockRecordRepo) GetRecords(limit int) ([]*domain.Record, error) {
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}
func (m *mockRecordRepo) GetRecord(id uuid.UUID) (*domain.Record, error) {
	for _, record := range m.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, errors.New("record not found")
}
func (m *mockRecordRepo) MarkRecordPosted(id uuid.UUID, journal string) error { return nil }
func (m *mockRecordRepo) CountRecords() (int64, error) {
	return int64(len(m.records)), nil
}

func setupTestExtension(t *testing.T, luaCode string, options ...func(*Runtime) error) (*Runtime, *mockEngineService) {
	t.Helper()

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("generating uuid : %v", err)
	}
	ext := &domain.Extension{
		ID:         id,
		Name:       "test-extension",
		LuaContent: luaCode,
	}
	runtime := &Runtime{Data: ext}

	mockService := &mockEngineService{}

	err = runtime.PrepareState(mockService, options)
	if err != nil {
		t.Fatalf("preparing state: %v", err)
	}

	return runtime, mockService
}
