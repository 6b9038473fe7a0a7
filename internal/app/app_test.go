package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/service"
	"github.com/haierkeys/entry-board-service/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *AppConfig {
	t.Helper()
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.Database.Path = filepath.Join(dir, "db.sqlite3")
	cfg.Storage.SavePath = filepath.Join(dir, "uploads")
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := `
log:
  level: debug
database:
  path: storage/test.sqlite3
service:
  shared-collection: team_docs
storage:
  type: localfs
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0644))

	cfg, realpath, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, realpath)

	// 显式值生效
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "storage/test.sqlite3", cfg.Database.Path)
	assert.Equal(t, "team_docs", cfg.Service.SharedCollection)
	assert.Equal(t, storage.LOCAL, cfg.Storage.Type)

	// 未给出的字段回落到默认值
	assert.Equal(t, "eb_", cfg.Database.TablePrefix)
	assert.Equal(t, "nicknames", cfg.Service.NicknameCollection)
	assert.Equal(t, []string{"note", "todo", "checklist"}, cfg.Service.ShareableKinds)
	assert.True(t, cfg.Log.Production)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfigSaveRoundtrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.File = filepath.Join(t.TempDir(), "config.yaml")
	cfg.Service.SharedCollection = "team_docs"
	require.NoError(t, cfg.Save())

	loaded, _, err := LoadConfig(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, "team_docs", loaded.Service.SharedCollection)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

func TestNewAppWiresServices(t *testing.T) {
	a, err := NewApp(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store)
	require.NotNil(t, a.Blob)
	require.NotNil(t, a.NicknameService)
	require.NotNil(t, a.ShareService)
	require.NotNil(t, a.ChecklistService)
	require.NotNil(t, a.ExportService)
}

func TestNewAppRequiresConfigAndLogger(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop())
	assert.Error(t, err)

	cfg := testConfig(t)
	_, err = NewApp(cfg, nil)
	assert.Error(t, err)
}

func TestAppModalWorkflowEndToEnd(t *testing.T) {
	a, err := NewApp(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	session := a.NewSession(7)
	defer session.Close()

	modal := a.NewModal(session, service.NewNopNotifier(), service.ConfirmFunc(func(string) bool { return true }))
	modal.OpenForEdit(nil, domain.KindNote)
	m := modal.Model()
	m.Entry.Title = "First note"

	require.NoError(t, modal.Save(context.Background()))
	assert.Equal(t, service.StateClosed, modal.State())

	doc, err := a.Store.Get(context.Background(), a.Config().Service.PrivateCollection(7, domain.KindNote), m.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "First note", doc.Fields["title"])
}
