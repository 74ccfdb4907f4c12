package vssmgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaults(t *testing.T) {
	mgr, err := NewManager(map[string]interface{}{})
	require.NoError(t, err)
	require.NotNil(t, mgr.Client)
	assert.Equal(t, "http://localhost:8080", mgr.Client.BaseURL())
	assert.NotNil(t, mgr.Logger)
}

func TestNewManagerEndpointOption(t *testing.T) {
	mgr, err := NewManager(map[string]interface{}{
		"endpoint": "http://vss.internal:9090",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://vss.internal:9090", mgr.Client.BaseURL())
}

func TestNewManagerCustomLogger(t *testing.T) {
	logger := logrus.New()
	mgr, err := NewManager(map[string]interface{}{
		"logger": logger,
	})
	require.NoError(t, err)
	assert.Equal(t, logger, mgr.Logger)
}

func TestNewManagerConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vss.yaml")
	cfgData := "endpoint: http://from-file:8080\nretry:\n  max-attempts: 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgData), 0644))

	mgr, err := NewManager(map[string]interface{}{
		"config-file": cfgPath,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:8080", mgr.Client.BaseURL())
	assert.Equal(t, 2, mgr.Cfg.GetInt("retry.max-attempts"))
}

func TestNewManagerMissingConfigFile(t *testing.T) {
	_, err := NewManager(map[string]interface{}{
		"config-file": filepath.Join(t.TempDir(), "nope.yaml"),
	})
	assert.Error(t, err)
}

func TestNewManagerRejectsBadOptionTypes(t *testing.T) {
	_, err := NewManager(map[string]interface{}{"config-file": 42})
	assert.Error(t, err)

	_, err = NewManager(map[string]interface{}{"logger": "not a logger"})
	assert.Error(t, err)

	_, err = NewManager(map[string]interface{}{"endpoint": 3.14})
	assert.Error(t, err)
}
