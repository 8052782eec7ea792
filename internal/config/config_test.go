package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

func TestLoadConfig_DefaultsAndLegacyEnv(t *testing.T) {
	dir := writeConfig(t, `
storage:
  type: oss
  oss_region: cn-beijing
essay:
  max_rounds: 3
`)
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("ACCESS_KEY_ID", "ak")
	t.Setenv("ACCESS_KEY_SECRET", "sk")
	t.Setenv("BUCKET_NAME", "civilpass")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "qwen-vl-plus", cfg.AI.Model)
	assert.Equal(t, "civilpass", cfg.Storage.OSSBucket)
	assert.Equal(t, "cn-beijing", cfg.Storage.OSSRegion)
	assert.Equal(t, 90, cfg.Essay.TargetScore)
	assert.Equal(t, 3, cfg.Essay.MaxRounds)
	assert.Equal(t, time.Hour, cfg.App.CacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.Admin.ExpireTime)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
}

func TestLoadConfig_MissingOSSCredentials(t *testing.T) {
	dir := writeConfig(t, "storage:\n  type: oss\n")
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("ADMIN_PASSWORD", "pw")

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "OSS配置不完整")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Type = "local"
	assert.ErrorContains(t, cfg.Validate(), "API密钥未配置")

	cfg.AI.APIKey = "sk"
	assert.ErrorContains(t, cfg.Validate(), "管理员密码未配置")

	cfg.Admin.PasswordHash = "$2a$10$hash"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Essay.MaxRounds)

	cfg.Server.Mode = "release"
	cfg.Admin.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.Storage.Type = "ftp"
	assert.ErrorContains(t, cfg.Validate(), "unsupported storage type")
}

func TestLoadConfig_RecordsFileFromCustomDir(t *testing.T) {
	dir := writeConfig(t, "storage:\n  type: local\n")
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("ADMIN_PASSWORD", "pw")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)

	t.Setenv("STORAGE_TYPE", "local")
	cfg, err = LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.ConfigFile)
}

func TestAIConfig_NERModelOrDefault(t *testing.T) {
	assert.Equal(t, "qwen-plus", AIConfig{Model: "qwen-vl-plus", NERModel: "qwen-plus"}.NERModelOrDefault())
	assert.Equal(t, "qwen-vl-plus", AIConfig{Model: "qwen-vl-plus"}.NERModelOrDefault())
}
