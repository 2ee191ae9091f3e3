package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
env: local
http_server:
  address: ":9090"
remote:
  provider: cloudinary
  cloud_name: demo
  api_key: key
  api_secret: secret
upload:
  timeout: 15s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTPServer.Address)
	assert.Equal(t, 15*time.Second, cfg.Upload.Timeout)
	assert.Equal(t, int64(104857600), cfg.Upload.MaxFileSize)
	assert.False(t, cfg.Upload.CleanupOrphans)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Remote.CredentialsConfigured())
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
remote:
  provider: s3
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRemote_CredentialsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		remote Remote
		want   bool
	}{
		{"cloudinary complete", Remote{Provider: ProviderCloudinary, CloudName: "c", APIKey: "k", APISecret: "s"}, true},
		{"cloudinary missing secret", Remote{Provider: ProviderCloudinary, CloudName: "c", APIKey: "k"}, false},
		{"minio complete", Remote{Provider: ProviderMinIO, MinIO: MinIO{Endpoint: "localhost:9000", AccessKeyID: "a", SecretAccessKey: "s"}}, true},
		{"minio missing endpoint", Remote{Provider: ProviderMinIO, MinIO: MinIO{AccessKeyID: "a", SecretAccessKey: "s"}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.remote.CredentialsConfigured())
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{PGSQL: PQSQL{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "media", SSLMode: "disable"}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=media sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@db/media"
	assert.Equal(t, "postgres://u:p@db/media", cfg.DSN())
}

func TestLoad_PublicCloudNameEnv(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	require.NoError(t, os.Unsetenv("CLOUDINARY_CLOUD_NAME"))
	t.Setenv("NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Remote.CloudName)
	assert.True(t, cfg.Remote.CredentialsConfigured())
	assert.Equal(t, 10*time.Second, cfg.Upload.PersistTimeout)
}
