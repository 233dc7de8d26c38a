package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
)

func TestExpandEnvStrict_ReplacesExistingEnv(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "supersecretkeysupersecretkey123456")

	out := config.ExpandEnvStrict(`signing_key: "${JWT_SIGNING_KEY}"`)
	require.Equal(t, `signing_key: "supersecretkeysupersecretkey123456"`, out)
}

func TestExpandEnvStrict_LeavesUnknownEnvAsIs(t *testing.T) {
	in := `signing_key: "${DEVLOG_MISSING_ENV}"`
	require.Equal(t, in, config.ExpandEnvStrict(in))
}

func TestApplyDefaults_SetsExpectedDefaults(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 5000, cfg.Server.Port)
	require.Equal(t, "postgres", cfg.DB.Driver)
	require.Equal(t, "HS256", cfg.Auth.JWT.Algorithm)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.AccessTTL)
	require.Equal(t, "argon2id", cfg.Password.Hasher)
	require.Equal(t, "local", cfg.Uploads.Driver)
	require.Equal(t, int64(5<<20), cfg.Uploads.MaxBytes)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestValidate_MinimalConfigIsValid(t *testing.T) {
	require.NoError(t, minimalValidConfig().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"server host", func(c *config.Config) { c.Server.Host = "" }},
		{"server port", func(c *config.Config) { c.Server.Port = 70000 }},
		{"tls without cert", func(c *config.Config) { c.TLS.Enabled = true }},
		{"tls 1.1", func(c *config.Config) {
			c.TLS = config.TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", MinVersion: "1.1"}
		}},
		{"unknown db driver", func(c *config.Config) { c.DB.Driver = "sqlite" }},
		{"postgres without dsn", func(c *config.Config) { c.DB.DSN = "" }},
		{"short signing key", func(c *config.Config) { c.Auth.JWT.SigningKey = "short-key" }},
		{"unexpanded signing key", func(c *config.Config) { c.Auth.JWT.SigningKey = "${JWT_SIGNING_KEY}" }},
		{"wrong algorithm", func(c *config.Config) { c.Auth.JWT.Algorithm = "RS256" }},
		{"unknown hasher", func(c *config.Config) { c.Password.Hasher = "md5" }},
		{"minio without bucket", func(c *config.Config) {
			c.Uploads.Driver = "minio"
			c.Uploads.Endpoint = "minio:9000"
		}},
		{"redis without addr", func(c *config.Config) { c.Redis.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalValidConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_MemoryDriverNeedsNoDSN(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.DB = config.DBConfig{Driver: "memory"}
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvOverrides_ServerPort(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.Server.Port = 8080

	t.Setenv("SERVER_PORT", "9090")
	cfg.ApplyEnvOverrides()

	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_ExpandsEnv_AppliesDefaults_AndValidates(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "supersecretkeysupersecretkey123456")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "")

	yml := `
env: dev
server:
  host: "127.0.0.1"
db:
  driver: mongo
  dsn: "mongodb://localhost:27017"
auth:
  issuer: "devlog"
  jwt:
    signing_key: "${JWT_SIGNING_KEY}"
password:
  hasher: "bcrypt"
  bcrypt:
    cost: 10
cors:
  allowed_origins: ["http://localhost:5173"]
`
	p := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(p, []byte(yml), 0o600))

	cfg, err := config.Load(p)
	require.NoError(t, err)

	require.Equal(t, 5000, cfg.Server.Port)
	require.Equal(t, "mongo", cfg.DB.Driver)
	require.Equal(t, "devlog", cfg.DB.Database)
	require.Equal(t, "HS256", cfg.Auth.JWT.Algorithm)
	require.Equal(t, "supersecretkeysupersecretkey123456", cfg.Auth.JWT.SigningKey)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "127.0.0.1:5000", cfg.Addr())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// --- helpers ---

func minimalValidConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		DB:     config.DBConfig{Driver: "postgres", DSN: "postgres://example"},
		Auth: config.AuthConfig{
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456",
			},
		},
		Password: config.PasswordConfig{
			Hasher: "bcrypt",
			Bcrypt: config.BcryptConfig{Cost: 10},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}
