package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, StorageBackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, 1, cfg.Sale.ContentionRetries)
	assert.True(t, cfg.Listing.CacheEnabled)
	assert.Equal(t, 30*time.Second, cfg.Listing.CacheTTL)
	assert.Equal(t, 6, cfg.Asynq.Queues["critical"])
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddress())
	assert.False(t, cfg.UsesMemoryStore())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("SALE_CONTENTION_RETRIES", "3")
	t.Setenv("LISTING_CACHE_TTL", "2m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OCR_RATE_PER_SECOND", "2.5")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, 3, cfg.Sale.ContentionRetries)
	assert.Equal(t, 2*time.Minute, cfg.Listing.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.InDelta(t, 2.5, cfg.OCR.RatePerSecond, 1e-9)
}

func TestLoad_MalformedValueFallsBackToDefault(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SALE_CONTENTION_RETRIES", "lots")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Sale.ContentionRetries)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORAGE_BACKEND", "mongo")

	_, err := Load(discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Name: "shelfscan-api", Environment: "production"},
		Server:   ServerConfig{Port: "8080"},
		Storage:  StorageConfig{Backend: StorageBackendPostgres},
		Database: DatabaseConfig{Host: "db", Name: "shelfscan", SSLMode: "require", MaxConnections: 10, MinConnections: 2},
		Redis:    RedisConfig{PoolSize: 10},
		AWS:      AWSConfig{SecretsBackend: "aws", S3Bucket: "scans"},
		Security: SecurityConfig{
			RateLimitRequests: 100,
			AllowedOrigins:    []string{"https://shop.example"},
			SecureHeaders:     true,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid production config"},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "Server.Port",
		},
		{
			name:    "memory store in production",
			mutate:  func(c *Config) { c.Storage.Backend = StorageBackendMemory },
			wantErr: "memory storage backend",
		},
		{
			name:    "ssl disabled in production",
			mutate:  func(c *Config) { c.Database.SSLMode = "disable" },
			wantErr: "SSL",
		},
		{
			name:    "wildcard origin in production",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = []string{"*"} },
			wantErr: "wildcard",
		},
		{
			name:    "negative contention retries",
			mutate:  func(c *Config) { c.Sale.ContentionRetries = -1 },
			wantErr: "contention_retries",
		},
		{
			name: "archival without bucket",
			mutate: func(c *Config) {
				c.Sale.ArchiveScans = true
				c.AWS.S3Bucket = ""
			},
			wantErr: "S3 bucket",
		},
		{
			name: "memory store outside production",
			mutate: func(c *Config) {
				c.App.Environment = "development"
				c.Storage.Backend = StorageBackendMemory
				c.Database.Host = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type fakeSecretsClient struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretsClient) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: aws.String(f.secret)}, nil
}

func TestAWSSecretsManager_CachesWithinTTL(t *testing.T) {
	client := &fakeSecretsClient{secret: `{"DB_PASSWORD":"s3cret","OCR_API_KEY":"k"}`}
	sm := newAWSSecretsManager(client, "shelfscan/test", discardLogger())
	ctx := context.Background()

	val, err := sm.GetSecret(ctx, SecretDatabasePassword)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", val)

	_, err = sm.GetSecret(ctx, SecretOCRAPIKey)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)

	require.NoError(t, sm.RefreshSecrets(ctx))
	assert.Equal(t, 2, client.calls)
}

func TestAWSSecretsManager_Errors(t *testing.T) {
	ctx := context.Background()

	sm := newAWSSecretsManager(&fakeSecretsClient{err: errors.New("denied")}, "x", discardLogger())
	_, err := sm.GetSecrets(ctx, []string{SecretDatabasePassword})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")

	sm = newAWSSecretsManager(&fakeSecretsClient{secret: "not json"}, "x", discardLogger())
	_, err = sm.GetSecrets(ctx, []string{SecretDatabasePassword})
	require.Error(t, err)

	sm = newAWSSecretsManager(&fakeSecretsClient{secret: `{"OTHER":"v"}`}, "x", discardLogger())
	_, err = sm.GetSecret(ctx, SecretDatabasePassword)
	require.Error(t, err)
}

func TestApplySecrets(t *testing.T) {
	t.Setenv(SecretDatabasePassword, "from-env")
	t.Setenv(SecretRedisPassword, "redis-pw")

	cfg := validConfig()
	cfg.OCR.APIKey = "configured"

	require.NoError(t, cfg.ApplySecrets(context.Background(), NewEnvSecretsManager()))
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis-pw", cfg.Redis.Password)
	assert.Equal(t, "redis-pw", cfg.Asynq.RedisPassword)
	assert.Equal(t, "configured", cfg.OCR.APIKey)
}
