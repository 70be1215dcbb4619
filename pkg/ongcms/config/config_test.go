package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		StorageType:  "memory",
		JWTSecret:    "secret",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *ServerConfig) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *ServerConfig) { c.Port = "" },
			wantErr: "port",
		},
		{
			name:    "unknown database type",
			mutate:  func(c *ServerConfig) { c.DatabaseType = "dynamo" },
			wantErr: "database_type",
		},
		{
			name:    "mongo without uri",
			mutate:  func(c *ServerConfig) { c.DatabaseType = "mongo" },
			wantErr: "mongo_uri",
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *ServerConfig) { c.StorageType = "ftp" },
			wantErr: "storage_type",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *ServerConfig) { c.StorageType = "s3" },
			wantErr: "s3_bucket",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *ServerConfig) { c.JWTSecret = "" },
			wantErr: "jwt_secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

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

func TestBuildServiceInMemory(t *testing.T) {
	cfg := validConfig()

	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	require.NotNil(t, svc)
	require.NotNil(t, cleanup)

	assert.NoError(t, cleanup(context.Background()))
}
