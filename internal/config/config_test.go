package config

import (
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("JOBTRACK_VAULT_DIR", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("JOBTRACK_LOG_JSON", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Port)
	}
	if cfg.LogJSON {
		t.Error("LogJSON should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestFromEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for invalid PORT")
	}
}

func TestValidate(t *testing.T) {
	vault := t.TempDir()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{DatabaseURL: "postgres://x", VaultDir: vault, Port: 8080}, false},
		{"missing database url", Config{VaultDir: vault, Port: 8080}, true},
		{"missing vault dir", Config{DatabaseURL: "postgres://x", Port: 8080}, true},
		{"vault dir does not exist", Config{DatabaseURL: "postgres://x", VaultDir: "/nonexistent-vault", Port: 8080}, true},
		{"port out of range", Config{DatabaseURL: "postgres://x", VaultDir: vault, Port: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
