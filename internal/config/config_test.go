package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "CONEXUS_TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "CONEXUS_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{"valid duration", "5s", time.Second, 5 * time.Second},
		{"invalid duration uses default", "invalid", 10 * time.Second, 10 * time.Second},
		{"missing variable uses default", "", 15 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONEXUS_TEST_DURATION", tt.value)

			if got := mustDuration("CONEXUS_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"true value", "true", false, true},
		{"false value", "false", true, false},
		{"invalid value uses default", "invalid", true, true},
		{"missing variable uses default", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONEXUS_TEST_BOOL", tt.value)

			if got := mustBool("CONEXUS_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetenvInt64(t *testing.T) {
	t.Setenv("CONEXUS_TEST_INT64", "2097152")
	if got := getenvInt64("CONEXUS_TEST_INT64", 1); got != 2097152 {
		t.Errorf("getenvInt64() = %v, want 2097152", got)
	}
	t.Setenv("CONEXUS_TEST_INT64", "lots")
	if got := getenvInt64("CONEXUS_TEST_INT64", 1); got != 1 {
		t.Errorf("getenvInt64() with invalid value = %v, want default", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` compress, "trace" ,,'recover'`)
	want := []string{"compress", "trace", "recover"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONEXUS_STORE", "memory")
	t.Setenv("CONEXUS_LOG_LEVEL", "info")

	cfg := Load()

	if cfg.ListenAddr != "0.0.0.0:3000" {
		t.Errorf("ListenAddr = %q, want 0.0.0.0:3000", cfg.ListenAddr)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
	if cfg.DBProtocol != "postgresql" || cfg.DBHost != "localhost" || cfg.DBPort != "5432" {
		t.Errorf("db defaults = %s://%s:%s", cfg.DBProtocol, cfg.DBHost, cfg.DBPort)
	}
	if cfg.DBQueryTimeout != 5*time.Second {
		t.Errorf("DBQueryTimeout = %v, want 5s", cfg.DBQueryTimeout)
	}
	if cfg.ConnectTimeout != 0 {
		t.Errorf("ConnectTimeout = %v, want 0 (single attempt)", cfg.ConnectTimeout)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %v, want 1MiB", cfg.MaxBodyBytes)
	}
	if !cfg.TraceHeaders || len(cfg.DisabledStages) != 0 {
		t.Errorf("pipeline defaults = trace headers %v, disabled %v", cfg.TraceHeaders, cfg.DisabledStages)
	}
}

func TestLoadPostgresRequiresCredentials(t *testing.T) {
	t.Setenv("CONEXUS_STORE", "postgres")
	t.Setenv("CONEXUS_DB_USER", "conexus")
	t.Setenv("CONEXUS_DB_PASSWORD", "")
	t.Setenv("CONEXUS_DB_NAME", "conexus")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without CONEXUS_DB_PASSWORD")
		}
	}()
	Load()
}

func TestLoadPostgres(t *testing.T) {
	t.Setenv("CONEXUS_STORE", "postgres")
	t.Setenv("CONEXUS_DB_USER", "conexus")
	t.Setenv("CONEXUS_DB_PASSWORD", "secret")
	t.Setenv("CONEXUS_DB_NAME", "bookmarks")
	t.Setenv("CONEXUS_DB_HORT", "db.internal")
	t.Setenv("CONEXUS_LOG_LEVEL", "info")

	cfg := Load()

	if cfg.DBHost != "db.internal" {
		t.Errorf("DBHost = %q, want the CONEXUS_DB_HORT fallback", cfg.DBHost)
	}
	if cfg.DBUser != "conexus" || cfg.DBName != "bookmarks" {
		t.Errorf("credentials = %q / %q", cfg.DBUser, cfg.DBName)
	}

	t.Setenv("CONEXUS_DB_HOST", "primary.internal")
	if got := Load().DBHost; got != "primary.internal" {
		t.Errorf("DBHost = %q, CONEXUS_DB_HOST should win", got)
	}
}

func TestLoadUnknownStore(t *testing.T) {
	t.Setenv("CONEXUS_STORE", "sqlite")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic on an unknown store")
		}
	}()
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := Config{DBPassword: "secret", RedisPassword: "hunter2", DBUser: "conexus"}
	r := cfg.Redacted()

	if r.DBPassword == "secret" || r.RedisPassword == "hunter2" {
		t.Errorf("Redacted() leaked a password: %+v", r)
	}
	if r.DBUser != "conexus" {
		t.Errorf("Redacted() changed DBUser to %q", r.DBUser)
	}
	if cfg.DBPassword != "secret" {
		t.Error("Redacted() must not modify the receiver")
	}
}
