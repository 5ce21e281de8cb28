package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Data:   DataConfig{BasePath: "/tmp/promptdeck"},
			Auth:   AuthConfig{UserID: "usr-local"},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("expected valid config, got: %v", err)
		}
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "testing"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for invalid environment")
		}
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := valid()
		cfg.Data.BasePath = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty data path")
		}
	})

	t.Run("empty user id", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.UserID = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty user ID")
		}
	})

	t.Run("production requires token", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "production"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing API token in production")
		}
		cfg.Auth.APIToken = "secret"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config with token, got: %v", err)
		}
	})
}

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default/path")
		if err != nil {
			t.Fatalf("expandPath: %v", err)
		}
		if got != "/default/path" {
			t.Errorf("got %q, want /default/path", got)
		}
	})

	t.Run("tilde expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		got, err := expandPath("~/prompts", "")
		if err != nil {
			t.Fatalf("expandPath: %v", err)
		}
		if got != filepath.Join(home, "prompts") {
			t.Errorf("got %q, want %q", got, filepath.Join(home, "prompts"))
		}
	})

	t.Run("relative made absolute", func(t *testing.T) {
		got, err := expandPath("data", "")
		if err != nil {
			t.Fatalf("expandPath: %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("expected absolute path, got %q", got)
		}
	})
}

func TestGetConfigValue(t *testing.T) {
	const key = "PROMPTDECK_TEST_VALUE"
	t.Setenv(key, "from-env")

	if got := getConfigValue("from-flag", key, "default"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := getConfigValue("", key, "default"); got != "from-env" {
		t.Errorf("env should win over default, got %q", got)
	}
	if got := getConfigValue("", "PROMPTDECK_TEST_UNSET", "default"); got != "default" {
		t.Errorf("default should apply, got %q", got)
	}
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("PROMPTDECK_TEST_INT", "42")
	if got := getIntConfigValue("", "PROMPTDECK_TEST_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}

	t.Setenv("PROMPTDECK_TEST_INT", "not-a-number")
	if got := getIntConfigValue("", "PROMPTDECK_TEST_INT", 7); got != 7 {
		t.Errorf("got %d, want fallback 7", got)
	}
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("", "PROMPTDECK_TEST_TIMEOUT_UNSET", "15s")
	if err != nil {
		t.Fatalf("parseDurationValue: %v", err)
	}
	if d != 15*time.Second {
		t.Errorf("got %v, want 15s", d)
	}

	t.Setenv("PROMPTDECK_TEST_TIMEOUT", "oops")
	if _, err := parseDurationValue("", "PROMPTDECK_TEST_TIMEOUT", "15s"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := strings.Join([]string{
		"# comment line",
		"",
		`PROMPTDECK_TEST_A="quoted value"`,
		"PROMPTDECK_TEST_B = spaced ",
	}, "\n")
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("PROMPTDECK_TEST_A", "")
	t.Setenv("PROMPTDECK_TEST_B", "")
	os.Unsetenv("PROMPTDECK_TEST_A")
	os.Unsetenv("PROMPTDECK_TEST_B")

	if err := loadEnvFile(envPath); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv("PROMPTDECK_TEST_A"); got != "quoted value" {
		t.Errorf("PROMPTDECK_TEST_A = %q, want %q", got, "quoted value")
	}
	if got := os.Getenv("PROMPTDECK_TEST_B"); got != "spaced" {
		t.Errorf("PROMPTDECK_TEST_B = %q, want %q", got, "spaced")
	}
}

func TestLoadEnvFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("NO_EQUALS_SIGN\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := loadEnvFile(envPath); err == nil {
		t.Error("expected error for malformed line")
	}
}
