package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Model   string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"30s"`
	Rounds  int           `split_words:"true" default:"5"`
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CFGTEST_MODEL=from-file\nCFGTEST_ROUNDS=3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("CFGTEST_MODEL", "from-env")
	t.Setenv("CFGTEST_ROUNDS", "")
	os.Unsetenv("CFGTEST_ROUNDS")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("CFGTEST_MODEL"); got != "from-env" {
		t.Fatalf("CFGTEST_MODEL = %q, want from-env", got)
	}
	if got := os.Getenv("CFGTEST_ROUNDS"); got != "3" {
		t.Fatalf("CFGTEST_ROUNDS = %q, want 3", got)
	}

	conf, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Model != "from-env" || conf.Rounds != 3 || conf.Timeout != 30*time.Second {
		t.Fatalf("New() = %+v", conf)
	}
}

func TestNewReportsMissingRequired(t *testing.T) {
	t.Setenv("CFGMISSING_ROUNDS", "1")

	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatal("New() without required model should fail")
	}
}

func TestExportEnvironmentIfExistsSkipsMissingFile(t *testing.T) {
	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("exportEnvironmentIfExists() error = %v", err)
	}
}
