package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile_FillsEmptyFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("data_dir: /srv/billing\nexport_format: parquet\ndiagnosis_sources:\n  - b.csv\n  - a.csv\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.DataDir != "/srv/billing" {
		t.Errorf("DataDir = %q", c.DataDir)
	}
	if c.ExportFormat != "parquet" {
		t.Errorf("ExportFormat = %q", c.ExportFormat)
	}
	if len(c.DiagnosisSources) != 2 || c.DiagnosisSources[0] != "b.csv" {
		t.Errorf("DiagnosisSources = %v", c.DiagnosisSources)
	}
}

func TestLoadFromFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("export_format: parquet\nlog_format: json\n"), 0644)

	c := Config{ExportFormat: "csv"}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.ExportFormat != "csv" {
		t.Errorf("ExportFormat = %q, want flag value csv", c.ExportFormat)
	}
	if c.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json from file", c.LogFormat)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("data_dir: [unterminated\n"), 0644)
	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyDefaultsAndPaths(t *testing.T) {
	c := Config{DataDir: "/data"}
	c.ApplyDefaults()
	if got := c.RegistryPath(); got != "/data/Patient_List.csv" {
		t.Errorf("RegistryPath = %q", got)
	}
	if got := c.ExtensionPath(); got != "/data/diagnosis codes/Diagnosis_Code_NEW.csv" {
		t.Errorf("ExtensionPath = %q", got)
	}
	if c.SourcePaths() != nil {
		t.Errorf("SourcePaths = %v, want nil", c.SourcePaths())
	}
	c.DiagnosisSources = []string{"x.csv", "/abs/y.csv"}
	paths := c.SourcePaths()
	if paths[0] != "/data/diagnosis codes/x.csv" || paths[1] != "/abs/y.csv" {
		t.Errorf("SourcePaths = %v", paths)
	}
}

func TestValidate(t *testing.T) {
	c := Config{DataDir: t.TempDir()}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := c
	bad.ExportFormat = "xlsx"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown export format")
	}

	bad = c
	bad.LogFormat = "xml"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown log format")
	}

	bad = c
	bad.DataDir = filepath.Join(c.DataDir, "missing")
	if err := bad.Validate(); err == nil {
		t.Error("expected error for missing data dir")
	}
}
