package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied to any field left empty by flags and the config file.
const (
	DefaultPatientRegistry = "Patient_List.csv"
	DefaultDiagnosisDir    = "diagnosis codes"
	DefaultExtensionTable  = "Diagnosis_Code_NEW.csv"
	DefaultExportFormat    = "csv"
	DefaultLogFormat       = "text"
	DefaultLogLevel        = "info"
)

// Config holds all runtime configuration for an lfpbill run. Relative paths
// are resolved against DataDir.
type Config struct {
	DataDir          string   `yaml:"data_dir"`
	PatientRegistry  string   `yaml:"patient_registry"`
	DiagnosisDir     string   `yaml:"diagnosis_dir"`
	DiagnosisSources []string `yaml:"diagnosis_sources"` // explicit load order; empty = every *.csv in DiagnosisDir, sorted
	ExtensionTable   string   `yaml:"extension_table"`   // file name inside DiagnosisDir
	OutputDir        string   `yaml:"output_dir"`
	ExportFormat     string   `yaml:"export_format"` // "csv" or "parquet"
	OCRLanguages     []string `yaml:"ocr_languages"`
	LogFormat        string   `yaml:"log_format"` // "text" or "json"
	LogLevel         string   `yaml:"log_level"`
}

// LoadFromFile reads a YAML config file and fills every field that is still
// empty, so values already set from flags take precedence.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc Config
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	fillString(&c.DataDir, fc.DataDir)
	fillString(&c.PatientRegistry, fc.PatientRegistry)
	fillString(&c.DiagnosisDir, fc.DiagnosisDir)
	fillString(&c.ExtensionTable, fc.ExtensionTable)
	fillString(&c.OutputDir, fc.OutputDir)
	fillString(&c.ExportFormat, fc.ExportFormat)
	fillString(&c.LogFormat, fc.LogFormat)
	fillString(&c.LogLevel, fc.LogLevel)
	if len(c.DiagnosisSources) == 0 {
		c.DiagnosisSources = fc.DiagnosisSources
	}
	if len(c.OCRLanguages) == 0 {
		c.OCRLanguages = fc.OCRLanguages
	}
	return nil
}

// ApplyDefaults fills the remaining empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	fillString(&c.DataDir, ".")
	fillString(&c.PatientRegistry, DefaultPatientRegistry)
	fillString(&c.DiagnosisDir, DefaultDiagnosisDir)
	fillString(&c.ExtensionTable, DefaultExtensionTable)
	fillString(&c.OutputDir, ".")
	fillString(&c.ExportFormat, DefaultExportFormat)
	fillString(&c.LogFormat, DefaultLogFormat)
	fillString(&c.LogLevel, DefaultLogLevel)
	if len(c.OCRLanguages) == 0 {
		c.OCRLanguages = []string{"eng"}
	}
}

// Validate checks enumerated fields and that the data directory exists.
func (c *Config) Validate() error {
	switch c.ExportFormat {
	case "csv", "parquet":
	default:
		return fmt.Errorf("export format must be csv or parquet, got %q", c.ExportFormat)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	info, err := os.Stat(c.DataDir)
	if err != nil {
		return fmt.Errorf("data dir not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", c.DataDir)
	}
	return nil
}

// RegistryPath is the patient registry file.
func (c *Config) RegistryPath() string {
	return c.resolve(c.PatientRegistry)
}

// DiagnosisPath is the directory holding the diagnosis reference tables.
func (c *Config) DiagnosisPath() string {
	return c.resolve(c.DiagnosisDir)
}

// ExtensionPath is the writable diagnosis extension table.
func (c *Config) ExtensionPath() string {
	return filepath.Join(c.DiagnosisPath(), c.ExtensionTable)
}

// SourcePaths resolves the explicitly configured diagnosis sources, in order.
// It returns nil when none are configured.
func (c *Config) SourcePaths() []string {
	if len(c.DiagnosisSources) == 0 {
		return nil
	}
	paths := make([]string, len(c.DiagnosisSources))
	for i, s := range c.DiagnosisSources {
		if filepath.IsAbs(s) {
			paths[i] = s
		} else {
			paths[i] = filepath.Join(c.DiagnosisPath(), s)
		}
	}
	return paths
}

// OutputPath is the directory service record exports are written to.
func (c *Config) OutputPath() string {
	return c.resolve(c.OutputDir)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

func fillString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
