package route360

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSetDefaults(t *testing.T) {
	var c SiteConfig
	c.setDefaults()
	if c.Name != "Route360" {
		t.Errorf("Name = %q, want Route360", c.Name)
	}
	if c.DatabasePath != ":memory:" {
		t.Errorf("DatabasePath = %q, want :memory:", c.DatabasePath)
	}
	if c.OutputDir != "public" {
		t.Errorf("OutputDir = %q, want public", c.OutputDir)
	}
	if len(c.Languages) != 3 || c.Languages[0] != "en" {
		t.Errorf("Languages = %v, want en fr ja", c.Languages)
	}
	if c.Concurrency != runtime.NumCPU() {
		t.Errorf("Concurrency = %d, want %d", c.Concurrency, runtime.NumCPU())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.toml")
	if err := os.WriteFile(path, []byte(`
name = "My Blog"
url = "https://blog.example"
languages = ["en", "ja"]
concurrency = 2
`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_URL", "https://override.example")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Name != "My Blog" {
		t.Errorf("Name = %q, want My Blog", c.Name)
	}
	if c.URL != "https://override.example" {
		t.Errorf("URL = %q, want the environment override", c.URL)
	}
	if len(c.Languages) != 2 || c.Languages[1] != "ja" {
		t.Errorf("Languages = %v, want en ja", c.Languages)
	}
	if c.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", c.Concurrency)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig(missing) failed: %v", err)
	}
	if c.Name != "" {
		t.Errorf("Name = %q, want empty before defaults", c.Name)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.toml")
	if err := os.WriteFile(path, []byte("name = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig should fail on invalid TOML")
	}
}

func TestValidateLanguages(t *testing.T) {
	c := SiteConfig{Languages: []string{"en", "de"}}
	if err := c.validate(); err == nil {
		t.Error("validate should reject an unsupported language")
	}
}
