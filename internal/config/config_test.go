package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestOptions mirrors the shape of the main Options struct.
type TestOptions struct {
	Config string `help:"Config file path"`

	StringField string `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool   `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int    `toml:"test.int_field" env:"INT_FIELD"`

	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lednode.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42

[nested]
value = "nested value"
`)

	config := &TestOptions{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "hello world" {
		t.Errorf("Expected StringField to be 'hello world', got '%s'", config.StringField)
	}
	if !config.BoolField {
		t.Errorf("Expected BoolField to be true, got %v", config.BoolField)
	}
	if config.IntField != 42 {
		t.Errorf("Expected IntField to be 42, got %d", config.IntField)
	}
	if config.NestedString != "nested value" {
		t.Errorf("Expected NestedString to be 'nested value', got '%s'", config.NestedString)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("LEDNODE_STRING_FIELD", "env string")
	t.Setenv("LEDNODE_BOOL_FIELD", "false")
	t.Setenv("LEDNODE_INT_FIELD", "123")

	config := &TestOptions{}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env string" {
		t.Errorf("Expected StringField to be 'env string', got '%s'", config.StringField)
	}
	if config.BoolField {
		t.Errorf("Expected BoolField to be false, got %v", config.BoolField)
	}
	if config.IntField != 123 {
		t.Errorf("Expected IntField to be 123, got %d", config.IntField)
	}
}

func TestLoadConfigEnvOverridesToml(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "toml value"
bool_field = true
int_field = 100
`)

	t.Setenv("LEDNODE_STRING_FIELD", "env override")
	t.Setenv("LEDNODE_BOOL_FIELD", "false")

	config := &TestOptions{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env override" {
		t.Errorf("Expected StringField to be 'env override', got '%s'", config.StringField)
	}
	if config.BoolField {
		t.Errorf("Expected BoolField to be false (env override), got %v", config.BoolField)
	}
	if config.IntField != 100 {
		t.Errorf("Expected IntField to be 100 (from TOML), got %d", config.IntField)
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"value": "nested_value",
			},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path     string
		expected any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
	}

	for _, test := range tests {
		result := getNestedValue(data, test.path)
		if result != test.expected {
			t.Errorf("getNestedValue(%q) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestSetFieldValueFromString(t *testing.T) {
	type fields struct {
		StringField string
		BoolField   bool
		IntField    int
	}

	s := &fields{}
	v := reflect.ValueOf(s).Elem()

	setFieldValueFromString(v.FieldByName("StringField"), "test string")
	if s.StringField != "test string" {
		t.Errorf("Expected StringField to be 'test string', got '%s'", s.StringField)
	}

	setFieldValueFromString(v.FieldByName("BoolField"), "true")
	if !s.BoolField {
		t.Errorf("Expected BoolField to be true, got %v", s.BoolField)
	}

	setFieldValueFromString(v.FieldByName("IntField"), "123")
	if s.IntField != 123 {
		t.Errorf("Expected IntField to be 123, got %d", s.IntField)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config := &TestOptions{Config: "nonexistent_file.toml"}

	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test
invalid toml syntax
`)

	config := &TestOptions{Config: path}
	if err := LoadConfig(config, nil); err == nil {
		t.Fatalf("LoadConfig should fail for invalid TOML")
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTempConfig(t, `
[logging]
level = "warn"
format = "json"

[logging.modules]
render = "debug"
nats = "error"
`)

	cfg := LoadLoggingConfig(path)

	if cfg.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Modules["render"] != "debug" {
		t.Errorf("Modules[render] = %q, want debug", cfg.Modules["render"])
	}
	if cfg.Modules["nats"] != "error" {
		t.Errorf("Modules[nats] = %q, want error", cfg.Modules["nats"])
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	cfg := LoadLoggingConfig("does_not_exist.toml")

	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("defaults = %q/%q, want info/text", cfg.Level, cfg.Format)
	}
	if cfg.Modules == nil {
		t.Error("Modules map should be initialized")
	}
}
