package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// TestNewLogger tests the NewLogger function
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		pkg      string
		function string
	}{
		{"basic function", "capi", "rdfstore_add_triple"},
		{"empty function", "turtle", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.pkg, tt.function)

			if logger.fields["function"] != tt.function {
				t.Errorf("fields[function] = %v, want %v", logger.fields["function"], tt.function)
			}
			if logger.fields["package"] != tt.pkg {
				t.Errorf("fields[package] = %v, want %v", logger.fields["package"], tt.pkg)
			}
		})
	}
}

func TestLoggerHelper_WithCaller(t *testing.T) {
	logger := NewLogger("logging", "TestFunction").WithCaller()

	caller, ok := logger.fields["caller"].(string)
	if !ok || !strings.Contains(caller, "logging_test.go") {
		t.Errorf("caller = %v, want a logging_test.go location", logger.fields["caller"])
	}
	if _, exists := logger.fields["caller_func"]; !exists {
		t.Error("WithCaller() should add caller_func field")
	}
}

func TestLoggerHelper_WithError(t *testing.T) {
	logger := NewLogger("capi", "rdfstore_query_sparql").
		WithError(errors.New("boom"), "query_parse", "parse")

	fields := logger.fields
	if fields["error"] != "boom" {
		t.Errorf("error = %v, want boom", fields["error"])
	}
	if fields["error_type"] != "query_parse" || fields["operation"] != "parse" {
		t.Errorf("unexpected fields %v", fields)
	}

	nilErr := NewLogger("capi", "f").WithError(nil, "t", "o")
	if _, exists := nilErr.fields["error"]; exists {
		t.Error("WithError(nil) should not add an error field")
	}
}

func TestLoggerHelper_Emits(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	old := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	defer logrus.SetLevel(old)

	NewLogger("engine", "Insert").WithField("count", 3).Debug("inserted")

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected an entry")
	}
	if entry.Message != "inserted" || entry.Level != logrus.DebugLevel {
		t.Errorf("unexpected entry %q at %v", entry.Message, entry.Level)
	}
	if entry.Data["count"] != 3 || entry.Data["package"] != "engine" {
		t.Errorf("unexpected data %v", entry.Data)
	}
}

func TestTextPreview(t *testing.T) {
	short := TextPreview("SELECT * WHERE {}", "query")
	if short["query_preview"] != "SELECT * WHERE {}" || short["query_size"] != 17 {
		t.Errorf("unexpected short preview %v", short)
	}

	long := strings.Repeat("é", 100)
	fields := TextPreview(long, "data")
	preview := fields["data_preview"].(string)
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("long preview should be truncated, got %q", preview)
	}
	if strings.ContainsRune(preview, '�') || len(preview) > previewLimit+3 {
		t.Errorf("preview must cut on a rune boundary, got %q", preview)
	}
	if fields["data_size"] != 200 {
		t.Errorf("data_size = %v, want 200", fields["data_size"])
	}
}

func TestOperationFields(t *testing.T) {
	fields := OperationFields("load", "ok", logrus.Fields{"statements": 2})
	if fields["operation"] != "load" || fields["status"] != "ok" || fields["statements"] != 2 {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestConfigure(t *testing.T) {
	old := logrus.GetLevel()
	defer logrus.SetLevel(old)

	if err := Configure("debug", "json"); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logrus.GetLevel())
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter); !ok {
		t.Error("expected JSON formatter")
	}
	if err := Configure("warn", "text"); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	if err := Configure("chatty", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Configure("info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
