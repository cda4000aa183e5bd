package i18n

import (
	"strings"
	"testing"
)

func TestNewTranslations(t *testing.T) {
	t.Run("should build a bundle from the embedded catalog", func(t *testing.T) {
		trans, err := NewTranslations("en")

		if err != nil {
			t.Fatalf("NewTranslations() should not return an error, got: %v", err)
		}
		if trans == nil {
			t.Fatal("NewTranslations() should not return nil")
		}
	})
}

func TestSetLanguage(t *testing.T) {
	t.Run("should accept a language present in the bundle", func(t *testing.T) {
		trans, err := NewTranslations("en")
		if err != nil {
			t.Fatal("test setup failed:", err)
		}

		if err := trans.SetLanguage("en"); err != nil {
			t.Errorf("SetLanguage() should not return an error, got: %v", err)
		}
	})

	t.Run("should reject an unsupported language", func(t *testing.T) {
		trans, err := NewTranslations("en")
		if err != nil {
			t.Fatal("test setup failed:", err)
		}

		if err := trans.SetLanguage("fr"); err == nil {
			t.Error("SetLanguage() should return an error for an unsupported language")
		}
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := NewTranslations("en")
	if err != nil {
		t.Fatal("test setup failed:", err)
	}

	t.Run("should resolve a plain message", func(t *testing.T) {
		got := trans.GetMessage("readme_generated", 0, nil)

		if got != "README generated" {
			t.Errorf("GetMessage() = %q, want %q", got, "README generated")
		}
	})

	t.Run("should pick the singular form", func(t *testing.T) {
		got := trans.GetMessage("stage_config_files", 1, map[string]interface{}{"Count": 1})

		if got != "Reading 1 config file..." {
			t.Errorf("GetMessage() = %q", got)
		}
	})

	t.Run("should pick the plural form", func(t *testing.T) {
		got := trans.GetMessage("stage_config_files", 3, map[string]interface{}{"Count": 3})

		if got != "Reading 3 config files..." {
			t.Errorf("GetMessage() = %q", got)
		}
	})

	t.Run("should expand template data", func(t *testing.T) {
		got := trans.GetMessage("readme_saved", 0, map[string]interface{}{"Path": "README.md"})

		if !strings.Contains(got, "README.md") {
			t.Errorf("GetMessage() = %q, want the path inside", got)
		}
	})

	t.Run("should flag missing messages", func(t *testing.T) {
		got := trans.GetMessage("does_not_exist", 1, nil)

		if got != "Translation missing: does_not_exist" {
			t.Errorf("GetMessage() = %q", got)
		}
	})
}
