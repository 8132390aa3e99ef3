package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"STORE_URL", "STORE_TIMEOUT", "UPLOAD_CONCURRENCY", "TIMEZONE", "REFRESH_EVERY"} {
		t.Setenv(k, "")
	}

	c := LoadConfig()
	if c.Store.URL != DefaultStoreURL {
		t.Errorf("expected default store url, got %q", c.Store.URL)
	}
	if c.Store.Timeout != 60*time.Second || c.UploadConcurrency != 10 {
		t.Errorf("unexpected defaults %v / %d", c.Store.Timeout, c.UploadConcurrency)
	}
	if c.RefreshSchedule != "@every 30s" || c.MediaBackend != "store" {
		t.Errorf("unexpected defaults %q / %q", c.RefreshSchedule, c.MediaBackend)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_URL", "https://script.test/exec")
	t.Setenv("STORE_TIMEOUT", "5s")
	t.Setenv("UPLOAD_CONCURRENCY", "not a number")
	t.Setenv("TIMEZONE", "Nowhere/Atlantis")

	c := LoadConfig()
	if c.Store.URL != "https://script.test/exec" || c.Store.Timeout != 5*time.Second {
		t.Errorf("unexpected store config %+v", c.Store)
	}
	if c.UploadConcurrency != 10 {
		t.Errorf("expected fallback concurrency, got %d", c.UploadConcurrency)
	}
	if c.Location() != time.Local {
		t.Errorf("expected host zone for unknown timezone, got %v", c.Location())
	}
}
