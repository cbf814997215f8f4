package config

import "testing"

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/medilog")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.OpenAIChatModel != "gpt-4o-mini" {
		t.Errorf("OpenAIChatModel = %q", cfg.OpenAIChatModel)
	}
	if cfg.OpenAISummaryModel != cfg.OpenAIChatModel {
		t.Errorf("summary model should fall back to chat model, got %q", cfg.OpenAISummaryModel)
	}
	if cfg.MinioBucket != "prescriptions" {
		t.Errorf("MinioBucket = %q", cfg.MinioBucket)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/medilog")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_MODEL_SUMMARY", "gpt-4o")
	t.Setenv("CORS_ORIGINS", "https://app.medilog.in,https://staging.medilog.in")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("ENV=production not honored")
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.OpenAISummaryModel != "gpt-4o" {
		t.Errorf("OpenAISummaryModel = %q", cfg.OpenAISummaryModel)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}
