package voicebank

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "voicebank.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{
		"engine": "bin/engine",
		"model_dir": "model",
		"question_path": "hed/questions.hed",
		"utagoe_dialect": true,
		"sample_rate": 48000,
		"gain_normalize": true
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Engine != filepath.Join(dir, "bin", "engine") {
		t.Errorf("Engine = %q, want resolved against the config dir", cfg.Engine)
	}
	if cfg.ModelDir != filepath.Join(dir, "model") {
		t.Errorf("ModelDir = %q", cfg.ModelDir)
	}
	if cfg.QuestionPath != filepath.Join(dir, "hed", "questions.hed") {
		t.Errorf("QuestionPath = %q", cfg.QuestionPath)
	}
	if !cfg.UtagoeDialect {
		t.Error("UtagoeDialect not set")
	}
	if cfg.SampleRate != 48000 || !cfg.GainNormalize {
		t.Errorf("audio settings = %d/%v", cfg.SampleRate, cfg.GainNormalize)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"engine": "/usr/bin/engine"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate default = %d, want 44100", cfg.SampleRate)
	}
	if cfg.Engine != "/usr/bin/engine" {
		t.Errorf("absolute Engine path rewritten: %q", cfg.Engine)
	}
}

func TestLoadMissingEngine(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"sample_rate": 44100}`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for config without engine")
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{engine: nope`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
