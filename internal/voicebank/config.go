// Package voicebank loads the settings document distributed with a voice
// model. The document is consumed opaquely by the synthesis driver; the
// label core never reads it.
package voicebank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config mirrors the voicebank's JSON settings file.
type Config struct {
	// Engine is the synthesis engine executable invoked per render.
	Engine string `json:"engine"`
	// ModelDir holds the trained model files the engine loads.
	ModelDir string `json:"model_dir"`
	// QuestionPath is the feature-question file the engine's models were
	// trained against.
	QuestionPath string `json:"question_path"`
	// UtagoeDialect is true when the model was trained under this tool's
	// label dialect rather than the generic one.
	UtagoeDialect bool `json:"utagoe_dialect"`

	SampleRate    int  `json:"sample_rate"`
	GainNormalize bool `json:"gain_normalize"`

	// TempDir overrides the location for intermediate label/WAV files.
	TempDir string `json:"temp_dir,omitempty"`
}

// Load reads and validates a voicebank config. Relative paths inside the
// document resolve against the document's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading voicebank config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing voicebank config %s: %w", path, err)
	}

	if cfg.Engine == "" {
		return nil, fmt.Errorf("voicebank config %s: engine is required", path)
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 44100
	}

	base := filepath.Dir(path)
	cfg.Engine = resolve(base, cfg.Engine)
	if cfg.ModelDir != "" {
		cfg.ModelDir = resolve(base, cfg.ModelDir)
	}
	if cfg.QuestionPath != "" {
		cfg.QuestionPath = resolve(base, cfg.QuestionPath)
	}
	if cfg.TempDir != "" {
		cfg.TempDir = resolve(base, cfg.TempDir)
	}

	return &cfg, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
