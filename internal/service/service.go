package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayasono/utagoe/internal/cache"
	"github.com/ayasono/utagoe/internal/label"
	"github.com/ayasono/utagoe/internal/score"
	"github.com/ayasono/utagoe/internal/sequence"
	"github.com/ayasono/utagoe/internal/synth"
	"github.com/ayasono/utagoe/internal/voicebank"
	"github.com/ayasono/utagoe/internal/wavio"
	"github.com/ayasono/utagoe/pkg/logger"
	"github.com/ayasono/utagoe/pkg/utils"
	"github.com/dustin/go-humanize"
)

// RenderService runs one score-to-waveform render per invocation: read the
// plugin script, build segments, generate labels, synthesize, write. There
// is no partial success; any stage error aborts the run before a waveform
// appears.
type RenderService struct {
	bankPath string
	bank     *voicebank.Config
	driver   *synth.Driver
	cache    *cache.Client
	labelCfg label.Config
	log      *logger.Logger
}

// NewRenderService loads the voicebank at bankPath and prepares a render
// pipeline around it. The render cache lives beside the voicebank models;
// failing to open it degrades to uncached operation.
func NewRenderService(bankPath string) (*RenderService, error) {
	log := logger.GetLogger()

	bank, err := voicebank.Load(bankPath)
	if err != nil {
		return nil, err
	}

	cacheDir := bank.ModelDir
	if cacheDir == "" {
		cacheDir = filepath.Dir(bankPath)
	}
	cacheClient, err := cache.NewClient(filepath.Join(cacheDir, cache.DefaultDBFile))
	if err != nil {
		log.Warnf("Render cache unavailable, continuing without it: %v", err)
		cacheClient = nil
	}

	return &RenderService{
		bankPath: bankPath,
		bank:     bank,
		driver:   synth.NewDriver(bankPath, bank),
		cache:    cacheClient,
		labelCfg: label.DefaultConfig(),
		log:      log,
	}, nil
}

func (s *RenderService) Close() error {
	return s.cache.Close()
}

// Render converts the plugin script at scriptPath into a waveform written
// beside the originating score file and returns the destination path.
func (s *RenderService) Render(ctx context.Context, scriptPath string) (string, error) {
	region, err := score.ReadPluginScript(scriptPath)
	if err != nil {
		return "", err
	}
	s.log.Infof("Read %d notes at tempo %.1f", len(region.Notes), region.Tempo)

	srcPath := region.ProjectPath
	if srcPath == "" {
		srcPath = scriptPath
	}

	segs, err := sequence.Build(region.Notes)
	if err != nil {
		return "", err
	}

	labels := label.Generate(segs, s.labelCfg)
	s.log.Infof("Generated %d labels (%d voiced)", len(labels), label.CountVoiced(labels))

	digest := cache.Digest(label.Lines(labels), s.bankPath)
	if dest, ok := s.reuseCached(digest, srcPath); ok {
		return dest, nil
	}

	wave, err := s.driver.Synthesize(ctx, labels)
	if err != nil {
		return "", err
	}

	dest, err := wavio.Write(wave, srcPath)
	if err != nil {
		return "", err
	}

	if wave.Timing != "" {
		if _, err := wavio.WriteTiming(dest, wave.Timing); err != nil {
			s.log.Warnf("Could not write timing file: %v", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Store(digest, s.bankPath, dest, int(wave.Duration())); err != nil {
			s.log.Warnf("Could not record render in cache: %v", err)
		}
	}

	if info, err := os.Stat(dest); err == nil {
		s.log.Infof("Wrote %s (%s)", dest, humanize.Bytes(uint64(info.Size())))
	}
	return dest, nil
}

// reuseCached copies a previous render of the identical label stream to a
// fresh destination. Any problem falls back to a full synthesis.
func (s *RenderService) reuseCached(digest, srcPath string) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	entry, err := s.cache.Lookup(digest)
	if err != nil {
		s.log.Warnf("Render cache lookup failed: %v", err)
		return "", false
	}
	if entry == nil {
		return "", false
	}

	dest := wavio.DerivedPath(srcPath, time.Now())
	if dest == entry.OutputPath {
		// same second as the cached render; the file is already in place
		s.log.Infof("Reused cached render at %s", dest)
		return dest, true
	}
	if err := utils.CopyFile(entry.OutputPath, dest); err != nil {
		s.log.Warnf("Could not reuse cached render: %v", err)
		return "", false
	}

	s.log.Infof("Reused cached render from %s", entry.CreatedAt.Format("2006-01-02 15:04:05"))
	return dest, true
}

// Voicebank returns a short description of the loaded voicebank for logs.
func (s *RenderService) Voicebank() string {
	dialect := "generic"
	if s.bank.UtagoeDialect {
		dialect = "utagoe"
	}
	return fmt.Sprintf("%s (%s dialect, %d Hz)", s.bankPath, dialect, s.bank.SampleRate)
}
