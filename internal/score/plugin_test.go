package score

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// writeScript stores a plugin script Shift-JIS encoded, as the host does.
func writeScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plugin.tmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating script: %v", err)
	}
	defer f.Close()

	w := transform.NewWriter(f, japanese.ShiftJIS.NewEncoder())
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
	return path
}

func TestReadPluginScript(t *testing.T) {
	path := writeScript(t, `[#SETTING]
Tempo=120
Project=song.ust
[#0000]
Lyric=ど
NoteNum=60
Length=480
[#0001]
Lyric=R
NoteNum=67
Length=240
[#0002]
Lyric=れ
NoteNum=62
Length=480
[#TRACKEND]
`)

	region, err := ReadPluginScript(path)
	if err != nil {
		t.Fatalf("ReadPluginScript returned error: %v", err)
	}

	if region.Tempo != 120 {
		t.Errorf("Tempo = %.1f, want 120", region.Tempo)
	}
	if region.ProjectPath != "song.ust" {
		t.Errorf("ProjectPath = %q, want song.ust", region.ProjectPath)
	}
	if len(region.Notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(region.Notes))
	}

	first := region.Notes[0]
	if first.Lyric != "ど" || first.Pitch != 60 {
		t.Errorf("note 0 = %+v", first)
	}
	if first.Start != 0 || first.End != 500 {
		t.Errorf("note 0 spans %.1f..%.1f, want 0..500 (480 ticks at 120 bpm)", first.Start, first.End)
	}

	rest := region.Notes[1]
	if !rest.IsRest() {
		t.Errorf("note 1 should be a rest despite NoteNum=67: %+v", rest)
	}
	if rest.Start != 500 || rest.End != 750 {
		t.Errorf("rest spans %.1f..%.1f, want 500..750", rest.Start, rest.End)
	}

	if region.Notes[2].Index != 2 {
		t.Errorf("note indexes not sequential: %+v", region.Notes[2])
	}
}

func TestReadPluginScriptTempoChange(t *testing.T) {
	path := writeScript(t, `[#SETTING]
Tempo=120
[#0000]
Lyric=あ
NoteNum=60
Length=480
[#0001]
Lyric=い
NoteNum=62
Length=480
Tempo=60
`)

	region, err := ReadPluginScript(path)
	if err != nil {
		t.Fatalf("ReadPluginScript returned error: %v", err)
	}

	second := region.Notes[1]
	if second.Start != 500 || second.End != 1500 {
		t.Errorf("note 1 spans %.1f..%.1f, want 500..1500 (tempo drop to 60)", second.Start, second.End)
	}
}

func TestReadPluginScriptExcludesContextNotes(t *testing.T) {
	path := writeScript(t, `[#SETTING]
Tempo=120
[#PREV]
Lyric=あ
NoteNum=60
Length=480
[#0000]
Lyric=い
NoteNum=62
Length=480
[#NEXT]
Lyric=う
NoteNum=64
Length=480
`)

	region, err := ReadPluginScript(path)
	if err != nil {
		t.Fatalf("ReadPluginScript returned error: %v", err)
	}
	if len(region.Notes) != 1 {
		t.Fatalf("got %d notes, want 1 (PREV/NEXT excluded)", len(region.Notes))
	}
	if region.Notes[0].Start != 0 {
		t.Errorf("selection timeline should start at 0, got %.1f", region.Notes[0].Start)
	}
}

func TestReadPluginScriptMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare line", "[#SETTING]\nTempo=120\n[#0000]\nLyric=あ\ngarbage line\n"},
		{"bad notenum", "[#SETTING]\nTempo=120\n[#0000]\nLyric=あ\nNoteNum=abc\n"},
		{"bad tempo", "[#SETTING]\nTempo=zero\n"},
		{"missing lyric", "[#SETTING]\nTempo=120\n[#0000]\nNoteNum=60\nLength=480\n"},
	}

	for _, tt := range tests {
		path := writeScript(t, tt.content)
		_, err := ReadPluginScript(path)
		var formatErr *ScoreFormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("%s: got %v, want ScoreFormatError", tt.name, err)
		}
	}
}

func TestReadPluginScriptMissingLyricReportsSectionLine(t *testing.T) {
	// [#0001] opens on line 6 and never gets a Lyric; the error must point
	// there, not at the header that triggered the flush
	path := writeScript(t, `[#SETTING]
Tempo=120
[#0000]
Lyric=あ
Length=480
[#0001]
NoteNum=62
Length=480
[#TRACKEND]
`)

	_, err := ReadPluginScript(path)
	var formatErr *ScoreFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("got %v, want ScoreFormatError", err)
	}
	if formatErr.Line != 6 {
		t.Errorf("error at line %d, want 6 (the section header)", formatErr.Line)
	}
}

func TestReadPluginScriptMissingFile(t *testing.T) {
	if _, err := ReadPluginScript(filepath.Join(t.TempDir(), "nope.tmp")); err == nil {
		t.Error("expected error for missing file")
	}
}
