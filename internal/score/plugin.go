package score

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ticksPerQuarter is the UST resolution: 480 ticks to a quarter note.
const ticksPerQuarter = 480

const defaultTempo = 120.0

// ScoreFormatError reports a malformed plugin script.
type ScoreFormatError struct {
	Line int
	Msg  string
}

func (e *ScoreFormatError) Error() string {
	return fmt.Sprintf("score format error at line %d: %s", e.Line, e.Msg)
}

// rawNote accumulates the fields of one [#NNNN] section before conversion.
type rawNote struct {
	lyric    string
	noteNum  int
	length   int
	tempo    float64 // 0 when the note carries no tempo change
	hasLyric bool
}

// ReadPluginScript parses the temp script a UTAU-style host hands to a
// plugin. The file is Shift-JIS encoded and INI-shaped: a [#SETTING]
// header, numbered [#NNNN] note sections for the selection, and optional
// [#PREV]/[#NEXT] context sections which are recognized but excluded from
// the returned region.
func ReadPluginScript(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plugin script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(transform.NewReader(f, japanese.ShiftJIS.NewDecoder()))

	region := &Region{Tempo: defaultTempo}

	var (
		section     string
		sectionLine int // line of the current section's header
		cur         *rawNote
		lineNo      int
		clock       float64 // running time in ms
		tempo       = defaultTempo
	)

	flush := func() error {
		if cur == nil {
			return nil
		}
		defer func() { cur = nil }()
		if section == "PREV" || section == "NEXT" {
			return nil
		}
		if !cur.hasLyric {
			return &ScoreFormatError{Line: sectionLine, Msg: fmt.Sprintf("note section [#%s] has no Lyric", section)}
		}
		if cur.tempo > 0 {
			tempo = cur.tempo
		}
		durMs := float64(cur.length) * 60000.0 / (tempo * ticksPerQuarter)
		n := Note{
			Index: len(region.Notes),
			Pitch: cur.noteNum,
			Start: clock,
			End:   clock + durMs,
			Lyric: strings.TrimSpace(cur.lyric),
		}
		if isRestLyric(n.Lyric) {
			n.Pitch = RestPitch
		}
		clock = n.End
		region.Notes = append(region.Notes, n)
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[#") && strings.HasSuffix(line, "]") {
			if err := flush(); err != nil {
				return nil, err
			}
			section = strings.TrimSuffix(strings.TrimPrefix(line, "[#"), "]")
			sectionLine = lineNo
			switch section {
			case "SETTING", "TRACKEND", "DELETE", "INSERT":
				// no note payload
			default:
				cur = &rawNote{}
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ScoreFormatError{Line: lineNo, Msg: fmt.Sprintf("expected key=value, got %q", line)}
		}

		if section == "SETTING" {
			switch key {
			case "Tempo":
				t, err := strconv.ParseFloat(value, 64)
				if err != nil || t <= 0 {
					return nil, &ScoreFormatError{Line: lineNo, Msg: fmt.Sprintf("bad Tempo %q", value)}
				}
				tempo = t
				region.Tempo = t
			case "Project":
				region.ProjectPath = value
			}
			continue
		}

		if cur == nil {
			continue
		}
		switch key {
		case "Lyric":
			cur.lyric = value
			cur.hasLyric = true
		case "NoteNum":
			v, err := strconv.Atoi(value)
			if err != nil || v < 0 {
				return nil, &ScoreFormatError{Line: lineNo, Msg: fmt.Sprintf("bad NoteNum %q", value)}
			}
			cur.noteNum = v
		case "Length":
			v, err := strconv.Atoi(value)
			if err != nil || v < 0 {
				return nil, &ScoreFormatError{Line: lineNo, Msg: fmt.Sprintf("bad Length %q", value)}
			}
			cur.length = v
		case "Tempo":
			t, err := strconv.ParseFloat(value, 64)
			if err != nil || t <= 0 {
				return nil, &ScoreFormatError{Line: lineNo, Msg: fmt.Sprintf("bad Tempo %q", value)}
			}
			cur.tempo = t
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading plugin script: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return region, nil
}

func isRestLyric(lyric string) bool {
	switch lyric {
	case "", "R", "r":
		return true
	}
	return false
}
