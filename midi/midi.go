// Package midi renders generated pieces as single-track standard MIDI files.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/rhythm"
	"github.com/ColbyCabrera/harmonia/util"
)

// DefaultTempo is used when a request does not name a tempo.
const DefaultTempo = 96.0

const (
	channel  = 0
	velocity = 80
)

// noteEdge is a note boundary at an absolute tick. Offs sort before ons at
// the same tick so repeated pitches retrigger cleanly.
type noteEdge struct {
	tick uint32
	on   bool
	key  uint8
}

// Export renders the piece as an SMF with the shared tick resolution, one
// track carrying both staves. A non-positive bpm falls back to DefaultTempo.
func Export(p *model.Piece, bpm float64) (*smf.SMF, error) {
	meter, err := rhythm.ParseMeter(p.Meter)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", p.ID, err)
	}
	if bpm <= 0 {
		bpm = DefaultTempo
	}

	var tr smf.Track
	if p.Title != "" {
		tr.Add(0, smf.MetaTrackSequenceName(p.Title))
	}
	tr.Add(0, smf.MetaInstrument("Piano"))
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, smf.MetaMeter(uint8(meter.Beats), uint8(meter.Unit)))

	edges := collectEdges(p, meter.Ticks())
	var pos uint32
	for _, edge := range edges {
		delta := edge.tick - pos
		pos = edge.tick
		if edge.on {
			tr.Add(delta, midi.NoteOn(channel, edge.key, velocity))
		} else {
			tr.Add(delta, midi.NoteOff(channel, edge.key))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	s.Add(tr)
	return s, nil
}

// WriteFile exports the piece and writes it to path, creating the directory
// when needed.
func WriteFile(p *model.Piece, bpm float64, path string) error {
	s, err := Export(p, bpm)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := util.EnsureDir(dir); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return fmt.Errorf("export %s: %w", p.ID, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// collectEdges flattens every pitched event into sorted on/off boundaries.
// Each staff/voice line keeps its own cursor within the measure; chord
// continuations share the start of the event they stack on.
func collectEdges(p *model.Piece, measureTicks int) []noteEdge {
	var edges []noteEdge
	for i, m := range p.Measures {
		base := i * measureTicks
		cursor := map[[2]int]int{}
		lastStart := map[[2]int]int{}
		for _, e := range m.Events {
			line := [2]int{e.Staff, e.Voice}
			start := cursor[line]
			if e.ChordCont {
				start = lastStart[line]
			} else {
				cursor[line] = start + e.DurationTicks
				lastStart[line] = start
			}
			if e.Pitch == nil {
				continue
			}
			on := base + start
			edges = append(edges,
				noteEdge{tick: uint32(on), on: true, key: uint8(*e.Pitch)},
				noteEdge{tick: uint32(on + e.DurationTicks), on: false, key: uint8(*e.Pitch)},
			)
		}
	}
	sort.SliceStable(edges, func(a, b int) bool {
		if edges[a].tick != edges[b].tick {
			return edges[a].tick < edges[b].tick
		}
		return !edges[a].on && edges[b].on
	})
	return edges
}

// ReadFile parses a standard MIDI file from disk.
func ReadFile(path string) (s *smf.SMF, e error) {
	// the reader panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parse midi file: %w", err)
	}
	return res, nil
}
