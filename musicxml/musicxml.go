// Package musicxml renders generated pieces as MusicXML 3.1 partwise
// scores: a single two-staff piano part, one measure per generated measure,
// voices interleaved with backups.
package musicxml

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	xmldom "github.com/subchen/go-xmldom"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/rhythm"
	"github.com/ColbyCabrera/harmonia/theory"
	"github.com/ColbyCabrera/harmonia/util"
)

const doctype = `DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd"`

// Write renders the piece as a MusicXML document string.
func Write(p *model.Piece) (string, error) {
	key, err := theory.ParseKey(p.Key)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.ID, err)
	}
	meter, err := rhythm.ParseMeter(p.Meter)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.ID, err)
	}

	doc := xmldom.NewDocument("score-partwise")
	doc.Directives = append(doc.Directives, doctype)
	root := doc.Root
	root.SetAttributeValue("version", "3.1")

	if p.Title != "" {
		root.CreateNode("work").CreateNode("work-title").Text = p.Title
	}
	encoding := root.CreateNode("identification").CreateNode("encoding")
	encoding.CreateNode("software").Text = "harmonia"
	if !p.CreatedAt.IsZero() {
		encoding.CreateNode("encoding-date").Text = p.CreatedAt.Format("2006-01-02")
	}

	scorePart := root.CreateNode("part-list").CreateNode("score-part")
	scorePart.SetAttributeValue("id", "P1")
	scorePart.CreateNode("part-name").Text = "Piano"

	part := root.CreateNode("part")
	part.SetAttributeValue("id", "P1")

	for i, m := range p.Measures {
		node := part.CreateNode("measure")
		node.SetAttributeValue("number", strconv.Itoa(m.Index+1))
		if i == 0 {
			writeAttributes(node, key, meter)
		}
		writeChordLabel(node, m.Chord)
		writeVoices(node, m, key, meter.Ticks())
	}
	return doc.XMLPretty(), nil
}

// WriteFile renders the piece and writes it to path, creating the directory
// when needed.
func WriteFile(p *model.Piece, path string) error {
	s, err := Write(p)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := util.EnsureDir(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(s), 0644)
}

func writeAttributes(measure *xmldom.Node, key theory.Key, meter rhythm.Meter) {
	attrs := measure.CreateNode("attributes")
	attrs.CreateNode("divisions").Text = strconv.Itoa(constants.TicksPerQuarter)

	keyNode := attrs.CreateNode("key")
	keyNode.CreateNode("fifths").Text = strconv.Itoa(key.Fifths())
	mode := "major"
	if key.Mode == theory.Minor {
		mode = "minor"
	}
	keyNode.CreateNode("mode").Text = mode

	timeNode := attrs.CreateNode("time")
	timeNode.CreateNode("beats").Text = strconv.Itoa(meter.Beats)
	timeNode.CreateNode("beat-type").Text = strconv.Itoa(meter.Unit)

	attrs.CreateNode("staves").Text = "2"
	treble := attrs.CreateNode("clef")
	treble.SetAttributeValue("number", "1")
	treble.CreateNode("sign").Text = "G"
	treble.CreateNode("line").Text = "2"
	bass := attrs.CreateNode("clef")
	bass.SetAttributeValue("number", "2")
	bass.CreateNode("sign").Text = "F"
	bass.CreateNode("line").Text = "4"
}

func writeChordLabel(measure *xmldom.Node, token string) {
	direction := measure.CreateNode("direction")
	direction.SetAttributeValue("placement", "above")
	direction.CreateNode("direction-type").CreateNode("words").Text = token
	direction.CreateNode("staff").Text = "1"
}

// writeVoices emits each voice line in turn, separated by full-measure
// backups so every line starts at beat one.
func writeVoices(measure *xmldom.Node, m model.Measure, key theory.Key, measureTicks int) {
	var order []int
	byVoice := make(map[int][]model.MusicalEvent)
	for _, e := range m.Events {
		if _, seen := byVoice[e.Voice]; !seen {
			order = append(order, e.Voice)
		}
		byVoice[e.Voice] = append(byVoice[e.Voice], e)
	}

	for i, voice := range order {
		if i > 0 {
			measure.CreateNode("backup").CreateNode("duration").Text = strconv.Itoa(measureTicks)
		}
		for _, e := range byVoice[voice] {
			writeNote(measure, e, key)
		}
	}
}

func writeNote(measure *xmldom.Node, e model.MusicalEvent, key theory.Key) {
	note := measure.CreateNode("note")
	if e.ChordCont {
		note.CreateNode("chord")
	}
	if e.Pitch == nil {
		note.CreateNode("rest")
	} else {
		parts, err := theory.SplitNote(theory.NoteNameInKey(*e.Pitch, key))
		if err != nil {
			// Out-of-range pitches cannot be engraved; hold the slot open.
			note.CreateNode("rest")
		} else {
			pitch := note.CreateNode("pitch")
			pitch.CreateNode("step").Text = parts.Step
			if parts.Alter != 0 {
				pitch.CreateNode("alter").Text = strconv.Itoa(parts.Alter)
			}
			pitch.CreateNode("octave").Text = strconv.Itoa(parts.Octave)
		}
	}
	note.CreateNode("duration").Text = strconv.Itoa(e.DurationTicks)
	note.CreateNode("voice").Text = strconv.Itoa(e.Voice)
	if e.Type != "" {
		note.CreateNode("type").Text = e.Type
	}
	if e.Dotted {
		note.CreateNode("dot")
	}
	note.CreateNode("staff").Text = strconv.Itoa(e.Staff)
}
