package theory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		in    string
		tonic int
		mode  Mode
	}{
		{"C", 0, Major},
		{"F#", 6, Major},
		{"Bb", 10, Major},
		{"Am", 9, Minor},
		{"Gm", 7, Minor},
		{"Ebm", 3, Minor},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			key, err := ParseKey(c.in)
			assert := assert.New(t)
			assert.NoError(err)
			assert.Equal(c.tonic, key.Tonic)
			assert.Equal(c.mode, key.Mode)
			assert.Equal(c.in, key.String())
		})
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "H", "C##", "Cx", "m"} {
		_, err := ParseKey(in)
		if err == nil {
			t.Fatalf("expected error for %q", in)
		}
		var invalid *InvalidInputError
		assert.True(t, errors.As(err, &invalid))
	}
}

func TestDegreesAlwaysSeven(t *testing.T) {
	for _, name := range []string{"C", "F#", "Db", "Am", "Gm", "Ebm"} {
		key, err := ParseKey(name)
		assert.NoError(t, err)
		degrees := key.Degrees()
		assert.Len(t, degrees, 7)
	}
}

func TestMajorDegreeQualities(t *testing.T) {
	key, _ := ParseKey("C")
	degrees := key.Degrees()

	assert := assert.New(t)
	assert.Equal(Chord{Root: 0, Quality: MajorTriad}, degrees[0])
	assert.Equal(Chord{Root: 2, Quality: MinorTriad}, degrees[1])
	assert.Equal(Chord{Root: 4, Quality: MinorTriad}, degrees[2])
	assert.Equal(Chord{Root: 5, Quality: MajorTriad}, degrees[3])
	assert.Equal(Chord{Root: 7, Quality: MajorTriad}, degrees[4])
	assert.Equal(Chord{Root: 9, Quality: MinorTriad}, degrees[5])
	assert.Equal(Chord{Root: 11, Quality: DiminishedTriad}, degrees[6])
}

func TestMinorUsesHarmonicDominantAndLeadingTone(t *testing.T) {
	key, _ := ParseKey("Am")
	degrees := key.Degrees()

	assert := assert.New(t)
	// V is major despite the natural-minor scale.
	assert.Equal(Chord{Root: 4, Quality: MajorTriad}, degrees[4])
	// vii sits on the raised seventh step, not the subtonic.
	assert.Equal(Chord{Root: 8, Quality: DiminishedTriad}, degrees[6])
	assert.Equal(Chord{Root: 9, Quality: MinorTriad}, degrees[0])
	assert.Equal(Chord{Root: 11, Quality: DiminishedTriad}, degrees[1])
	assert.Equal(Chord{Root: 0, Quality: MajorTriad}, degrees[2])
}

func TestDegreeSeventhDefaults(t *testing.T) {
	major, _ := ParseKey("C")
	minor, _ := ParseKey("Am")

	assert := assert.New(t)
	assert.Equal(Major7, major.DegreeSeventh(0))
	assert.Equal(Dominant7, major.DegreeSeventh(4))
	assert.Equal(HalfDiminished7, major.DegreeSeventh(6))
	assert.Equal(Minor7, minor.DegreeSeventh(0))
	assert.Equal(Dominant7, minor.DegreeSeventh(4))
	assert.Equal(Diminished7, minor.DegreeSeventh(6))
}

func TestChordIntervalsAndPitchClasses(t *testing.T) {
	c := Chord{Root: 7, Quality: MajorTriad, Seventh: Dominant7}

	assert := assert.New(t)
	assert.Equal([]int{0, 4, 7, 10}, c.Intervals())
	assert.Equal([]int{7, 11, 2, 5}, c.PitchClasses())
}

func TestFifths(t *testing.T) {
	cases := []struct {
		key    string
		fifths int
	}{
		{"C", 0},
		{"G", 1},
		{"D", 2},
		{"F", -1},
		{"Bb", -2},
		{"F#", 6},
		{"Gb", -6},
		{"Am", 0},
		{"Em", 1},
		{"Gm", -2},
		{"F#m", 3},
		{"Ebm", -6},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			key, err := ParseKey(c.key)
			assert.NoError(t, err)
			assert.Equal(t, c.fifths, key.Fifths())
		})
	}
}

func TestNoteNames(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C4", NoteName(60))
	assert.Equal("A0", NoteName(21))
	assert.Equal("C8", NoteName(108))
	assert.Equal("F#3", NoteName(54))
	assert.Equal("", NoteName(-1))
	assert.Equal("", NoteName(128))

	gm, _ := ParseKey("Gm")
	d, _ := ParseKey("D")
	assert.Equal("Bb4", NoteNameInKey(70, gm))
	assert.Equal("A#4", NoteNameInKey(70, d))
}

func TestParseNoteRoundTrip(t *testing.T) {
	for pitch := 21; pitch <= 108; pitch++ {
		got, err := ParseNote(NoteName(pitch))
		assert.NoError(t, err)
		assert.Equal(t, pitch, got)
	}
}

func TestSplitNote(t *testing.T) {
	parts, err := SplitNote("Bb4")
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(NoteParts{Step: "B", Alter: -1, Octave: 4}, parts)

	parts, err = SplitNote("C-1")
	assert.NoError(err)
	assert.Equal(NoteParts{Step: "C", Alter: 0, Octave: -1}, parts)

	_, err = SplitNote("xyz")
	assert.Error(err)
}

func TestScalePcsCoverDegreeChords(t *testing.T) {
	for _, name := range []string{"C", "Eb", "B", "Am", "Cm", "F#m"} {
		key, err := ParseKey(name)
		assert.NoError(t, err)
		scale := make(map[int]bool)
		for _, pc := range key.ScalePcs() {
			scale[pc] = true
		}
		for degree, chord := range key.Degrees() {
			for _, pc := range chord.PitchClasses() {
				if !scale[pc] {
					t.Fatalf("key %s degree %d: pitch class %d outside scale", name, degree+1, pc)
				}
			}
		}
	}
}
