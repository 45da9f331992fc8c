package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/engine"
	"github.com/ColbyCabrera/harmonia/midi"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/musicxml"
	"github.com/ColbyCabrera/harmonia/util"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var generateFlags struct {
	requestFile string
	key         string
	meter       string
	measures    int
	progression []string
	difficulty  int
	style       string
	seed        int64
	title       string
	tempo       float64
	outDir      string
	withMidi    bool
	quiet       bool
}

func init() {
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.requestFile, "file", "f", "", "YAML request file; flags override its fields")
	f.StringVarP(&generateFlags.key, "key", "k", "C", "key, e.g. C, F#, Bbm")
	f.StringVarP(&generateFlags.meter, "meter", "m", "4/4", "meter, e.g. 4/4, 6/8")
	f.IntVarP(&generateFlags.measures, "measures", "n", 0, "number of measures (default: progression length)")
	f.StringSliceVarP(&generateFlags.progression, "progression", "p", nil, "roman-numeral progression, e.g. I,IV,V7,I (default: drafted)")
	f.IntVarP(&generateFlags.difficulty, "difficulty", "d", 0, "difficulty 1-10, sets all generation settings at once")
	f.StringVar(&generateFlags.style, "style", "", "texture: satb or melody_accompaniment")
	f.Int64Var(&generateFlags.seed, "seed", 0, "random seed (default: time-based)")
	f.StringVarP(&generateFlags.title, "title", "t", "", "piece title")
	f.Float64Var(&generateFlags.tempo, "tempo", 0, "tempo in bpm for the MIDI export")
	f.StringVarP(&generateFlags.outDir, "out", "o", constants.GetOutDir(), "output directory")
	f.BoolVar(&generateFlags.withMidi, "midi", false, "also write a .mid file")
	f.BoolVarP(&generateFlags.quiet, "quiet", "q", false, "only print output paths")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a harmonization",
	Long: `Generates a harmonization and writes it to the output directory as
MusicXML, optionally alongside a MIDI rendering. The request can come from a
YAML file, from flags, or both, with flags winning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func runGenerate(cmd *cobra.Command) error {
	greq, err := buildGenerateRequest(cmd)
	if err != nil {
		return err
	}
	req, err := engine.NewRequest(greq)
	if err != nil {
		return err
	}
	if generateFlags.style != "" {
		style, err := styleFromFlag(generateFlags.style)
		if err != nil {
			return err
		}
		req.Settings.Style = style
	}

	piece, diags, err := engine.Harmonize(req)
	if err != nil {
		return err
	}

	xmlPath := filepath.Join(generateFlags.outDir, piece.ID+".musicxml")
	if err := musicxml.WriteFile(piece, xmlPath); err != nil {
		return err
	}
	paths := []string{xmlPath}
	if generateFlags.withMidi {
		midPath := filepath.Join(generateFlags.outDir, piece.ID+".mid")
		if err := midi.WriteFile(piece, greq.Tempo, midPath); err != nil {
			return err
		}
		paths = append(paths, midPath)
	}

	if generateFlags.quiet {
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	fmt.Println(titleStyle.Render(piece.Title))
	fmt.Printf("%s %s, %d measures, seed %d\n", piece.Key, piece.Meter, len(piece.Measures), piece.Seed)
	fmt.Printf("progression: %s\n", strings.Join(piece.Progression(), " "))
	printDiagnostics(diags)
	for _, p := range paths {
		fmt.Printf("wrote %s\n", p)
	}
	return nil
}

// buildGenerateRequest merges the optional YAML request file with the
// command-line flags; any flag the user set wins over the file.
func buildGenerateRequest(cmd *cobra.Command) (model.GenerateRequest, error) {
	var greq model.GenerateRequest
	if generateFlags.requestFile != "" {
		data, err := os.ReadFile(generateFlags.requestFile)
		if err != nil {
			return greq, fmt.Errorf("read request file: %w", err)
		}
		if err := yaml.Unmarshal(data, &greq); err != nil {
			return greq, fmt.Errorf("parse request file %s: %w", generateFlags.requestFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("key") || greq.Key == "" {
		greq.Key = generateFlags.key
	}
	if flags.Changed("meter") || greq.Meter == "" {
		greq.Meter = generateFlags.meter
	}
	if flags.Changed("measures") {
		greq.Measures = generateFlags.measures
	}
	if flags.Changed("progression") {
		greq.Progression = generateFlags.progression
	}
	if flags.Changed("difficulty") {
		greq.Difficulty = &generateFlags.difficulty
	}
	if flags.Changed("seed") {
		greq.Seed = &generateFlags.seed
	}
	if flags.Changed("title") {
		greq.Title = generateFlags.title
	}
	if flags.Changed("tempo") {
		greq.Tempo = generateFlags.tempo
	}
	return greq, nil
}

// styleFromFlag maps the CLI shorthand ("satb", "melody_accompaniment")
// onto the canonical style names the engine validates against.
func styleFromFlag(s string) (model.Style, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "")) {
	case "satb":
		return model.SATB, nil
	case "melodyaccompaniment":
		return model.MelodyAccompaniment, nil
	}
	return "", fmt.Errorf("unknown style %q (want satb or melody_accompaniment)", s)
}

func printDiagnostics(diags []model.Diagnostic) {
	if len(diags) == 0 {
		fmt.Println(okStyle.Render("clean voice leading, no diagnostics"))
		return
	}

	counts := make(map[string]int)
	for _, d := range diags {
		counts[string(d.Kind)]++
	}
	kinds := util.GetKeys(counts)
	sort.Strings(kinds)
	var parts []string
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s ×%d", kind, counts[kind]))
	}
	fmt.Println(warnStyle.Render(fmt.Sprintf("%d diagnostics", len(diags))) + dimStyle.Render(" ("+strings.Join(parts, ", ")+")"))

	for _, d := range diags {
		style := infoStyle
		if d.Severity == model.SeverityWarning {
			style = warnStyle
		}
		loc := fmt.Sprintf("m%d b%g", d.Measure+1, d.Beat)
		line := fmt.Sprintf("  %s %s %s", style.Render(string(d.Kind)), dimStyle.Render(loc), d.Detail)
		if len(d.Voices) > 0 {
			line += dimStyle.Render(" [" + strings.Join(d.Voices, ", ") + "]")
		}
		fmt.Println(line)
	}
}
