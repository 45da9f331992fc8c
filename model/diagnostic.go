package model

// DiagnosticKind names a soft finding raised during generation.
type DiagnosticKind string

const (
	DiagUnresolvedChord   DiagnosticKind = "unresolved_chord"
	DiagRhythmIncomplete  DiagnosticKind = "rhythm_incomplete"
	DiagVoicingIncomplete DiagnosticKind = "voicing_incomplete"
	DiagBassFallback      DiagnosticKind = "bass_fallback"
	DiagVoiceCrossing     DiagnosticKind = "voice_crossing"
	DiagSpacingExceeded   DiagnosticKind = "spacing_exceeded"
	DiagParallelFifths    DiagnosticKind = "parallel_fifths"
	DiagParallelOctaves   DiagnosticKind = "parallel_octaves"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a structured finding returned alongside a generated piece.
// Diagnostics never abort generation; callers surface or ignore them.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	Measure  int            `json:"measure,omitempty"`
	Beat     float64        `json:"beat,omitempty"`
	Voices   []string       `json:"voices,omitempty"`
	Detail   string         `json:"detail"`
}
