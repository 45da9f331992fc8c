package model

// GenerateRequest is the API and request-file shape of one generation job.
// Settings wins over Difficulty when both are present; a nil Seed means
// "surprise me".
type GenerateRequest struct {
	Key         string    `json:"key" yaml:"key"`
	Meter       string    `json:"meter" yaml:"meter"`
	Measures    int       `json:"measures" yaml:"measures"`
	Progression []string  `json:"progression,omitempty" yaml:"progression,omitempty"`
	Difficulty  *int      `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Settings    *Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Seed        *int64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Tempo       float64   `json:"tempo,omitempty" yaml:"tempo,omitempty"`
}

type GenerateResponse struct {
	ID          string       `json:"id"`
	Progression []string     `json:"progression"`
	MusicXML    string       `json:"musicxml"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
