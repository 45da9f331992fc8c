package constants

import "os"

// TicksPerQuarter is the tick resolution shared by the event model, the
// MusicXML divisions value and the SMF clock.
const TicksPerQuarter = 480

const WholeNoteTicks = TicksPerQuarter * 4

// Staves of the grand staff in the generated part.
const (
	TrebleStaff = 1
	BassStaff   = 2
)

// MinPitch and MaxPitch bound every candidate pitch pool to the piano
// keyboard (A0 through C8).
const (
	MinPitch = 21
	MaxPitch = 108
)

// MaxMeasures caps a single generation request.
const MaxMeasures = 256

func GetOutDir() string {
	path := os.Getenv("OUT_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// GetStoreTable names the DynamoDB table pieces are saved to. Empty means
// persistence is off.
func GetStoreTable() string {
	return os.Getenv("HARMONIA_STORE_TABLE")
}

func GetStoreEndpoint() string {
	return os.Getenv("HARMONIA_STORE_ENDPOINT")
}

func GetStoreRegion() string {
	region := os.Getenv("AWS_REGION")
	if region != "" {
		return region
	}
	return "us-east-1"
}
