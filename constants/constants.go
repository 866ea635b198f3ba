package constants

import "os"

func GetListenAddr() string {
	addr := os.Getenv("BARLINE_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// Defaults applied when a document is created without explicit options.
const DefaultBPM = 120.0
const DefaultNumerator = 4
const DefaultDenominator = 4
const DefaultPPQ = 480

// DefaultVelocity is the 1-127 velocity assigned to added notes when the
// caller does not supply one.
const DefaultVelocity = 80

// MaxSearchResults caps how many notes a search returns after sorting. The
// reported match count is still the full number of matches.
const MaxSearchResults = 200
