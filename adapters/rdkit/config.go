package rdkit

import "time"

// Config holds the RDKit sidecar connection settings
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	// Release tells the sidecar to drop handles at the end of a run. Stateless
	// sidecars that encode the molecule in the handle can turn it off.
	Release bool `json:"release"`
}

// DefaultConfig returns defaults for a sidecar on localhost
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Release: true,
	}
}
