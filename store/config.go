package store

import (
	"log/slog"

	"github.com/google/uuid"
)

// Config holds configuration for the Store.
type Config struct {
	// NewID generates identifiers for new records.
	// Default: uuid.NewString
	NewID func() string

	// Logger receives mutation and cascade logs.
	// Default: slog.Default()
	Logger *slog.Logger

	// Publisher receives the change batch of every committed mutation.
	// Default: nil (no change feed)
	Publisher Publisher
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		NewID:  uuid.NewString,
		Logger: slog.Default(),
	}
}

// validate fills in defaults for unset fields.
func (c *Config) validate() {
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
