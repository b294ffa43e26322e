package domain

// DisplayConfig is an immutable snapshot of the display settings consumed by
// the annotation engine. Updates produce a new value; nothing holds a pointer
// into a live config.
type DisplayConfig struct {
	Enabled     bool        `json:"enabled"`
	Orientation Orientation `json:"orientation"`
}

// DefaultDisplayConfig returns the settings used when nothing was persisted.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Enabled:     true,
		Orientation: OrientationHorizontalAbove,
	}
}

// WithEnabled returns a copy of c with Enabled set.
func (c DisplayConfig) WithEnabled(enabled bool) DisplayConfig {
	c.Enabled = enabled
	return c
}

// WithOrientation returns a copy of c with Orientation set.
func (c DisplayConfig) WithOrientation(o Orientation) DisplayConfig {
	c.Orientation = o
	return c
}

// Validate checks that the orientation is one of the known values.
func (c DisplayConfig) Validate() error {
	if !c.Orientation.IsValid() {
		return NewValidationError("orientation", "must be one of vertical-right, horizontal-above, horizontal-below")
	}
	return nil
}
