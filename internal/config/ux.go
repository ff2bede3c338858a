package config

import "fmt"

// Page size bounds for the browser table.
const (
	MinPageSize     = 10
	MaxPageSize     = 30
	DefaultPageSize = 30
)

// UIConfig holds interactive browser configuration.
type UIConfig struct {
	// Plain forces the line-oriented browser even on a terminal.
	Plain bool `yaml:"plain" json:"plain"`

	// PageSize pins the table page size (0 = derive from terminal height).
	PageSize int `yaml:"page_size,omitempty" json:"page_size,omitempty"`

	// MaxWidth caps the table width in columns.
	MaxWidth int `yaml:"max_width" json:"max_width"`

	// DocStyle is the glamour style for documentation ("" = auto-detect).
	DocStyle string `yaml:"doc_style,omitempty" json:"doc_style,omitempty"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Plain:    false,
		PageSize: 0,
		MaxWidth: 100,
	}
}

// Validate checks the UI settings.
func (c *UIConfig) Validate() error {
	if c.PageSize != 0 && (c.PageSize < MinPageSize || c.PageSize > MaxPageSize) {
		return fmt.Errorf("ui.page_size must be between %d and %d, got %d", MinPageSize, MaxPageSize, c.PageSize)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("ui.max_width must not be negative, got %d", c.MaxWidth)
	}
	return nil
}
