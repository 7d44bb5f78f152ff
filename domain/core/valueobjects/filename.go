package valueobjects

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"lexmatter/domain/config"
	pkgerrors "lexmatter/pkg/errors"
)

// FileName is a value object for a document's file name. It carries the
// base name and extension separately and compares case-insensitively.
type FileName struct {
	base      string
	extension string
}

// NewFileName creates a file name with validation using default configuration
func NewFileName(name string) (FileName, error) {
	return NewFileNameWithConfig(name, config.DefaultDomainConfig())
}

// NewFileNameWithConfig creates a file name with validation and configuration
func NewFileNameWithConfig(name string, cfg *config.DomainConfig) (FileName, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return FileName{}, pkgerrors.NewValidationError("file name cannot be empty")
	}

	if utf8.RuneCountInString(name) > cfg.MaxFileNameLength {
		return FileName{}, fmt.Errorf("file name exceeds maximum length of %d characters", cfg.MaxFileNameLength)
	}

	if strings.ContainsAny(name, `/\:*?"<>|`) {
		return FileName{}, pkgerrors.NewValidationError("file name contains invalid characters")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return FileName{}, pkgerrors.NewValidationError("file name must have an extension")
	}

	if !cfg.ExtensionAllowed(ext) {
		return FileName{}, pkgerrors.NewValidationError(fmt.Sprintf("file extension %q is not allowed", ext))
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.TrimSpace(base) == "" {
		return FileName{}, pkgerrors.NewValidationError("file name must not be only an extension")
	}

	return FileName{base: base, extension: ext}, nil
}

// String returns the full file name including the extension
func (f FileName) String() string {
	return f.base + f.extension
}

// Base returns the file name without the extension
func (f FileName) Base() string {
	return f.base
}

// Extension returns the lower-cased extension including the leading dot
func (f FileName) Extension() string {
	return f.extension
}

// IsZero checks if the FileName is the zero value
func (f FileName) IsZero() bool {
	return f.base == "" && f.extension == ""
}

// Equals compares two file names case-insensitively
func (f FileName) Equals(other FileName) bool {
	return strings.EqualFold(f.String(), other.String())
}
