package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Matter constraints
	MaxDocumentsPerMatter int
	MaxMatterTitleLength  int
	MinMatterTitleLength  int
	MaxDescriptionLength  int
	MaxClientNameLength   int

	// Document constraints
	MaxFileNameLength      int
	MaxFileSizeBytes       int64
	MaxRevisionsPerDocument int
	AllowedExtensions      []string

	// Transfer constraints
	TransferLockDuration time.Duration

	// Validation settings
	RequireUniqueFileNames   bool
	RequireUniqueMatterNumbers bool
	AllowTransferToSelf      bool

	// Feature flags
	EnableAuditTrail    bool
	EnableOutboxPublish bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxDocumentsPerMatter: 10000,
		MaxMatterTitleLength:  200,
		MinMatterTitleLength:  1,
		MaxDescriptionLength:  5000,
		MaxClientNameLength:   200,

		MaxFileNameLength:       255,
		MaxFileSizeBytes:        512 * 1024 * 1024,
		MaxRevisionsPerDocument: 10000,
		AllowedExtensions: []string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".txt", ".rtf", ".msg", ".eml", ".tif", ".tiff", ".png", ".jpg",
		},

		TransferLockDuration: 30 * time.Second,

		RequireUniqueFileNames:     true,
		RequireUniqueMatterNumbers: true,
		AllowTransferToSelf:        false,

		EnableAuditTrail:    true,
		EnableOutboxPublish: true,
	}
}

// ExtensionAllowed reports whether a file extension is accepted
func (c *DomainConfig) ExtensionAllowed(ext string) bool {
	for _, allowed := range c.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}
