package validators

import (
	"strings"

	"lexmatter/domain/config"
	"lexmatter/pkg/errors"
)

// DocumentValidator validates document-related domain rules
type DocumentValidator struct {
	cfg *config.DomainConfig
}

// NewDocumentValidator creates a document validator with default rules
func NewDocumentValidator() *DocumentValidator {
	return NewDocumentValidatorWithConfig(config.DefaultDomainConfig())
}

// NewDocumentValidatorWithConfig creates a document validator with configuration
func NewDocumentValidatorWithConfig(cfg *config.DomainConfig) *DocumentValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &DocumentValidator{cfg: cfg}
}

// ValidateFileSize validates the document content size
func (v *DocumentValidator) ValidateFileSize(fileSize int64) error {
	if fileSize < 0 {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"INVALID_FILE_SIZE",
			"File size cannot be negative",
		).WithDetail("field", "file_size")
	}
	if fileSize > v.cfg.MaxFileSizeBytes {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"FILE_TOO_LARGE",
			"File size exceeds the maximum allowed",
		).WithDetail("field", "file_size").
			WithDetail("actual_size", fileSize).
			WithDetail("max_size", v.cfg.MaxFileSizeBytes)
	}
	return nil
}

// ValidateMimeType validates the document MIME type
func (v *DocumentValidator) ValidateMimeType(mimeType string) error {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return nil // MIME type is optional
	}
	parts := strings.SplitN(mimeType, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"INVALID_MIME_TYPE",
			"MIME type must be of the form type/subtype",
		).WithDetail("field", "mime_type").WithDetail("value", mimeType)
	}
	return nil
}

// ValidateFileNameUnique checks the file name against the names already
// filed under the matter. Comparison is case-insensitive.
func (v *DocumentValidator) ValidateFileNameUnique(fileName string, existingNames []string) error {
	if !v.cfg.RequireUniqueFileNames {
		return nil
	}
	for _, existing := range existingNames {
		if strings.EqualFold(existing, fileName) {
			return errors.ErrDuplicateFileName.WithDetail("file_name", fileName)
		}
	}
	return nil
}
