package validators

import (
	"strings"

	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/events"
	"lexmatter/pkg/errors"
)

// TransferValidator validates document transfer preconditions. All checks run
// against entity state already loaded by the caller; uniqueness of the file
// name in the destination is checked with the names supplied.
type TransferValidator struct {
	cfg *config.DomainConfig
}

// NewTransferValidator creates a transfer validator with default rules
func NewTransferValidator() *TransferValidator {
	return NewTransferValidatorWithConfig(config.DefaultDomainConfig())
}

// NewTransferValidatorWithConfig creates a transfer validator with configuration
func NewTransferValidatorWithConfig(cfg *config.DomainConfig) *TransferValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &TransferValidator{cfg: cfg}
}

// ValidateOperation checks that the operation is a known transfer kind
func (v *TransferValidator) ValidateOperation(operation events.TransferOperation) error {
	if operation != events.TransferMove && operation != events.TransferCopy {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"INVALID_TRANSFER_OPERATION",
			"Transfer operation must be move or copy",
		).WithDetail("operation", string(operation))
	}
	return nil
}

// ValidateTransfer checks every precondition for moving or copying a document
// from the source matter to the destination matter.
//
// destFileNames are the file names of the documents currently filed under the
// destination, used for the uniqueness check.
func (v *TransferValidator) ValidateTransfer(
	document *entities.Document,
	source, dest *entities.Matter,
	operation events.TransferOperation,
	destFileNames []string,
) error {
	if err := v.ValidateOperation(operation); err != nil {
		return err
	}

	if source.ID().Equals(dest.ID()) && !v.cfg.AllowTransferToSelf {
		return errors.ErrTransferSameMatter
	}

	if !document.MatterID().Equals(source.ID()) {
		return errors.ErrTransferDocumentMismatch.
			WithDetail("document_id", document.ID().String()).
			WithDetail("source_matter_id", source.ID().String())
	}

	if document.IsDeleted() {
		return errors.ErrDocumentDeleted
	}

	if document.IsCheckedOut() {
		return errors.ErrDocumentCheckedOut.
			WithDetail("checked_out_by", document.CheckedOutBy())
	}

	if source.IsDeleted() {
		return errors.ErrMatterDeleted.WithDetail("matter_id", source.ID().String())
	}

	if dest.IsDeleted() {
		return errors.ErrMatterDeleted.WithDetail("matter_id", dest.ID().String())
	}

	if dest.IsArchived() {
		return errors.ErrMatterArchived.WithDetail("matter_id", dest.ID().String())
	}

	if dest.DocumentCount() >= v.cfg.MaxDocumentsPerMatter {
		return errors.ErrMatterDocumentLimit.
			WithDetail("matter_id", dest.ID().String()).
			WithDetail("limit", v.cfg.MaxDocumentsPerMatter)
	}

	if v.cfg.RequireUniqueFileNames {
		if err := v.validateFileNameUnique(document.FileName().String(), destFileNames); err != nil {
			return err
		}
	}

	return nil
}

func (v *TransferValidator) validateFileNameUnique(fileName string, destFileNames []string) error {
	for _, existing := range destFileNames {
		if strings.EqualFold(existing, fileName) {
			return errors.ErrDuplicateFileName.
				WithDetail("file_name", fileName)
		}
	}
	return nil
}
