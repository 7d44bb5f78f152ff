package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	"lexmatter/pkg/errors"
)

// MatterValidator validates matter-related domain rules
type MatterValidator struct {
	cfg           *config.DomainConfig
	numberPattern *regexp.Regexp
}

// NewMatterValidator creates a new matter validator with default rules
func NewMatterValidator() *MatterValidator {
	return NewMatterValidatorWithConfig(config.DefaultDomainConfig())
}

// NewMatterValidatorWithConfig creates a matter validator with configuration
func NewMatterValidatorWithConfig(cfg *config.DomainConfig) *MatterValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &MatterValidator{
		cfg: cfg,
		// Matter numbers look like "2024-0042" or "LIT-2024-0042"
		numberPattern: regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`),
	}
}

// ValidateNewMatter validates all fields of a matter being created
func (v *MatterValidator) ValidateNewMatter(number, title, description, clientName string) error {
	validationErrors := errors.NewValidationErrors()

	if err := v.ValidateNumber(number); err != nil {
		if domainErr, ok := err.(*errors.DomainError); ok {
			validationErrors.AddError(domainErr)
		} else {
			validationErrors.Add("number", err.Error())
		}
	}

	if err := v.ValidateTitle(title); err != nil {
		if domainErr, ok := err.(*errors.DomainError); ok {
			validationErrors.AddError(domainErr)
		} else {
			validationErrors.Add("title", err.Error())
		}
	}

	if err := v.ValidateDescription(description); err != nil {
		if domainErr, ok := err.(*errors.DomainError); ok {
			validationErrors.AddError(domainErr)
		} else {
			validationErrors.Add("description", err.Error())
		}
	}

	if err := v.ValidateClientName(clientName); err != nil {
		if domainErr, ok := err.(*errors.DomainError); ok {
			validationErrors.AddError(domainErr)
		} else {
			validationErrors.Add("client_name", err.Error())
		}
	}

	if validationErrors.HasErrors() {
		return validationErrors
	}

	return nil
}

// ValidateNumber validates the matter number format
func (v *MatterValidator) ValidateNumber(number string) error {
	number = strings.TrimSpace(number)

	if number == "" {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"MATTER_NUMBER_REQUIRED",
			"Matter number is required",
		).WithDetail("field", "number")
	}

	if utf8.RuneCountInString(number) > 50 {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"MATTER_NUMBER_TOO_LONG",
			"Matter number exceeds maximum length",
		).WithDetail("field", "number").WithDetail("max_length", 50)
	}

	if !v.numberPattern.MatchString(number) {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"INVALID_MATTER_NUMBER",
			"Matter number contains invalid characters",
		).WithDetail("field", "number").WithDetail("value", number)
	}

	return nil
}

// ValidateTitle validates the matter title
func (v *MatterValidator) ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if utf8.RuneCountInString(title) < v.cfg.MinMatterTitleLength {
		return errors.ErrMatterTitleRequired
	}

	if utf8.RuneCountInString(title) > v.cfg.MaxMatterTitleLength {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"MATTER_TITLE_TOO_LONG",
			"Matter title exceeds maximum length",
		).WithDetail("field", "title").
			WithDetail("actual_length", utf8.RuneCountInString(title)).
			WithDetail("max_length", v.cfg.MaxMatterTitleLength)
	}

	return nil
}

// ValidateDescription validates the matter description
func (v *MatterValidator) ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > v.cfg.MaxDescriptionLength {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"MATTER_DESCRIPTION_TOO_LONG",
			"Matter description exceeds maximum length",
		).WithDetail("field", "description").WithDetail("max_length", v.cfg.MaxDescriptionLength)
	}

	return nil
}

// ValidateClientName validates the client name
func (v *MatterValidator) ValidateClientName(clientName string) error {
	if utf8.RuneCountInString(clientName) > v.cfg.MaxClientNameLength {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"CLIENT_NAME_TOO_LONG",
			"Client name exceeds maximum length",
		).WithDetail("field", "client_name").WithDetail("max_length", v.cfg.MaxClientNameLength)
	}

	return nil
}

// ValidateDocumentCount validates the number of documents in a matter
func (v *MatterValidator) ValidateDocumentCount(count int) error {
	if count >= v.cfg.MaxDocumentsPerMatter {
		return errors.ErrMatterDocumentLimit.
			WithDetail("current", count).
			WithDetail("limit", v.cfg.MaxDocumentsPerMatter)
	}

	return nil
}

// ValidateArchivable checks whether the matter may be archived given the
// number of checked-out documents currently filed under it
func (v *MatterValidator) ValidateArchivable(matter *entities.Matter, checkedOutDocuments int) error {
	if matter.IsDeleted() {
		return errors.ErrMatterDeleted
	}
	if checkedOutDocuments > 0 {
		return errors.NewDomainError(
			errors.DomainConflictError,
			"MATTER_HAS_CHECKED_OUT_DOCUMENTS",
			"Cannot archive a matter while documents are checked out",
		).WithDetail("checked_out_count", checkedOutDocuments)
	}

	return nil
}

// ValidateDeletable checks whether the matter may be soft-deleted
func (v *MatterValidator) ValidateDeletable(matter *entities.Matter, checkedOutDocuments int) error {
	if checkedOutDocuments > 0 {
		return errors.NewDomainError(
			errors.DomainConflictError,
			"MATTER_HAS_CHECKED_OUT_DOCUMENTS",
			"Cannot delete a matter while documents are checked out",
		).WithDetail("checked_out_count", checkedOutDocuments)
	}

	return nil
}
