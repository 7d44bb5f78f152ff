package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

func validatorMatter(t *testing.T, archived, deleted bool, documentCount int) *entities.Matter {
	t.Helper()
	now := time.Now()
	matter, err := entities.ReconstructMatter(
		valueobjects.NewMatterID(), "user-1", "M-100",
		"Acme v. Initech", "", "Acme Corp",
		archived, deleted, documentCount, now, now, 1,
	)
	require.NoError(t, err)
	return matter
}

func validatorDocument(t *testing.T, matterID valueobjects.MatterID, fileName string, checkedOut, deleted bool) *entities.Document {
	t.Helper()
	name, err := valueobjects.NewFileName(fileName)
	require.NoError(t, err)
	checkedOutBy := ""
	if checkedOut {
		checkedOutBy = "user-2"
	}
	now := time.Now()
	document, err := entities.ReconstructDocument(
		valueobjects.NewDocumentID(), matterID, "user-1", name,
		1024, valueobjects.Checksum{}, "application/pdf",
		checkedOut, checkedOutBy, deleted, 0, now, now, 1,
	)
	require.NoError(t, err)
	return document
}

func TestTransferValidator_ValidTransfer(t *testing.T) {
	v := NewTransferValidator()
	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 0)
	document := validatorDocument(t, source.ID(), "brief.pdf", false, false)

	assert.NoError(t, v.ValidateTransfer(document, source, dest, events.TransferMove, nil))
	assert.NoError(t, v.ValidateTransfer(document, source, dest, events.TransferCopy, []string{"other.pdf"}))
}

func TestTransferValidator_InvalidOperation(t *testing.T) {
	v := NewTransferValidator()
	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 0)
	document := validatorDocument(t, source.ID(), "brief.pdf", false, false)

	err := v.ValidateTransfer(document, source, dest, "rename", nil)
	require.Error(t, err)
	var domainErr *pkgerrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSFER_OPERATION", domainErr.Code)
}

func TestTransferValidator_SameMatter(t *testing.T) {
	v := NewTransferValidator()
	source := validatorMatter(t, false, false, 1)
	document := validatorDocument(t, source.ID(), "brief.pdf", false, false)

	err := v.ValidateTransfer(document, source, source, events.TransferMove, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrTransferSameMatter)
}

func TestTransferValidator_DocumentNotInSource(t *testing.T) {
	v := NewTransferValidator()
	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 0)
	elsewhere := validatorMatter(t, false, false, 1)
	document := validatorDocument(t, elsewhere.ID(), "brief.pdf", false, false)

	err := v.ValidateTransfer(document, source, dest, events.TransferMove, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrTransferDocumentMismatch)
}

func TestTransferValidator_DocumentState(t *testing.T) {
	v := NewTransferValidator()
	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 0)

	deleted := validatorDocument(t, source.ID(), "brief.pdf", false, true)
	assert.ErrorIs(t, v.ValidateTransfer(deleted, source, dest, events.TransferMove, nil), pkgerrors.ErrDocumentDeleted)

	checkedOut := validatorDocument(t, source.ID(), "brief.pdf", true, false)
	assert.ErrorIs(t, v.ValidateTransfer(checkedOut, source, dest, events.TransferMove, nil), pkgerrors.ErrDocumentCheckedOut)
}

func TestTransferValidator_MatterState(t *testing.T) {
	v := NewTransferValidator()

	deletedSource := validatorMatter(t, false, true, 1)
	dest := validatorMatter(t, false, false, 0)
	document := validatorDocument(t, deletedSource.ID(), "brief.pdf", false, false)
	assert.ErrorIs(t, v.ValidateTransfer(document, deletedSource, dest, events.TransferMove, nil), pkgerrors.ErrMatterDeleted)

	source := validatorMatter(t, false, false, 1)
	document = validatorDocument(t, source.ID(), "brief.pdf", false, false)

	deletedDest := validatorMatter(t, false, true, 0)
	assert.ErrorIs(t, v.ValidateTransfer(document, source, deletedDest, events.TransferMove, nil), pkgerrors.ErrMatterDeleted)

	// An archived source may still give documents away; an archived
	// destination cannot receive them.
	archivedDest := validatorMatter(t, true, false, 0)
	assert.ErrorIs(t, v.ValidateTransfer(document, source, archivedDest, events.TransferMove, nil), pkgerrors.ErrMatterArchived)

	archivedSource := validatorMatter(t, true, false, 1)
	document = validatorDocument(t, archivedSource.ID(), "brief.pdf", false, false)
	assert.NoError(t, v.ValidateTransfer(document, archivedSource, dest, events.TransferMove, nil))
}

func TestTransferValidator_DestinationFull(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxDocumentsPerMatter = 5
	v := NewTransferValidatorWithConfig(cfg)

	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 5)
	document := validatorDocument(t, source.ID(), "brief.pdf", false, false)

	err := v.ValidateTransfer(document, source, dest, events.TransferMove, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrMatterDocumentLimit)
}

func TestTransferValidator_DuplicateFileName(t *testing.T) {
	v := NewTransferValidator()
	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 1)
	document := validatorDocument(t, source.ID(), "Brief.PDF", false, false)

	err := v.ValidateTransfer(document, source, dest, events.TransferMove, []string{"brief.pdf"})
	assert.ErrorIs(t, err, pkgerrors.ErrDuplicateFileName)
}

func TestTransferValidator_DuplicateCheckDisabled(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.RequireUniqueFileNames = false
	v := NewTransferValidatorWithConfig(cfg)

	source := validatorMatter(t, false, false, 1)
	dest := validatorMatter(t, false, false, 1)
	document := validatorDocument(t, source.ID(), "brief.pdf", false, false)

	assert.NoError(t, v.ValidateTransfer(document, source, dest, events.TransferMove, []string{"brief.pdf"}))
}
