package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexmatter/application/commands"
	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

func newCreateDocumentHandler(
	matterRepo *fakeMatterRepo,
	documentRepo *fakeDocumentRepo,
	auditStore *fakeAuditStore,
	eventStore *fakeEventStore,
	cfg *config.DomainConfig,
) *CreateDocumentHandler {
	return NewCreateDocumentHandler(
		matterRepo, documentRepo, auditStore, eventStore,
		cfg, observability.NewCollector("lexmatter"), zap.NewNop(),
	)
}

func TestCreateDocumentHandler_Success(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 0)
	matterRepo := newFakeMatterRepo(matter)
	documentRepo := newFakeDocumentRepo()
	auditStore := &fakeAuditStore{}
	eventStore := &fakeEventStore{}
	handler := newCreateDocumentHandler(matterRepo, documentRepo, auditStore, eventStore, config.DefaultDomainConfig())

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-1",
		FileName: "engagement-letter.pdf",
		FileSize: 4096,
		MimeType: "application/pdf",
	}

	document, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	require.NotNil(t, document)
	assert.Equal(t, "engagement-letter.pdf", document.FileName().String())
	assert.Equal(t, int64(4096), document.FileSize())
	assert.Equal(t, 0, document.RevisionCount())
	assert.Equal(t, 1, documentRepo.saves)
	assert.Equal(t, 1, matter.DocumentCount())

	require.Len(t, auditStore.documentActivity, 1)
	assert.Equal(t, entities.DocumentActivityCreated, auditStore.documentActivity[0].Activity)

	assert.NotEmpty(t, eventStore.saved)
	assert.Empty(t, document.GetUncommittedEvents())
}

func TestCreateDocumentHandler_WrongOwner(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 0)
	handler := newCreateDocumentHandler(newFakeMatterRepo(matter), newFakeDocumentRepo(), &fakeAuditStore{}, &fakeEventStore{}, config.DefaultDomainConfig())

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-2",
		FileName: "engagement-letter.pdf",
	}

	_, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotAuthorized)
	assert.Equal(t, 0, matter.DocumentCount())
}

func TestCreateDocumentHandler_MatterAtDocumentLimit(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxDocumentsPerMatter = 1
	matter := testMatter(t, "user-1", "2026-0001", 1)
	handler := newCreateDocumentHandler(newFakeMatterRepo(matter), newFakeDocumentRepo(), &fakeAuditStore{}, &fakeEventStore{}, cfg)

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-1",
		FileName: "overflow.pdf",
	}

	_, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrMatterDocumentLimit)
}

func TestCreateDocumentHandler_ArchivedMatterRejected(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 0)
	require.NoError(t, matter.Archive())
	handler := newCreateDocumentHandler(newFakeMatterRepo(matter), newFakeDocumentRepo(), &fakeAuditStore{}, &fakeEventStore{}, config.DefaultDomainConfig())

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-1",
		FileName: "late-filing.pdf",
	}

	_, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrMatterArchived)
}

func TestCreateDocumentHandler_DuplicateFileName(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	existing := testDocument(t, matter.ID(), "user-1", "Brief.PDF")
	documentRepo := newFakeDocumentRepo(existing)
	handler := newCreateDocumentHandler(newFakeMatterRepo(matter), documentRepo, &fakeAuditStore{}, &fakeEventStore{}, config.DefaultDomainConfig())

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-1",
		FileName: "brief.pdf",
	}

	_, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrDuplicateFileName)
	assert.Equal(t, 0, documentRepo.saves)
}

func TestCreateDocumentHandler_DisallowedExtension(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 0)
	handler := newCreateDocumentHandler(newFakeMatterRepo(matter), newFakeDocumentRepo(), &fakeAuditStore{}, &fakeEventStore{}, config.DefaultDomainConfig())

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-1",
		FileName: "payload.exe",
	}

	_, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
}

func TestCreateDocumentHandler_InvalidMimeType(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 0)
	handler := newCreateDocumentHandler(newFakeMatterRepo(matter), newFakeDocumentRepo(), &fakeAuditStore{}, &fakeEventStore{}, config.DefaultDomainConfig())

	cmd := &commands.CreateDocumentCommand{
		MatterID: matter.ID().String(),
		UserID:   "user-1",
		FileName: "brief.pdf",
		MimeType: "pdf",
	}

	_, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	var domainErr *pkgerrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MIME_TYPE", domainErr.Code)
}
