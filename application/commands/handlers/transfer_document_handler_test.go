package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexmatter/application/commands"
	"lexmatter/application/ports"
	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

func newTransferHandler(docRepo *fakeDocumentRepo, matterRepo *fakeMatterRepo, uow *fakeUnitOfWork, lock *fakeLock) *TransferDocumentHandler {
	return NewTransferDocumentHandler(
		docRepo, matterRepo,
		func() ports.UnitOfWork { return uow },
		lock,
		config.DefaultDomainConfig(),
		observability.NewCollector("lexmatter"),
		zap.NewNop(),
	)
}

func TestTransferDocumentHandler_Move(t *testing.T) {
	// Arrange
	source := testMatter(t, "user-1", "M-100", 3)
	dest := testMatter(t, "user-1", "M-200", 1)
	document := testDocument(t, source.ID(), "user-1", "complaint.pdf")

	matterRepo := newFakeMatterRepo(source, dest)
	docRepo := newFakeDocumentRepo(document)
	uow := &fakeUnitOfWork{}
	lock := &fakeLock{}
	handler := newTransferHandler(docRepo, matterRepo, uow, lock)

	cmd := &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "move",
		UserID:         "user-1",
	}

	// Act
	result, err := handler.Handle(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, events.TransferMove, result.Operation)
	assert.True(t, result.CopyDocumentID.IsZero())
	assert.NotEmpty(t, result.TransferID)

	assert.True(t, document.MatterID().Equals(dest.ID()))
	assert.True(t, document.MovedFrom().Equals(source.ID()))
	assert.Equal(t, 2, source.DocumentCount())
	assert.Equal(t, 2, dest.DocumentCount())

	assert.True(t, uow.begun)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
	assert.Len(t, uow.documents, 1)
	assert.Len(t, uow.matters, 2)

	require.Len(t, uow.transfers, 1)
	pair := uow.transfers[0]
	assert.Equal(t, pair.from.TransferID, pair.to.TransferID)
	assert.Equal(t, entities.TransferDirectionFrom, pair.from.Direction)
	assert.Equal(t, entities.TransferDirectionTo, pair.to.Direction)
	assert.True(t, pair.from.MatterID.Equals(source.ID()))
	assert.True(t, pair.from.CounterpartMatterID.Equals(dest.ID()))
	assert.True(t, pair.to.MatterID.Equals(dest.ID()))
	assert.True(t, pair.to.CounterpartMatterID.Equals(source.ID()))
	assert.Equal(t, "complaint.pdf", pair.from.FileName)

	require.Len(t, lock.acquired, 1)
	assert.Equal(t, "transfer:"+document.ID().String(), lock.acquired[0])
	assert.Equal(t, 1, lock.releases)

	assert.Empty(t, document.GetUncommittedEvents())
	assert.NotEmpty(t, uow.events)
}

func TestTransferDocumentHandler_Copy(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 3)
	dest := testMatter(t, "user-1", "M-200", 1)
	document := testDocument(t, source.ID(), "user-1", "exhibit-a.pdf")

	matterRepo := newFakeMatterRepo(source, dest)
	docRepo := newFakeDocumentRepo(document)
	uow := &fakeUnitOfWork{}
	lock := &fakeLock{}
	handler := newTransferHandler(docRepo, matterRepo, uow, lock)

	result, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "copy",
		UserID:         "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, events.TransferCopy, result.Operation)
	assert.False(t, result.CopyDocumentID.IsZero())
	assert.False(t, result.CopyDocumentID.Equals(document.ID()))

	// The original stays where it was; the copy lands in the destination.
	assert.True(t, document.MatterID().Equals(source.ID()))
	assert.Equal(t, 3, source.DocumentCount())
	assert.Equal(t, 2, dest.DocumentCount())

	require.Len(t, uow.documents, 1)
	copyDoc := uow.documents[0]
	assert.True(t, copyDoc.ID().Equals(result.CopyDocumentID))
	assert.True(t, copyDoc.MatterID().Equals(dest.ID()))
	assert.Equal(t, "exhibit-a.pdf", copyDoc.FileName().String())
	assert.Equal(t, 0, copyDoc.RevisionCount())

	require.Len(t, uow.transfers, 1)
	assert.True(t, uow.transfers[0].from.CopyDocumentID.Equals(result.CopyDocumentID))
	assert.True(t, uow.committed)
}

func TestTransferDocumentHandler_UnauthorizedUser(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 1)
	dest := testMatter(t, "someone-else", "M-200", 0)
	document := testDocument(t, source.ID(), "user-1", "memo.docx")

	uow := &fakeUnitOfWork{}
	handler := newTransferHandler(newFakeDocumentRepo(document), newFakeMatterRepo(source, dest), uow, &fakeLock{})

	_, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "move",
		UserID:         "user-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrUserNotAuthorized))
	assert.False(t, uow.begun)
	assert.True(t, document.MatterID().Equals(source.ID()))
}

func TestTransferDocumentHandler_CheckedOutDocument(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 1)
	dest := testMatter(t, "user-1", "M-200", 0)
	document := testDocument(t, source.ID(), "user-1", "brief.pdf")
	require.NoError(t, document.CheckOut("user-2"))
	document.MarkEventsAsCommitted()

	uow := &fakeUnitOfWork{}
	handler := newTransferHandler(newFakeDocumentRepo(document), newFakeMatterRepo(source, dest), uow, &fakeLock{})

	_, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "move",
		UserID:         "user-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrDocumentCheckedOut))
	assert.False(t, uow.begun)
}

func TestTransferDocumentHandler_DuplicateFileNameInDestination(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 1)
	dest := testMatter(t, "user-1", "M-200", 1)
	document := testDocument(t, source.ID(), "user-1", "Contract.PDF")
	// Name comparison is case-insensitive.
	existing := testDocument(t, dest.ID(), "user-1", "contract.pdf")

	uow := &fakeUnitOfWork{}
	handler := newTransferHandler(newFakeDocumentRepo(document, existing), newFakeMatterRepo(source, dest), uow, &fakeLock{})

	_, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "copy",
		UserID:         "user-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrDuplicateFileName))
	assert.False(t, uow.begun)
}

func TestTransferDocumentHandler_LockContention(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 1)
	dest := testMatter(t, "user-1", "M-200", 0)
	document := testDocument(t, source.ID(), "user-1", "deed.pdf")

	lock := &fakeLock{acquireErr: errors.New("lock held")}
	uow := &fakeUnitOfWork{}
	handler := newTransferHandler(newFakeDocumentRepo(document), newFakeMatterRepo(source, dest), uow, lock)

	_, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "move",
		UserID:         "user-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrTransferLocked))
	assert.False(t, uow.begun)
	assert.True(t, document.MatterID().Equals(source.ID()))
}

func TestTransferDocumentHandler_SameMatterRejected(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 1)
	document := testDocument(t, source.ID(), "user-1", "notes.txt")

	handler := newTransferHandler(newFakeDocumentRepo(document), newFakeMatterRepo(source), &fakeUnitOfWork{}, &fakeLock{})

	_, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   source.ID().String(),
		Operation:      "move",
		UserID:         "user-1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestTransferDocumentHandler_CommitFailure(t *testing.T) {
	source := testMatter(t, "user-1", "M-100", 1)
	dest := testMatter(t, "user-1", "M-200", 0)
	document := testDocument(t, source.ID(), "user-1", "filing.pdf")

	uow := &fakeUnitOfWork{commitErr: errors.New("transaction conflict")}
	lock := &fakeLock{}
	handler := newTransferHandler(newFakeDocumentRepo(document), newFakeMatterRepo(source, dest), uow, lock)

	_, err := handler.Handle(context.Background(), &commands.TransferDocumentCommand{
		DocumentID:     document.ID().String(),
		SourceMatterID: source.ID().String(),
		DestMatterID:   dest.ID().String(),
		Operation:      "move",
		UserID:         "user-1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transfer")
	// Events stay uncommitted so a retry can replay them.
	assert.NotEmpty(t, document.GetUncommittedEvents())
	assert.Equal(t, 1, lock.releases)
}
