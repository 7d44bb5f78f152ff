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
)

func newDocumentLifecycleHandler(
	documentRepo *fakeDocumentRepo,
	matterRepo *fakeMatterRepo,
	auditStore *fakeAuditStore,
	eventStore *fakeEventStore,
) *DocumentLifecycleHandler {
	return NewDocumentLifecycleHandler(
		documentRepo, matterRepo, auditStore, eventStore,
		config.DefaultDomainConfig(), zap.NewNop(),
	)
}

func TestDocumentLifecycleHandler_DeleteAndRestore(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	document := testDocument(t, matter.ID(), "user-1", "brief.pdf")
	documentRepo := newFakeDocumentRepo(document)
	auditStore := &fakeAuditStore{}
	handler := newDocumentLifecycleHandler(documentRepo, newFakeMatterRepo(matter), auditStore, &fakeEventStore{})

	err := handler.Handle(context.Background(), &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-1",
		Action:     commands.DocumentActionDelete,
	})

	require.NoError(t, err)
	assert.True(t, document.IsDeleted())
	require.Len(t, auditStore.documentActivity, 1)
	assert.Equal(t, entities.DocumentActivityDeleted, auditStore.documentActivity[0].Activity)

	err = handler.Handle(context.Background(), &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-1",
		Action:     commands.DocumentActionRestore,
	})

	require.NoError(t, err)
	assert.False(t, document.IsDeleted())
	require.Len(t, auditStore.documentActivity, 2)
	assert.Equal(t, entities.DocumentActivityRestored, auditStore.documentActivity[1].Activity)
	assert.Equal(t, 2, documentRepo.saves)
}

func TestDocumentLifecycleHandler_DeleteCheckedOutRejected(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	document := testDocument(t, matter.ID(), "user-1", "brief.pdf")
	require.NoError(t, document.CheckOut("user-1"))
	document.MarkEventsAsCommitted()
	documentRepo := newFakeDocumentRepo(document)
	handler := newDocumentLifecycleHandler(documentRepo, newFakeMatterRepo(matter), &fakeAuditStore{}, &fakeEventStore{})

	err := handler.Handle(context.Background(), &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-1",
		Action:     commands.DocumentActionDelete,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.False(t, document.IsDeleted())
	assert.Equal(t, 0, documentRepo.saves)
}

func TestDocumentLifecycleHandler_WrongOwner(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	document := testDocument(t, matter.ID(), "user-1", "brief.pdf")
	handler := newDocumentLifecycleHandler(newFakeDocumentRepo(document), newFakeMatterRepo(matter), &fakeAuditStore{}, &fakeEventStore{})

	err := handler.Handle(context.Background(), &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-2",
		Action:     commands.DocumentActionDelete,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotAuthorized)
	assert.False(t, document.IsDeleted())
}

func TestDocumentLifecycleHandler_UnknownActionRejected(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	document := testDocument(t, matter.ID(), "user-1", "brief.pdf")
	documentRepo := newFakeDocumentRepo(document)
	handler := newDocumentLifecycleHandler(documentRepo, newFakeMatterRepo(matter), &fakeAuditStore{}, &fakeEventStore{})

	cmd := &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-1",
		Action:     "purge",
	}

	require.Error(t, cmd.Validate())

	err := handler.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document action")
	assert.Equal(t, 0, documentRepo.saves)
}

func TestDocumentLifecycleHandler_ArchivedMatterRejected(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	require.NoError(t, matter.Archive())
	matter.MarkEventsAsCommitted()
	document := testDocument(t, matter.ID(), "user-1", "brief.pdf")
	documentRepo := newFakeDocumentRepo(document)
	handler := newDocumentLifecycleHandler(documentRepo, newFakeMatterRepo(matter), &fakeAuditStore{}, &fakeEventStore{})

	err := handler.Handle(context.Background(), &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-1",
		Action:     commands.DocumentActionDelete,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrMatterArchived)
	assert.False(t, document.IsDeleted())
	assert.Equal(t, 0, documentRepo.saves)
}

func TestDocumentLifecycleHandler_DeletedMatterRejected(t *testing.T) {
	matter := testMatter(t, "user-1", "2026-0001", 1)
	require.NoError(t, matter.SoftDelete())
	matter.MarkEventsAsCommitted()
	document := testDocument(t, matter.ID(), "user-1", "brief.pdf")
	documentRepo := newFakeDocumentRepo(document)
	handler := newDocumentLifecycleHandler(documentRepo, newFakeMatterRepo(matter), &fakeAuditStore{}, &fakeEventStore{})

	err := handler.Handle(context.Background(), &commands.ChangeDocumentStateCommand{
		DocumentID: document.ID().String(),
		UserID:     "user-1",
		Action:     commands.DocumentActionRestore,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrMatterDeleted)
	assert.Equal(t, 0, documentRepo.saves)
}
