package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/application/queries"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

type stubAuditStore struct {
	matterActivity   []*entities.MatterActivityRecord
	documentActivity []*entities.DocumentActivityRecord
	transfers        []*entities.TransferRecord
}

func (s *stubAuditStore) AppendMatterActivity(_ context.Context, record *entities.MatterActivityRecord) error {
	s.matterActivity = append(s.matterActivity, record)
	return nil
}

func (s *stubAuditStore) AppendDocumentActivity(_ context.Context, record *entities.DocumentActivityRecord) error {
	s.documentActivity = append(s.documentActivity, record)
	return nil
}

func (s *stubAuditStore) AppendTransferRecords(_ context.Context, from, to *entities.TransferRecord) error {
	s.transfers = append(s.transfers, from, to)
	return nil
}

func (s *stubAuditStore) MatterActivity(_ context.Context, matterID valueobjects.MatterID, _ ports.ListFilter) ([]*entities.MatterActivityRecord, error) {
	var result []*entities.MatterActivityRecord
	for _, record := range s.matterActivity {
		if record.MatterID.Equals(matterID) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *stubAuditStore) DocumentActivity(_ context.Context, documentID valueobjects.DocumentID, _ ports.ListFilter) ([]*entities.DocumentActivityRecord, error) {
	var result []*entities.DocumentActivityRecord
	for _, record := range s.documentActivity {
		if record.DocumentID.Equals(documentID) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *stubAuditStore) TransfersByMatter(_ context.Context, matterID valueobjects.MatterID, direction entities.TransferDirection, _ ports.ListFilter) ([]*entities.TransferRecord, error) {
	var result []*entities.TransferRecord
	for _, record := range s.transfers {
		if record.MatterID.Equals(matterID) && (direction == "" || record.Direction == direction) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *stubAuditStore) TransfersByDocument(_ context.Context, documentID valueobjects.DocumentID, _ ports.ListFilter) ([]*entities.TransferRecord, error) {
	var result []*entities.TransferRecord
	for _, record := range s.transfers {
		if record.DocumentID.Equals(documentID) {
			result = append(result, record)
		}
	}
	return result, nil
}

func newAuditQueryHandler(store *stubAuditStore, matterRepo *stubMatterRepo, documentRepo *stubDocumentRepo) *AuditQueryHandler {
	return NewAuditQueryHandler(store, matterRepo, documentRepo, zap.NewNop())
}

func TestAuditQueryHandler_MatterAudit(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	created, err := entities.NewMatterActivityRecord(matter.ID(), "user-1", entities.MatterActivityCreated, time.Now())
	require.NoError(t, err)
	archived, err := entities.NewMatterActivityRecord(matter.ID(), "user-1", entities.MatterActivityArchived, time.Now())
	require.NoError(t, err)
	store := &stubAuditStore{matterActivity: []*entities.MatterActivityRecord{created, archived}}
	handler := newAuditQueryHandler(store, newStubMatterRepo(matter), newStubDocumentRepo())

	result, err := handler.Handle(context.Background(), queries.MatterAuditQuery{
		UserID:   "user-1",
		MatterID: matter.ID().String(),
		Page:     1,
		PageSize: 20,
	})

	require.NoError(t, err)
	got, ok := result.(*queries.ActivityTrailResult)
	require.True(t, ok)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, string(entities.MatterActivityCreated), got.Entries[0].Activity)
	assert.Equal(t, string(entities.MatterActivityArchived), got.Entries[1].Activity)
	assert.NotEmpty(t, got.Entries[0].OccurredAt)
}

func TestAuditQueryHandler_DocumentAudit(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	document := queryDocument(t, matter.ID(), "user-1", "brief.pdf")
	record, err := entities.NewDocumentActivityRecord(document.ID(), matter.ID(), "user-1", entities.DocumentActivityCheckedOut, time.Now())
	require.NoError(t, err)
	store := &stubAuditStore{documentActivity: []*entities.DocumentActivityRecord{record}}
	handler := newAuditQueryHandler(store, newStubMatterRepo(matter), newStubDocumentRepo(document))

	result, err := handler.Handle(context.Background(), queries.DocumentAuditQuery{
		UserID:     "user-1",
		DocumentID: document.ID().String(),
		Page:       1,
		PageSize:   20,
	})

	require.NoError(t, err)
	got, ok := result.(*queries.ActivityTrailResult)
	require.True(t, ok)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, string(entities.DocumentActivityCheckedOut), got.Entries[0].Activity)
	assert.Equal(t, document.ID().String(), got.Entries[0].DocumentID)
}

func TestAuditQueryHandler_MatterTransfers_FilterByDirection(t *testing.T) {
	source := queryMatter(t, "user-1", "M-100", false)
	dest := queryMatter(t, "user-1", "M-200", false)
	document := queryDocument(t, source.ID(), "user-1", "brief.pdf")

	from, to, err := entities.NewTransferRecordPair(
		document.ID(), valueobjects.DocumentID{}, source.ID(), dest.ID(),
		events.TransferMove, "brief.pdf", "user-1", time.Now(),
	)
	require.NoError(t, err)
	store := &stubAuditStore{transfers: []*entities.TransferRecord{from, to}}
	handler := newAuditQueryHandler(store, newStubMatterRepo(source, dest), newStubDocumentRepo(document))

	result, err := handler.Handle(context.Background(), queries.MatterTransfersQuery{
		UserID:    "user-1",
		MatterID:  source.ID().String(),
		Direction: string(entities.TransferDirectionFrom),
		Page:      1,
		PageSize:  20,
	})

	require.NoError(t, err)
	got, ok := result.(*queries.TransferHistoryResult)
	require.True(t, ok)
	require.Len(t, got.Transfers, 1)
	assert.Equal(t, string(entities.TransferDirectionFrom), got.Transfers[0].Direction)
	assert.Equal(t, dest.ID().String(), got.Transfers[0].CounterpartMatterID)
	assert.Equal(t, from.TransferID, got.Transfers[0].TransferID)
}

func TestAuditQueryHandler_DocumentTransfers(t *testing.T) {
	source := queryMatter(t, "user-1", "M-100", false)
	dest := queryMatter(t, "user-1", "M-200", false)
	document := queryDocument(t, source.ID(), "user-1", "brief.pdf")

	from, to, err := entities.NewTransferRecordPair(
		document.ID(), valueobjects.DocumentID{}, source.ID(), dest.ID(),
		events.TransferMove, "brief.pdf", "user-1", time.Now(),
	)
	require.NoError(t, err)
	store := &stubAuditStore{transfers: []*entities.TransferRecord{from, to}}
	handler := newAuditQueryHandler(store, newStubMatterRepo(source, dest), newStubDocumentRepo(document))

	result, err := handler.Handle(context.Background(), queries.DocumentTransfersQuery{
		UserID:     "user-1",
		DocumentID: document.ID().String(),
		Page:       1,
		PageSize:   20,
	})

	require.NoError(t, err)
	got, ok := result.(*queries.TransferHistoryResult)
	require.True(t, ok)
	require.Len(t, got.Transfers, 2)
	assert.Equal(t, got.Transfers[0].TransferID, got.Transfers[1].TransferID)
}

func TestAuditQueryHandler_WrongOwner(t *testing.T) {
	matter := queryMatter(t, "someone-else", "M-100", false)
	handler := newAuditQueryHandler(&stubAuditStore{}, newStubMatterRepo(matter), newStubDocumentRepo())

	_, err := handler.Handle(context.Background(), queries.MatterAuditQuery{
		UserID:   "user-1",
		MatterID: matter.ID().String(),
		Page:     1,
		PageSize: 20,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotAuthorized)
}
