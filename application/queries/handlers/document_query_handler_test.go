package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/application/queries"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

type stubDocumentRepo struct {
	documents map[string]*entities.Document
}

func newStubDocumentRepo(documents ...*entities.Document) *stubDocumentRepo {
	repo := &stubDocumentRepo{documents: make(map[string]*entities.Document)}
	for _, d := range documents {
		repo.documents[d.ID().String()] = d
	}
	return repo
}

func (r *stubDocumentRepo) Save(_ context.Context, document *entities.Document) error {
	r.documents[document.ID().String()] = document
	return nil
}

func (r *stubDocumentRepo) GetByID(_ context.Context, id valueobjects.DocumentID) (*entities.Document, error) {
	document, ok := r.documents[id.String()]
	if !ok {
		return nil, pkgerrors.ErrDocumentNotFound
	}
	return document, nil
}

func (r *stubDocumentRepo) GetByMatterID(_ context.Context, matterID valueobjects.MatterID, filter ports.ListFilter) ([]*entities.Document, error) {
	var result []*entities.Document
	for _, document := range r.documents {
		if !document.MatterID().Equals(matterID) {
			continue
		}
		if document.IsDeleted() && !filter.IncludeDeleted {
			continue
		}
		result = append(result, document)
	}
	return result, nil
}

func (r *stubDocumentRepo) FileNamesByMatterID(_ context.Context, matterID valueobjects.MatterID) ([]string, error) {
	var names []string
	for _, document := range r.documents {
		if document.MatterID().Equals(matterID) && !document.IsDeleted() {
			names = append(names, document.FileName().String())
		}
	}
	return names, nil
}

func (r *stubDocumentRepo) CountCheckedOut(_ context.Context, matterID valueobjects.MatterID) (int, error) {
	count := 0
	for _, document := range r.documents {
		if document.MatterID().Equals(matterID) && document.IsCheckedOut() {
			count++
		}
	}
	return count, nil
}

func (r *stubDocumentRepo) Delete(_ context.Context, id valueobjects.DocumentID) error {
	delete(r.documents, id.String())
	return nil
}

type stubRevisionRepo struct {
	revisions []*entities.Revision
}

func (r *stubRevisionRepo) Save(_ context.Context, revision *entities.Revision) error {
	r.revisions = append(r.revisions, revision)
	return nil
}

func (r *stubRevisionRepo) GetByNumber(_ context.Context, documentID valueobjects.DocumentID, number int) (*entities.Revision, error) {
	for _, revision := range r.revisions {
		if revision.DocumentID().Equals(documentID) && revision.Number() == number {
			return revision, nil
		}
	}
	return nil, pkgerrors.ErrRevisionNotFound
}

func (r *stubRevisionRepo) GetByDocumentID(_ context.Context, documentID valueobjects.DocumentID) ([]*entities.Revision, error) {
	var result []*entities.Revision
	for _, revision := range r.revisions {
		if revision.DocumentID().Equals(documentID) {
			result = append(result, revision)
		}
	}
	return result, nil
}

func queryDocument(t *testing.T, matterID valueobjects.MatterID, userID, fileName string) *entities.Document {
	t.Helper()
	name, err := valueobjects.NewFileName(fileName)
	require.NoError(t, err)
	now := time.Now()
	document, err := entities.ReconstructDocument(
		valueobjects.NewDocumentID(), matterID, userID, name,
		1024, valueobjects.ComputeChecksum([]byte(fileName)), "application/pdf",
		false, "", false, 0, now, now, 1,
	)
	require.NoError(t, err)
	return document
}

func queryRevision(documentID valueobjects.DocumentID, number int, createdBy string) *entities.Revision {
	return entities.ReconstructRevision(
		valueobjects.NewRevisionID(), documentID, number, createdBy,
		2048, valueobjects.ComputeChecksum([]byte{byte(number)}), false, time.Now(),
	)
}

func newDocumentQueryHandler(documentRepo *stubDocumentRepo, matterRepo *stubMatterRepo, revisionRepo *stubRevisionRepo) *DocumentQueryHandler {
	return NewDocumentQueryHandler(documentRepo, matterRepo, revisionRepo, zap.NewNop())
}

func TestDocumentQueryHandler_GetDocument(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	document := queryDocument(t, matter.ID(), "user-1", "brief.pdf")
	handler := newDocumentQueryHandler(newStubDocumentRepo(document), newStubMatterRepo(matter), &stubRevisionRepo{})

	result, err := handler.Handle(context.Background(), queries.GetDocumentQuery{
		UserID:     "user-1",
		DocumentID: document.ID().String(),
	})

	require.NoError(t, err)
	got, ok := result.(*queries.DocumentResult)
	require.True(t, ok)
	assert.Equal(t, document.ID().String(), got.ID)
	assert.Equal(t, "brief.pdf", got.FileName)
	assert.Equal(t, matter.ID().String(), got.MatterID)
}

func TestDocumentQueryHandler_GetDocument_WrongOwner(t *testing.T) {
	matter := queryMatter(t, "someone-else", "M-100", false)
	document := queryDocument(t, matter.ID(), "someone-else", "brief.pdf")
	handler := newDocumentQueryHandler(newStubDocumentRepo(document), newStubMatterRepo(matter), &stubRevisionRepo{})

	_, err := handler.Handle(context.Background(), queries.GetDocumentQuery{
		UserID:     "user-1",
		DocumentID: document.ID().String(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotAuthorized)
}

func TestDocumentQueryHandler_ListDocuments_ExcludesDeletedByDefault(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	active := queryDocument(t, matter.ID(), "user-1", "active.pdf")
	deleted := queryDocument(t, matter.ID(), "user-1", "deleted.pdf")
	require.NoError(t, deleted.SoftDelete("user-1"))
	handler := newDocumentQueryHandler(newStubDocumentRepo(active, deleted), newStubMatterRepo(matter), &stubRevisionRepo{})

	result, err := handler.Handle(context.Background(), queries.ListDocumentsQuery{
		UserID:   "user-1",
		MatterID: matter.ID().String(),
		Page:     1,
		PageSize: 20,
	})

	require.NoError(t, err)
	got, ok := result.(*queries.ListDocumentsResult)
	require.True(t, ok)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "active.pdf", got.Documents[0].FileName)
	assert.Equal(t, 1, got.TotalCount)
}

func TestDocumentQueryHandler_ListDocuments_Pagination(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	repo := newStubDocumentRepo()
	for i := 0; i < 7; i++ {
		document := queryDocument(t, matter.ID(), "user-1", fmt.Sprintf("doc-%d.pdf", i))
		repo.documents[document.ID().String()] = document
	}
	handler := newDocumentQueryHandler(repo, newStubMatterRepo(matter), &stubRevisionRepo{})

	result, err := handler.Handle(context.Background(), queries.ListDocumentsQuery{
		UserID:   "user-1",
		MatterID: matter.ID().String(),
		Page:     2,
		PageSize: 5,
	})

	require.NoError(t, err)
	got, ok := result.(*queries.ListDocumentsResult)
	require.True(t, ok)
	assert.Len(t, got.Documents, 2)
	assert.Equal(t, 7, got.TotalCount)
	assert.Equal(t, 2, got.Page)
}

func TestDocumentQueryHandler_ListRevisions(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	document := queryDocument(t, matter.ID(), "user-1", "brief.pdf")
	revisionRepo := &stubRevisionRepo{revisions: []*entities.Revision{
		queryRevision(document.ID(), 1, "user-1"),
		queryRevision(document.ID(), 2, "user-1"),
	}}
	handler := newDocumentQueryHandler(newStubDocumentRepo(document), newStubMatterRepo(matter), revisionRepo)

	result, err := handler.Handle(context.Background(), queries.ListRevisionsQuery{
		UserID:     "user-1",
		DocumentID: document.ID().String(),
	})

	require.NoError(t, err)
	got, ok := result.(*queries.ListRevisionsResult)
	require.True(t, ok)
	require.Len(t, got.Revisions, 2)
	assert.Equal(t, 1, got.Revisions[0].Number)
	assert.Equal(t, 2, got.Revisions[1].Number)
}

func TestDocumentQueryHandler_NotFound(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	handler := newDocumentQueryHandler(newStubDocumentRepo(), newStubMatterRepo(matter), &stubRevisionRepo{})

	_, err := handler.Handle(context.Background(), queries.GetDocumentQuery{
		UserID:     "user-1",
		DocumentID: "4a6e1f8e-9a52-4b7c-9d2e-0f3a8b1c5d7e",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
