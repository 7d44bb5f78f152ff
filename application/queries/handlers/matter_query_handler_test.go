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

type stubMatterRepo struct {
	matters map[string]*entities.Matter
}

func newStubMatterRepo(matters ...*entities.Matter) *stubMatterRepo {
	repo := &stubMatterRepo{matters: make(map[string]*entities.Matter)}
	for _, m := range matters {
		repo.matters[m.ID().String()] = m
	}
	return repo
}

func (r *stubMatterRepo) Save(_ context.Context, matter *entities.Matter) error {
	r.matters[matter.ID().String()] = matter
	return nil
}

func (r *stubMatterRepo) GetByID(_ context.Context, id valueobjects.MatterID) (*entities.Matter, error) {
	matter, ok := r.matters[id.String()]
	if !ok {
		return nil, pkgerrors.ErrMatterNotFound
	}
	return matter, nil
}

func (r *stubMatterRepo) GetByNumber(_ context.Context, userID, number string) (*entities.Matter, error) {
	for _, matter := range r.matters {
		if matter.UserID() == userID && matter.Number() == number {
			return matter, nil
		}
	}
	return nil, pkgerrors.ErrMatterNotFound
}

func (r *stubMatterRepo) GetByUserID(_ context.Context, userID string, filter ports.ListFilter) ([]*entities.Matter, error) {
	var result []*entities.Matter
	for _, matter := range r.matters {
		if matter.UserID() != userID {
			continue
		}
		if matter.IsDeleted() && !filter.IncludeDeleted {
			continue
		}
		if matter.IsArchived() && !filter.IncludeArchived {
			continue
		}
		result = append(result, matter)
	}
	return result, nil
}

func (r *stubMatterRepo) Delete(_ context.Context, id valueobjects.MatterID) error {
	delete(r.matters, id.String())
	return nil
}

func queryMatter(t *testing.T, userID, number string, archived bool) *entities.Matter {
	t.Helper()
	now := time.Now()
	matter, err := entities.ReconstructMatter(
		valueobjects.NewMatterID(), userID, number,
		"Matter "+number, "", "Acme Corp",
		archived, false, 0, now, now, 1,
	)
	require.NoError(t, err)
	return matter
}

func TestMatterQueryHandler_GetMatter(t *testing.T) {
	matter := queryMatter(t, "user-1", "M-100", false)
	handler := NewMatterQueryHandler(newStubMatterRepo(matter), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetMatterQuery{
		UserID:   "user-1",
		MatterID: matter.ID().String(),
	})

	require.NoError(t, err)
	got, ok := result.(*queries.MatterResult)
	require.True(t, ok)
	assert.Equal(t, matter.ID().String(), got.ID)
	assert.Equal(t, "M-100", got.Number)
	assert.Equal(t, "Acme Corp", got.ClientName)
}

func TestMatterQueryHandler_GetMatter_WrongOwner(t *testing.T) {
	matter := queryMatter(t, "someone-else", "M-100", false)
	handler := NewMatterQueryHandler(newStubMatterRepo(matter), zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetMatterQuery{
		UserID:   "user-1",
		MatterID: matter.ID().String(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotAuthorized)
}

func TestMatterQueryHandler_GetMatter_NotFound(t *testing.T) {
	handler := NewMatterQueryHandler(newStubMatterRepo(), zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetMatterQuery{
		UserID:   "user-1",
		MatterID: "4a6e1f8e-9a52-4b7c-9d2e-0f3a8b1c5d7e",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestMatterQueryHandler_ListMatters_Pagination(t *testing.T) {
	repo := newStubMatterRepo()
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Save(context.Background(), queryMatter(t, "user-1", fmt.Sprintf("M-%03d", i), false)))
	}
	handler := NewMatterQueryHandler(repo, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.ListMattersQuery{
		UserID:   "user-1",
		Page:     2,
		PageSize: 10,
	})

	require.NoError(t, err)
	page, ok := result.(*queries.ListMattersResult)
	require.True(t, ok)
	assert.Equal(t, 25, page.TotalCount)
	assert.Len(t, page.Matters, 10)
	assert.Equal(t, 2, page.Page)

	// The final page is partial.
	result, err = handler.Handle(context.Background(), queries.ListMattersQuery{
		UserID:   "user-1",
		Page:     3,
		PageSize: 10,
	})
	require.NoError(t, err)
	page = result.(*queries.ListMattersResult)
	assert.Len(t, page.Matters, 5)
}

func TestMatterQueryHandler_ListMatters_ExcludesArchivedByDefault(t *testing.T) {
	active := queryMatter(t, "user-1", "M-100", false)
	archived := queryMatter(t, "user-1", "M-200", true)
	handler := NewMatterQueryHandler(newStubMatterRepo(active, archived), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.ListMattersQuery{
		UserID:   "user-1",
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	page := result.(*queries.ListMattersResult)
	require.Len(t, page.Matters, 1)
	assert.Equal(t, "M-100", page.Matters[0].Number)

	result, err = handler.Handle(context.Background(), queries.ListMattersQuery{
		UserID:          "user-1",
		IncludeArchived: true,
		Page:            1,
		PageSize:        20,
	})
	require.NoError(t, err)
	page = result.(*queries.ListMattersResult)
	assert.Len(t, page.Matters, 2)
}

func TestMatterQueryHandler_UnexpectedQueryType(t *testing.T) {
	handler := NewMatterQueryHandler(newStubMatterRepo(), zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetDocumentQuery{})
	assert.Error(t, err)
}
