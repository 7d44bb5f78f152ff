package queries

import (
	"errors"

	"lexmatter/domain/core/entities"
	"lexmatter/pkg/utils"
)

// GetMatterQuery represents a query to get a single matter
type GetMatterQuery struct {
	UserID   string
	MatterID string
}

// Validate validates the GetMatterQuery
func (q GetMatterQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.MatterID == "" {
		return errors.New("matter ID is required")
	}
	return nil
}

// ListMattersQuery represents a query to list a user's matters
type ListMattersQuery struct {
	UserID          string
	Query           string
	IncludeArchived bool
	IncludeDeleted  bool
	Page            int
	PageSize        int
	SortBy          string
	SortDesc        bool
}

// Validate validates the ListMattersQuery
func (q ListMattersQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Page < 1 {
		return errors.New("page must be positive")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// MatterResult represents a matter in query responses
type MatterResult struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Number        string `json:"number"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	IsArchived    bool   `json:"isArchived"`
	IsDeleted     bool   `json:"isDeleted"`
	DocumentCount int    `json:"documentCount"`
	Version       int    `json:"version"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ListMattersResult represents a page of matters
type ListMattersResult struct {
	Matters    []MatterResult `json:"matters"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
}

// NewMatterResult maps a matter entity to its read model
func NewMatterResult(matter *entities.Matter) MatterResult {
	return MatterResult{
		ID:            matter.ID().String(),
		UserID:        matter.UserID(),
		Number:        matter.Number(),
		Title:         matter.Title(),
		Description:   matter.Description(),
		ClientName:    matter.ClientName(),
		IsArchived:    matter.IsArchived(),
		IsDeleted:     matter.IsDeleted(),
		DocumentCount: matter.DocumentCount(),
		Version:       matter.Version(),
		CreatedAt:     utils.FormatRFC3339(matter.CreatedAt()),
		UpdatedAt:     utils.FormatRFC3339(matter.UpdatedAt()),
	}
}
