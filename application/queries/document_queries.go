package queries

import (
	"errors"

	"lexmatter/domain/core/entities"
	"lexmatter/pkg/utils"
)

// GetDocumentQuery represents a query to get a single document
type GetDocumentQuery struct {
	UserID     string
	DocumentID string
}

// Validate validates the GetDocumentQuery
func (q GetDocumentQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	return nil
}

// ListDocumentsQuery represents a query to list documents in a matter
type ListDocumentsQuery struct {
	UserID         string
	MatterID       string
	Query          string
	IncludeDeleted bool
	Page           int
	PageSize       int
	SortBy         string
	SortDesc       bool
}

// Validate validates the ListDocumentsQuery
func (q ListDocumentsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.MatterID == "" {
		return errors.New("matter ID is required")
	}
	if q.Page < 1 {
		return errors.New("page must be positive")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// ListRevisionsQuery represents a query for a document's revision history
type ListRevisionsQuery struct {
	UserID     string
	DocumentID string
}

// Validate validates the ListRevisionsQuery
func (q ListRevisionsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	return nil
}

// DocumentResult represents a document in query responses
type DocumentResult struct {
	ID            string `json:"id"`
	MatterID      string `json:"matterId"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	Checksum      string `json:"checksum,omitempty"`
	MimeType      string `json:"mimeType,omitempty"`
	IsCheckedOut  bool   `json:"isCheckedOut"`
	CheckedOutBy  string `json:"checkedOutBy,omitempty"`
	IsDeleted     bool   `json:"isDeleted"`
	RevisionCount int    `json:"revisionCount"`
	Version       int    `json:"version"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ListDocumentsResult represents a page of documents
type ListDocumentsResult struct {
	Documents  []DocumentResult `json:"documents"`
	TotalCount int              `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
}

// RevisionResult represents a revision in query responses
type RevisionResult struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	Number     int    `json:"number"`
	CreatedBy  string `json:"createdBy"`
	FileSize   int64  `json:"fileSize"`
	Checksum   string `json:"checksum,omitempty"`
	IsDeleted  bool   `json:"isDeleted"`
	CreatedAt  string `json:"createdAt"`
}

// ListRevisionsResult represents a document's revision history
type ListRevisionsResult struct {
	Revisions []RevisionResult `json:"revisions"`
}

// NewDocumentResult maps a document entity to its read model
func NewDocumentResult(document *entities.Document) DocumentResult {
	return DocumentResult{
		ID:            document.ID().String(),
		MatterID:      document.MatterID().String(),
		FileName:      document.FileName().String(),
		FileSize:      document.FileSize(),
		Checksum:      document.Checksum().String(),
		MimeType:      document.MimeType(),
		IsCheckedOut:  document.IsCheckedOut(),
		CheckedOutBy:  document.CheckedOutBy(),
		IsDeleted:     document.IsDeleted(),
		RevisionCount: document.RevisionCount(),
		Version:       document.Version(),
		CreatedAt:     utils.FormatRFC3339(document.CreatedAt()),
		UpdatedAt:     utils.FormatRFC3339(document.UpdatedAt()),
	}
}

// NewRevisionResult maps a revision entity to its read model
func NewRevisionResult(revision *entities.Revision) RevisionResult {
	return RevisionResult{
		ID:         revision.ID().String(),
		DocumentID: revision.DocumentID().String(),
		Number:     revision.Number(),
		CreatedBy:  revision.CreatedBy(),
		FileSize:   revision.FileSize(),
		Checksum:   revision.Checksum().String(),
		IsDeleted:  revision.IsDeleted(),
		CreatedAt:  utils.FormatRFC3339(revision.CreatedAt()),
	}
}
