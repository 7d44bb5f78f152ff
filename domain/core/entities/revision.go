package entities

import (
	"time"

	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

// Revision is an immutable snapshot of a document's content at check-in.
// Revision numbers are sequential per document, starting at 1, and never
// reused. Revisions are append-only: content fields never change after
// creation, only the soft-delete flag does.
type Revision struct {
	id         valueobjects.RevisionID
	documentID valueobjects.DocumentID
	number     int
	createdBy  string
	fileSize   int64
	checksum   valueobjects.Checksum
	isDeleted  bool
	createdAt  time.Time
}

// NewRevision creates a revision. Callers are expected to pass the next
// sequential number for the document; Document.CheckIn does this.
func NewRevision(documentID valueobjects.DocumentID, number int, createdBy string, fileSize int64, checksum valueobjects.Checksum) (*Revision, error) {
	if documentID.IsZero() {
		return nil, pkgerrors.NewValidationError("documentID cannot be empty")
	}
	if number < 1 {
		return nil, pkgerrors.NewValidationError("revision number must be positive")
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}
	if fileSize < 0 {
		return nil, pkgerrors.NewValidationError("file size cannot be negative")
	}

	return &Revision{
		id:         valueobjects.NewRevisionID(),
		documentID: documentID,
		number:     number,
		createdBy:  createdBy,
		fileSize:   fileSize,
		checksum:   checksum,
		createdAt:  time.Now(),
	}, nil
}

// ReconstructRevision rebuilds a revision from repository data
func ReconstructRevision(
	id valueobjects.RevisionID,
	documentID valueobjects.DocumentID,
	number int,
	createdBy string,
	fileSize int64,
	checksum valueobjects.Checksum,
	isDeleted bool,
	createdAt time.Time,
) *Revision {
	return &Revision{
		id:         id,
		documentID: documentID,
		number:     number,
		createdBy:  createdBy,
		fileSize:   fileSize,
		checksum:   checksum,
		isDeleted:  isDeleted,
		createdAt:  createdAt,
	}
}

// ID returns the revision's unique identifier
func (r *Revision) ID() valueobjects.RevisionID {
	return r.id
}

// DocumentID returns the document the revision belongs to
func (r *Revision) DocumentID() valueobjects.DocumentID {
	return r.documentID
}

// Number returns the sequential revision number
func (r *Revision) Number() int {
	return r.number
}

// CreatedBy returns the ID of the user who checked in the revision
func (r *Revision) CreatedBy() string {
	return r.createdBy
}

// FileSize returns the size of the revision content in bytes
func (r *Revision) FileSize() int64 {
	return r.fileSize
}

// Checksum returns the SHA-256 checksum of the revision content
func (r *Revision) Checksum() valueobjects.Checksum {
	return r.checksum
}

// IsDeleted reports whether the revision is soft-deleted
func (r *Revision) IsDeleted() bool {
	return r.isDeleted
}

// CreatedAt returns when the revision was checked in
func (r *Revision) CreatedAt() time.Time {
	return r.createdAt
}

// SoftDelete hides the revision from default listings
func (r *Revision) SoftDelete() {
	r.isDeleted = true
}

// Restore un-deletes the revision
func (r *Revision) Restore() error {
	if !r.isDeleted {
		return pkgerrors.NewValidationError("revision is not deleted")
	}
	r.isDeleted = false
	return nil
}
