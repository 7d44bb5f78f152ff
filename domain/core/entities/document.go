package entities

import (
	"fmt"
	"time"

	"lexmatter/domain/config"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

// Document is a file stored under a matter. Its binary content lives in blob
// storage; the entity tracks metadata, the checkout lease, and the revision
// counter that assigns sequential revision numbers.
type Document struct {
	id            valueobjects.DocumentID
	matterID      valueobjects.MatterID
	userID        string
	fileName      valueobjects.FileName
	fileSize      int64
	checksum      valueobjects.Checksum
	mimeType      string
	isCheckedOut  bool
	checkedOutBy  string
	isDeleted     bool
	revisionCount int
	createdAt     time.Time
	updatedAt     time.Time
	version       int

	// movedFrom holds the source matter of a move that has not been
	// persisted yet, so storage can relocate the record.
	movedFrom valueobjects.MatterID

	events []events.DomainEvent
}

// NewDocument creates a new document filed under the given matter
func NewDocument(matterID valueobjects.MatterID, userID string, fileName valueobjects.FileName, fileSize int64, checksum valueobjects.Checksum, mimeType string) (*Document, error) {
	return NewDocumentWithConfig(matterID, userID, fileName, fileSize, checksum, mimeType, config.DefaultDomainConfig())
}

// NewDocumentWithConfig creates a new document with validation and configuration
func NewDocumentWithConfig(matterID valueobjects.MatterID, userID string, fileName valueobjects.FileName, fileSize int64, checksum valueobjects.Checksum, mimeType string, cfg *config.DomainConfig) (*Document, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if matterID.IsZero() {
		return nil, pkgerrors.NewValidationError("matterID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if fileName.IsZero() {
		return nil, pkgerrors.NewValidationError("file name cannot be empty")
	}
	if err := validateFileSize(fileSize, cfg); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &Document{
		id:        valueobjects.NewDocumentID(),
		matterID:  matterID,
		userID:    userID,
		fileName:  fileName,
		fileSize:  fileSize,
		checksum:  checksum,
		mimeType:  mimeType,
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}

	doc.addEvent(events.NewDocumentCreated(doc.id, matterID, userID, fileName.String(), now))

	return doc, nil
}

// ReconstructDocument rebuilds a document from repository data
func ReconstructDocument(
	id valueobjects.DocumentID,
	matterID valueobjects.MatterID,
	userID string,
	fileName valueobjects.FileName,
	fileSize int64,
	checksum valueobjects.Checksum,
	mimeType string,
	isCheckedOut bool,
	checkedOutBy string,
	isDeleted bool,
	revisionCount int,
	createdAt, updatedAt time.Time,
	version int,
) (*Document, error) {
	if matterID.IsZero() {
		return nil, pkgerrors.NewValidationError("matterID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	return &Document{
		id:            id,
		matterID:      matterID,
		userID:        userID,
		fileName:      fileName,
		fileSize:      fileSize,
		checksum:      checksum,
		mimeType:      mimeType,
		isCheckedOut:  isCheckedOut,
		checkedOutBy:  checkedOutBy,
		isDeleted:     isDeleted,
		revisionCount: revisionCount,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		events:        []events.DomainEvent{},
	}, nil
}

// ID returns the document's unique identifier
func (d *Document) ID() valueobjects.DocumentID {
	return d.id
}

// MatterID returns the matter the document is currently filed under
func (d *Document) MatterID() valueobjects.MatterID {
	return d.matterID
}

// UserID returns the ID of the user who created the document
func (d *Document) UserID() string {
	return d.userID
}

// FileName returns the document's file name
func (d *Document) FileName() valueobjects.FileName {
	return d.fileName
}

// FileSize returns the size of the current content in bytes
func (d *Document) FileSize() int64 {
	return d.fileSize
}

// Checksum returns the SHA-256 checksum of the current content
func (d *Document) Checksum() valueobjects.Checksum {
	return d.checksum
}

// MimeType returns the document's MIME type
func (d *Document) MimeType() string {
	return d.mimeType
}

// IsCheckedOut reports whether the document is checked out for editing
func (d *Document) IsCheckedOut() bool {
	return d.isCheckedOut
}

// CheckedOutBy returns the ID of the user holding the checkout, if any
func (d *Document) CheckedOutBy() string {
	return d.checkedOutBy
}

// IsDeleted reports whether the document is soft-deleted
func (d *Document) IsDeleted() bool {
	return d.isDeleted
}

// RevisionCount returns the number of revisions created so far
func (d *Document) RevisionCount() int {
	return d.revisionCount
}

// Version returns the document's version for optimistic locking
func (d *Document) Version() int {
	return d.version
}

// CreatedAt returns when the document was created
func (d *Document) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the document was last updated
func (d *Document) UpdatedAt() time.Time {
	return d.updatedAt
}

// Rename changes the document's file name
func (d *Document) Rename(fileName valueobjects.FileName) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if fileName.IsZero() {
		return pkgerrors.NewValidationError("file name cannot be empty")
	}

	d.fileName = fileName
	d.touch()

	d.addEvent(events.NewDocumentUpdated(d.id, d.matterID, d.userID, d.updatedAt))

	return nil
}

// CheckOut grants the user an exclusive editing lease on the document
func (d *Document) CheckOut(userID string) error {
	if userID == "" {
		return pkgerrors.NewValidationError("userID cannot be empty")
	}
	if d.isDeleted {
		return pkgerrors.NewValidationError("cannot check out a deleted document")
	}
	if d.isCheckedOut {
		if d.checkedOutBy == userID {
			return nil // Already held by this user
		}
		return pkgerrors.NewConflictError("document is checked out by another user")
	}

	d.isCheckedOut = true
	d.checkedOutBy = userID
	d.touch()

	d.addEvent(events.NewDocumentCheckedOut(d.id, d.matterID, userID, d.updatedAt))

	return nil
}

// CheckIn releases the checkout and records the edited content as the next
// sequential revision. Only the user holding the checkout may check in.
func (d *Document) CheckIn(userID string, fileSize int64, checksum valueobjects.Checksum) (*Revision, error) {
	return d.CheckInWithConfig(userID, fileSize, checksum, config.DefaultDomainConfig())
}

// CheckInWithConfig releases the checkout with explicit configuration
func (d *Document) CheckInWithConfig(userID string, fileSize int64, checksum valueobjects.Checksum, cfg *config.DomainConfig) (*Revision, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if d.isDeleted {
		return nil, pkgerrors.NewValidationError("cannot check in a deleted document")
	}
	if !d.isCheckedOut {
		return nil, pkgerrors.NewConflictError("document is not checked out")
	}
	if d.checkedOutBy != userID {
		return nil, pkgerrors.NewForbiddenError("document is checked out by another user")
	}
	if err := validateFileSize(fileSize, cfg); err != nil {
		return nil, err
	}
	if d.revisionCount >= cfg.MaxRevisionsPerDocument {
		return nil, pkgerrors.NewConflictError(fmt.Sprintf("document has reached its revision limit of %d", cfg.MaxRevisionsPerDocument))
	}

	d.revisionCount++
	revision, err := NewRevision(d.id, d.revisionCount, userID, fileSize, checksum)
	if err != nil {
		d.revisionCount--
		return nil, err
	}

	d.fileSize = fileSize
	d.checksum = checksum
	d.isCheckedOut = false
	d.checkedOutBy = ""
	d.touch()

	d.addEvent(events.NewDocumentCheckedIn(d.id, d.matterID, userID, revision.ID(), revision.Number(), d.updatedAt))

	return revision, nil
}

// CancelCheckOut releases the checkout without creating a revision
func (d *Document) CancelCheckOut(userID string) error {
	if !d.isCheckedOut {
		return pkgerrors.NewConflictError("document is not checked out")
	}
	if d.checkedOutBy != userID {
		return pkgerrors.NewForbiddenError("document is checked out by another user")
	}

	d.isCheckedOut = false
	d.checkedOutBy = ""
	d.touch()

	return nil
}

// SoftDelete hides the document from default listings. Checked-out documents
// cannot be deleted; the lease must be released first.
func (d *Document) SoftDelete(userID string) error {
	if d.isDeleted {
		return nil // Already deleted
	}
	if d.isCheckedOut {
		return pkgerrors.NewConflictError("cannot delete a checked-out document")
	}

	d.isDeleted = true
	d.touch()

	d.addEvent(events.NewDocumentDeleted(d.id, d.matterID, userID, d.updatedAt))

	return nil
}

// Restore un-deletes the document
func (d *Document) Restore(userID string) error {
	if !d.isDeleted {
		return pkgerrors.NewValidationError("document is not deleted")
	}

	d.isDeleted = false
	d.touch()

	d.addEvent(events.NewDocumentRestored(d.id, d.matterID, userID, d.updatedAt))

	return nil
}

// MoveToMatter re-homes the document under the destination matter. The
// document keeps its identity, revisions and metadata.
func (d *Document) MoveToMatter(destMatterID valueobjects.MatterID, userID string) error {
	if destMatterID.IsZero() {
		return pkgerrors.NewValidationError("destination matterID cannot be empty")
	}
	if d.isDeleted {
		return pkgerrors.NewValidationError("cannot transfer a deleted document")
	}
	if d.isCheckedOut {
		return pkgerrors.NewConflictError("cannot transfer a checked-out document")
	}
	if d.matterID.Equals(destMatterID) {
		return pkgerrors.NewValidationError("source and destination matters are the same")
	}

	sourceMatterID := d.matterID
	d.matterID = destMatterID
	d.movedFrom = sourceMatterID
	d.touch()

	d.addEvent(events.NewDocumentTransferred(d.id, sourceMatterID, destMatterID, events.TransferMove, userID, valueobjects.DocumentID{}, d.updatedAt))

	return nil
}

// CopyToMatter creates an independent copy of the document under the
// destination matter. The copy gets a fresh identity and an empty revision
// history; only the current content metadata carries over.
func (d *Document) CopyToMatter(destMatterID valueobjects.MatterID, userID string) (*Document, error) {
	if destMatterID.IsZero() {
		return nil, pkgerrors.NewValidationError("destination matterID cannot be empty")
	}
	if d.isDeleted {
		return nil, pkgerrors.NewValidationError("cannot transfer a deleted document")
	}
	if d.isCheckedOut {
		return nil, pkgerrors.NewConflictError("cannot transfer a checked-out document")
	}
	if d.matterID.Equals(destMatterID) {
		return nil, pkgerrors.NewValidationError("source and destination matters are the same")
	}

	now := time.Now()
	copyDoc := &Document{
		id:        valueobjects.NewDocumentID(),
		matterID:  destMatterID,
		userID:    userID,
		fileName:  d.fileName,
		fileSize:  d.fileSize,
		checksum:  d.checksum,
		mimeType:  d.mimeType,
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}
	copyDoc.addEvent(events.NewDocumentCreated(copyDoc.id, destMatterID, userID, d.fileName.String(), now))

	d.addEvent(events.NewDocumentTransferred(d.id, d.matterID, destMatterID, events.TransferCopy, userID, copyDoc.id, now))

	return copyDoc, nil
}

// MovedFrom returns the source matter of an unpersisted move, or the zero
// MatterID when the document has not been moved since it was loaded
func (d *Document) MovedFrom() valueobjects.MatterID {
	return d.movedFrom
}

// MarkMoveAsPersisted clears the pending-move marker after storage has
// relocated the record
func (d *Document) MarkMoveAsPersisted() {
	d.movedFrom = valueobjects.MatterID{}
}

// GetUncommittedEvents returns all uncommitted domain events
func (d *Document) GetUncommittedEvents() []events.DomainEvent {
	return d.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (d *Document) MarkEventsAsCommitted() {
	d.events = []events.DomainEvent{}
}

func (d *Document) ensureMutable() error {
	if d.isDeleted {
		return pkgerrors.NewValidationError("cannot modify a deleted document")
	}
	return nil
}

func (d *Document) touch() {
	d.updatedAt = time.Now()
	d.version++
}

func (d *Document) addEvent(event events.DomainEvent) {
	d.events = append(d.events, event)
}

func validateFileSize(fileSize int64, cfg *config.DomainConfig) error {
	if fileSize < 0 {
		return pkgerrors.NewValidationError("file size cannot be negative")
	}
	if fileSize > cfg.MaxFileSizeBytes {
		return fmt.Errorf("file size exceeds maximum of %d bytes", cfg.MaxFileSizeBytes)
	}
	return nil
}
