package events

import (
	"time"

	"lexmatter/domain/core/valueobjects"
)

// Document events

// DocumentCreated is raised when a document is filed into a matter
type DocumentCreated struct {
	BaseEvent
	DocumentID valueobjects.DocumentID `json:"document_id"`
	MatterID   valueobjects.MatterID   `json:"matter_id"`
	UserID     string                  `json:"user_id"`
	FileName   string                  `json:"file_name"`
}

// NewDocumentCreated creates a DocumentCreated event
func NewDocumentCreated(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID, fileName string, timestamp time.Time) DocumentCreated {
	return DocumentCreated{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     userID,
		FileName:   fileName,
	}
}

// DocumentUpdated is raised when document metadata changes
type DocumentUpdated struct {
	BaseEvent
	DocumentID valueobjects.DocumentID `json:"document_id"`
	MatterID   valueobjects.MatterID   `json:"matter_id"`
	UserID     string                  `json:"user_id"`
}

// NewDocumentUpdated creates a DocumentUpdated event
func NewDocumentUpdated(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID string, timestamp time.Time) DocumentUpdated {
	return DocumentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     userID,
	}
}

// DocumentCheckedOut is raised when a user takes exclusive editing rights
type DocumentCheckedOut struct {
	BaseEvent
	DocumentID valueobjects.DocumentID `json:"document_id"`
	MatterID   valueobjects.MatterID   `json:"matter_id"`
	UserID     string                  `json:"user_id"`
}

// NewDocumentCheckedOut creates a DocumentCheckedOut event
func NewDocumentCheckedOut(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID string, timestamp time.Time) DocumentCheckedOut {
	return DocumentCheckedOut{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.checked_out",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     userID,
	}
}

// DocumentCheckedIn is raised when a checkout is resolved with a new revision
type DocumentCheckedIn struct {
	BaseEvent
	DocumentID     valueobjects.DocumentID `json:"document_id"`
	MatterID       valueobjects.MatterID   `json:"matter_id"`
	RevisionID     valueobjects.RevisionID `json:"revision_id"`
	RevisionNumber int                     `json:"revision_number"`
	UserID         string                  `json:"user_id"`
}

// NewDocumentCheckedIn creates a DocumentCheckedIn event
func NewDocumentCheckedIn(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID string, revisionID valueobjects.RevisionID, revisionNumber int, timestamp time.Time) DocumentCheckedIn {
	return DocumentCheckedIn{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.checked_in",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID:     documentID,
		MatterID:       matterID,
		RevisionID:     revisionID,
		RevisionNumber: revisionNumber,
		UserID:         userID,
	}
}

// DocumentDeleted is raised on soft delete
type DocumentDeleted struct {
	BaseEvent
	DocumentID valueobjects.DocumentID `json:"document_id"`
	MatterID   valueobjects.MatterID   `json:"matter_id"`
	UserID     string                  `json:"user_id"`
}

// NewDocumentDeleted creates a DocumentDeleted event
func NewDocumentDeleted(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID string, timestamp time.Time) DocumentDeleted {
	return DocumentDeleted{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     userID,
	}
}

// DocumentRestored is raised when a soft-deleted document is restored
type DocumentRestored struct {
	BaseEvent
	DocumentID valueobjects.DocumentID `json:"document_id"`
	MatterID   valueobjects.MatterID   `json:"matter_id"`
	UserID     string                  `json:"user_id"`
}

// NewDocumentRestored creates a DocumentRestored event
func NewDocumentRestored(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID string, timestamp time.Time) DocumentRestored {
	return DocumentRestored{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.restored",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     userID,
	}
}

// TransferOperation distinguishes a move from a copy
type TransferOperation string

const (
	TransferMove TransferOperation = "move"
	TransferCopy TransferOperation = "copy"
)

// DocumentTransferred is raised when a document is moved or copied between
// matters. One event covers both directions; the audit trail stores a row
// under each matter.
type DocumentTransferred struct {
	BaseEvent
	DocumentID     valueobjects.DocumentID `json:"document_id"`
	SourceMatterID valueobjects.MatterID   `json:"source_matter_id"`
	DestMatterID   valueobjects.MatterID   `json:"dest_matter_id"`
	Operation      TransferOperation       `json:"operation"`
	UserID         string                  `json:"user_id"`
	// CopyDocumentID is set for copy operations: the ID of the new document
	// created in the destination matter.
	CopyDocumentID valueobjects.DocumentID `json:"copy_document_id,omitempty"`
}

// NewDocumentTransferred creates a DocumentTransferred event
func NewDocumentTransferred(
	documentID valueobjects.DocumentID,
	sourceMatterID, destMatterID valueobjects.MatterID,
	operation TransferOperation,
	userID string,
	copyDocumentID valueobjects.DocumentID,
	timestamp time.Time,
) DocumentTransferred {
	return DocumentTransferred{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.transferred",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID:     documentID,
		SourceMatterID: sourceMatterID,
		DestMatterID:   destMatterID,
		Operation:      operation,
		UserID:         userID,
		CopyDocumentID: copyDocumentID,
	}
}
