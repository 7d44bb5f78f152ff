package entities

import (
	"time"

	"github.com/google/uuid"

	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

// MatterActivity classifies an entry in a matter's audit trail.
type MatterActivity string

const (
	MatterActivityCreated    MatterActivity = "CREATED"
	MatterActivityUpdated    MatterActivity = "UPDATED"
	MatterActivityArchived   MatterActivity = "ARCHIVED"
	MatterActivityUnarchived MatterActivity = "UNARCHIVED"
	MatterActivityDeleted    MatterActivity = "DELETED"
	MatterActivityRestored   MatterActivity = "RESTORED"
)

// DocumentActivity classifies an entry in a document's audit trail.
type DocumentActivity string

const (
	DocumentActivityCreated    DocumentActivity = "CREATED"
	DocumentActivityUpdated    DocumentActivity = "UPDATED"
	DocumentActivityCheckedOut DocumentActivity = "CHECKED_OUT"
	DocumentActivityCheckedIn  DocumentActivity = "CHECKED_IN"
	DocumentActivityDeleted    DocumentActivity = "DELETED"
	DocumentActivityRestored   DocumentActivity = "RESTORED"
)

// TransferDirection labels the two rows written for every transfer: one on
// the source matter's trail and one on the destination's.
type TransferDirection string

const (
	TransferDirectionFrom TransferDirection = "FROM"
	TransferDirectionTo   TransferDirection = "TO"
)

// MatterActivityRecord is one immutable entry in a matter's audit trail.
// Records are append-only; they are never updated or deleted.
type MatterActivityRecord struct {
	RecordID   string
	MatterID   valueobjects.MatterID
	UserID     string
	Activity   MatterActivity
	OccurredAt time.Time
}

// NewMatterActivityRecord creates an audit entry for a matter
func NewMatterActivityRecord(matterID valueobjects.MatterID, userID string, activity MatterActivity, occurredAt time.Time) (*MatterActivityRecord, error) {
	if matterID.IsZero() {
		return nil, pkgerrors.NewValidationError("matterID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if activity == "" {
		return nil, pkgerrors.NewValidationError("activity cannot be empty")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &MatterActivityRecord{
		RecordID:   uuid.New().String(),
		MatterID:   matterID,
		UserID:     userID,
		Activity:   activity,
		OccurredAt: occurredAt,
	}, nil
}

// DocumentActivityRecord is one immutable entry in a document's audit trail.
type DocumentActivityRecord struct {
	RecordID   string
	DocumentID valueobjects.DocumentID
	MatterID   valueobjects.MatterID
	UserID     string
	Activity   DocumentActivity
	OccurredAt time.Time
}

// NewDocumentActivityRecord creates an audit entry for a document
func NewDocumentActivityRecord(documentID valueobjects.DocumentID, matterID valueobjects.MatterID, userID string, activity DocumentActivity, occurredAt time.Time) (*DocumentActivityRecord, error) {
	if documentID.IsZero() {
		return nil, pkgerrors.NewValidationError("documentID cannot be empty")
	}
	if matterID.IsZero() {
		return nil, pkgerrors.NewValidationError("matterID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if activity == "" {
		return nil, pkgerrors.NewValidationError("activity cannot be empty")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &DocumentActivityRecord{
		RecordID:   uuid.New().String(),
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     userID,
		Activity:   activity,
		OccurredAt: occurredAt,
	}, nil
}

// TransferRecord is one side of a transfer's audit pair. Every move or copy
// writes two records with the same TransferID: a FROM record filed under the
// source matter and a TO record filed under the destination. MatterID is the
// matter whose trail the record appears on; CounterpartMatterID is the other
// end of the transfer.
type TransferRecord struct {
	RecordID            string
	TransferID          string
	Direction           TransferDirection
	MatterID            valueobjects.MatterID
	CounterpartMatterID valueobjects.MatterID
	DocumentID          valueobjects.DocumentID
	CopyDocumentID      valueobjects.DocumentID
	Operation           events.TransferOperation
	FileName            string
	UserID              string
	OccurredAt          time.Time
}

// NewTransferRecordPair creates the FROM and TO records for a single transfer.
// Both share one TransferID and timestamp so the pair can be correlated.
func NewTransferRecordPair(
	documentID valueobjects.DocumentID,
	copyDocumentID valueobjects.DocumentID,
	sourceMatterID, destMatterID valueobjects.MatterID,
	operation events.TransferOperation,
	fileName, userID string,
	occurredAt time.Time,
) (*TransferRecord, *TransferRecord, error) {
	if documentID.IsZero() {
		return nil, nil, pkgerrors.NewValidationError("documentID cannot be empty")
	}
	if sourceMatterID.IsZero() || destMatterID.IsZero() {
		return nil, nil, pkgerrors.NewValidationError("source and destination matterIDs cannot be empty")
	}
	if sourceMatterID.Equals(destMatterID) {
		return nil, nil, pkgerrors.NewValidationError("source and destination matters are the same")
	}
	if operation != events.TransferMove && operation != events.TransferCopy {
		return nil, nil, pkgerrors.NewValidationError("operation must be move or copy")
	}
	if userID == "" {
		return nil, nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	transferID := uuid.New().String()

	from := &TransferRecord{
		RecordID:            uuid.New().String(),
		TransferID:          transferID,
		Direction:           TransferDirectionFrom,
		MatterID:            sourceMatterID,
		CounterpartMatterID: destMatterID,
		DocumentID:          documentID,
		CopyDocumentID:      copyDocumentID,
		Operation:           operation,
		FileName:            fileName,
		UserID:              userID,
		OccurredAt:          occurredAt,
	}
	to := &TransferRecord{
		RecordID:            uuid.New().String(),
		TransferID:          transferID,
		Direction:           TransferDirectionTo,
		MatterID:            destMatterID,
		CounterpartMatterID: sourceMatterID,
		DocumentID:          documentID,
		CopyDocumentID:      copyDocumentID,
		Operation:           operation,
		FileName:            fileName,
		UserID:              userID,
		OccurredAt:          occurredAt,
	}

	return from, to, nil
}
