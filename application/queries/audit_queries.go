package queries

import (
	"errors"

	"lexmatter/domain/core/entities"
	"lexmatter/pkg/utils"
)

// MatterAuditQuery represents a query for a matter's activity trail
type MatterAuditQuery struct {
	UserID   string
	MatterID string
	Page     int
	PageSize int
}

// Validate validates the MatterAuditQuery
func (q MatterAuditQuery) Validate() error {
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

// DocumentAuditQuery represents a query for a document's activity trail
type DocumentAuditQuery struct {
	UserID     string
	DocumentID string
	Page       int
	PageSize   int
}

// Validate validates the DocumentAuditQuery
func (q DocumentAuditQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	if q.Page < 1 {
		return errors.New("page must be positive")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// MatterTransfersQuery represents a query for transfers recorded on a
// matter's trail. Direction restricts the result to the FROM or TO side;
// empty means both.
type MatterTransfersQuery struct {
	UserID    string
	MatterID  string
	Direction string
	Page      int
	PageSize  int
}

// Validate validates the MatterTransfersQuery
func (q MatterTransfersQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.MatterID == "" {
		return errors.New("matter ID is required")
	}
	switch q.Direction {
	case "", string(entities.TransferDirectionFrom), string(entities.TransferDirectionTo):
	default:
		return errors.New("direction must be FROM or TO")
	}
	if q.Page < 1 {
		return errors.New("page must be positive")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// DocumentTransfersQuery represents a query for a document's transfer history
type DocumentTransfersQuery struct {
	UserID     string
	DocumentID string
	Page       int
	PageSize   int
}

// Validate validates the DocumentTransfersQuery
func (q DocumentTransfersQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	if q.Page < 1 {
		return errors.New("page must be positive")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// ActivityEntry represents one audit trail entry in query responses
type ActivityEntry struct {
	RecordID   string `json:"recordId"`
	Activity   string `json:"activity"`
	UserID     string `json:"userId"`
	MatterID   string `json:"matterId,omitempty"`
	DocumentID string `json:"documentId,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

// ActivityTrailResult represents a page of audit trail entries
type ActivityTrailResult struct {
	Entries  []ActivityEntry `json:"entries"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// TransferEntry represents one transfer record in query responses
type TransferEntry struct {
	RecordID            string `json:"recordId"`
	TransferID          string `json:"transferId"`
	Direction           string `json:"direction"`
	Operation           string `json:"operation"`
	MatterID            string `json:"matterId"`
	CounterpartMatterID string `json:"counterpartMatterId"`
	DocumentID          string `json:"documentId"`
	CopyDocumentID      string `json:"copyDocumentId,omitempty"`
	FileName            string `json:"fileName"`
	UserID              string `json:"userId"`
	OccurredAt          string `json:"occurredAt"`
}

// TransferHistoryResult represents a page of transfer records
type TransferHistoryResult struct {
	Transfers []TransferEntry `json:"transfers"`
	Page      int             `json:"page"`
	PageSize  int             `json:"pageSize"`
}

// NewMatterActivityEntry maps a matter audit record to its read model
func NewMatterActivityEntry(record *entities.MatterActivityRecord) ActivityEntry {
	return ActivityEntry{
		RecordID:   record.RecordID,
		Activity:   string(record.Activity),
		UserID:     record.UserID,
		MatterID:   record.MatterID.String(),
		OccurredAt: utils.FormatRFC3339(record.OccurredAt),
	}
}

// NewDocumentActivityEntry maps a document audit record to its read model
func NewDocumentActivityEntry(record *entities.DocumentActivityRecord) ActivityEntry {
	return ActivityEntry{
		RecordID:   record.RecordID,
		Activity:   string(record.Activity),
		UserID:     record.UserID,
		MatterID:   record.MatterID.String(),
		DocumentID: record.DocumentID.String(),
		OccurredAt: utils.FormatRFC3339(record.OccurredAt),
	}
}

// NewTransferEntry maps a transfer record to its read model
func NewTransferEntry(record *entities.TransferRecord) TransferEntry {
	entry := TransferEntry{
		RecordID:            record.RecordID,
		TransferID:          record.TransferID,
		Direction:           string(record.Direction),
		Operation:           string(record.Operation),
		MatterID:            record.MatterID.String(),
		CounterpartMatterID: record.CounterpartMatterID.String(),
		DocumentID:          record.DocumentID.String(),
		FileName:            record.FileName,
		UserID:              record.UserID,
		OccurredAt:          utils.FormatRFC3339(record.OccurredAt),
	}
	if !record.CopyDocumentID.IsZero() {
		entry.CopyDocumentID = record.CopyDocumentID.String()
	}
	return entry
}
