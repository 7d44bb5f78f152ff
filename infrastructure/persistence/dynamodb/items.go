package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
)

// Entity type discriminators stored on every item.
const (
	entityTypeMatter           = "MATTER"
	entityTypeDocument         = "DOCUMENT"
	entityTypeRevision         = "REVISION"
	entityTypeMatterActivity   = "MATTER_ACTIVITY"
	entityTypeDocumentActivity = "DOCUMENT_ACTIVITY"
	entityTypeTransfer         = "TRANSFER"
	entityTypeUser             = "USER"
)

// Key builders for the single-table layout. Matters hang off their owner,
// documents off their matter, revisions and trails off their document.
func userPK(userID string) string                       { return fmt.Sprintf("USER#%s", userID) }
func matterSK(id valueobjects.MatterID) string          { return fmt.Sprintf("MATTER#%s", id.String()) }
func matterPK(id valueobjects.MatterID) string          { return fmt.Sprintf("MATTER#%s", id.String()) }
func documentSK(id valueobjects.DocumentID) string      { return fmt.Sprintf("DOC#%s", id.String()) }
func documentPK(id valueobjects.DocumentID) string      { return fmt.Sprintf("DOC#%s", id.String()) }
func matterGSI1PK(id valueobjects.MatterID) string      { return fmt.Sprintf("MATTERID#%s", id.String()) }
func documentGSI1PK(id valueobjects.DocumentID) string  { return fmt.Sprintf("DOCID#%s", id.String()) }
func revisionSK(number int) string                      { return fmt.Sprintf("REV#%06d", number) }

func activitySK(occurredAt time.Time, recordID string) string {
	return fmt.Sprintf("ACT#%s#%s", occurredAt.UTC().Format(time.RFC3339Nano), recordID)
}

func transferSK(direction entities.TransferDirection, occurredAt time.Time, recordID string) string {
	return fmt.Sprintf("XFER#%s#%s#%s", direction, occurredAt.UTC().Format(time.RFC3339Nano), recordID)
}

// matterItem is the DynamoDB representation of a matter.
type matterItem struct {
	PK            string `dynamodbav:"PK"`     // USER#<user_id>
	SK            string `dynamodbav:"SK"`     // MATTER#<matter_id>
	GSI1PK        string `dynamodbav:"GSI1PK"` // MATTERID#<matter_id>
	GSI1SK        string `dynamodbav:"GSI1SK"` // METADATA
	EntityType    string `dynamodbav:"EntityType"`
	MatterID      string `dynamodbav:"MatterID"`
	UserID        string `dynamodbav:"UserID"`
	Number        string `dynamodbav:"Number"`
	Title         string `dynamodbav:"Title"`
	Description   string `dynamodbav:"Description,omitempty"`
	ClientName    string `dynamodbav:"ClientName,omitempty"`
	IsArchived    bool   `dynamodbav:"IsArchived"`
	IsDeleted     bool   `dynamodbav:"IsDeleted"`
	DocumentCount int    `dynamodbav:"DocumentCount"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
	Version       int    `dynamodbav:"Version"`
}

func newMatterItem(matter *entities.Matter) matterItem {
	return matterItem{
		PK:            userPK(matter.UserID()),
		SK:            matterSK(matter.ID()),
		GSI1PK:        matterGSI1PK(matter.ID()),
		GSI1SK:        "METADATA",
		EntityType:    entityTypeMatter,
		MatterID:      matter.ID().String(),
		UserID:        matter.UserID(),
		Number:        matter.Number(),
		Title:         matter.Title(),
		Description:   matter.Description(),
		ClientName:    matter.ClientName(),
		IsArchived:    matter.IsArchived(),
		IsDeleted:     matter.IsDeleted(),
		DocumentCount: matter.DocumentCount(),
		CreatedAt:     matter.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:     matter.UpdatedAt().UTC().Format(time.RFC3339Nano),
		Version:       matter.Version(),
	}
}

func (i matterItem) toEntity() (*entities.Matter, error) {
	id, err := valueobjects.NewMatterIDFromString(i.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID in item: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt in item: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid UpdatedAt in item: %w", err)
	}
	return entities.ReconstructMatter(
		id,
		i.UserID, i.Number, i.Title, i.Description, i.ClientName,
		i.IsArchived, i.IsDeleted,
		i.DocumentCount,
		createdAt, updatedAt,
		i.Version,
	)
}

// documentItem is the DynamoDB representation of a document.
type documentItem struct {
	PK            string `dynamodbav:"PK"`     // MATTER#<matter_id>
	SK            string `dynamodbav:"SK"`     // DOC#<document_id>
	GSI1PK        string `dynamodbav:"GSI1PK"` // DOCID#<document_id>
	GSI1SK        string `dynamodbav:"GSI1SK"` // METADATA
	EntityType    string `dynamodbav:"EntityType"`
	DocumentID    string `dynamodbav:"DocumentID"`
	MatterID      string `dynamodbav:"MatterID"`
	UserID        string `dynamodbav:"UserID"`
	FileName      string `dynamodbav:"FileName"`
	FileSize      int64  `dynamodbav:"FileSize"`
	Checksum      string `dynamodbav:"Checksum,omitempty"`
	MimeType      string `dynamodbav:"MimeType,omitempty"`
	IsCheckedOut  bool   `dynamodbav:"IsCheckedOut"`
	CheckedOutBy  string `dynamodbav:"CheckedOutBy,omitempty"`
	IsDeleted     bool   `dynamodbav:"IsDeleted"`
	RevisionCount int    `dynamodbav:"RevisionCount"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
	Version       int    `dynamodbav:"Version"`
}

func newDocumentItem(document *entities.Document) documentItem {
	return documentItem{
		PK:            matterPK(document.MatterID()),
		SK:            documentSK(document.ID()),
		GSI1PK:        documentGSI1PK(document.ID()),
		GSI1SK:        "METADATA",
		EntityType:    entityTypeDocument,
		DocumentID:    document.ID().String(),
		MatterID:      document.MatterID().String(),
		UserID:        document.UserID(),
		FileName:      document.FileName().String(),
		FileSize:      document.FileSize(),
		Checksum:      document.Checksum().String(),
		MimeType:      document.MimeType(),
		IsCheckedOut:  document.IsCheckedOut(),
		CheckedOutBy:  document.CheckedOutBy(),
		IsDeleted:     document.IsDeleted(),
		RevisionCount: document.RevisionCount(),
		CreatedAt:     document.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:     document.UpdatedAt().UTC().Format(time.RFC3339Nano),
		Version:       document.Version(),
	}
}

func (i documentItem) toEntity() (*entities.Document, error) {
	id, err := valueobjects.NewDocumentIDFromString(i.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID in item: %w", err)
	}
	matterID, err := valueobjects.NewMatterIDFromString(i.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID in item: %w", err)
	}
	fileName, err := valueobjects.NewFileName(i.FileName)
	if err != nil {
		return nil, fmt.Errorf("invalid file name in item: %w", err)
	}
	var checksum valueobjects.Checksum
	if i.Checksum != "" {
		checksum, err = valueobjects.NewChecksumFromHex(i.Checksum)
		if err != nil {
			return nil, fmt.Errorf("invalid checksum in item: %w", err)
		}
	}
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt in item: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid UpdatedAt in item: %w", err)
	}
	return entities.ReconstructDocument(
		id, matterID,
		i.UserID,
		fileName, i.FileSize, checksum, i.MimeType,
		i.IsCheckedOut, i.CheckedOutBy,
		i.IsDeleted,
		i.RevisionCount,
		createdAt, updatedAt,
		i.Version,
	)
}

// revisionItem is the DynamoDB representation of a document revision.
// The zero-padded SK keeps revisions numerically ordered within the document.
type revisionItem struct {
	PK         string `dynamodbav:"PK"` // DOC#<document_id>
	SK         string `dynamodbav:"SK"` // REV#<%06d number>
	EntityType string `dynamodbav:"EntityType"`
	RevisionID string `dynamodbav:"RevisionID"`
	DocumentID string `dynamodbav:"DocumentID"`
	Number     int    `dynamodbav:"Number"`
	CreatedBy  string `dynamodbav:"CreatedBy"`
	FileSize   int64  `dynamodbav:"FileSize"`
	Checksum   string `dynamodbav:"Checksum,omitempty"`
	IsDeleted  bool   `dynamodbav:"IsDeleted"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func newRevisionItem(revision *entities.Revision) revisionItem {
	return revisionItem{
		PK:         documentPK(revision.DocumentID()),
		SK:         revisionSK(revision.Number()),
		EntityType: entityTypeRevision,
		RevisionID: revision.ID().String(),
		DocumentID: revision.DocumentID().String(),
		Number:     revision.Number(),
		CreatedBy:  revision.CreatedBy(),
		FileSize:   revision.FileSize(),
		Checksum:   revision.Checksum().String(),
		IsDeleted:  revision.IsDeleted(),
		CreatedAt:  revision.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func (i revisionItem) toEntity() (*entities.Revision, error) {
	id, err := valueobjects.NewRevisionIDFromString(i.RevisionID)
	if err != nil {
		return nil, fmt.Errorf("invalid revision ID in item: %w", err)
	}
	documentID, err := valueobjects.NewDocumentIDFromString(i.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID in item: %w", err)
	}
	var checksum valueobjects.Checksum
	if i.Checksum != "" {
		checksum, err = valueobjects.NewChecksumFromHex(i.Checksum)
		if err != nil {
			return nil, fmt.Errorf("invalid checksum in item: %w", err)
		}
	}
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt in item: %w", err)
	}
	return entities.ReconstructRevision(id, documentID, i.Number, i.CreatedBy, i.FileSize, checksum, i.IsDeleted, createdAt), nil
}

// matterActivityItem is one append-only entry on a matter's audit trail.
type matterActivityItem struct {
	PK         string `dynamodbav:"PK"` // MATTER#<matter_id>
	SK         string `dynamodbav:"SK"` // ACT#<timestamp>#<record_id>
	EntityType string `dynamodbav:"EntityType"`
	RecordID   string `dynamodbav:"RecordID"`
	MatterID   string `dynamodbav:"MatterID"`
	UserID     string `dynamodbav:"UserID"`
	Activity   string `dynamodbav:"Activity"`
	OccurredAt string `dynamodbav:"OccurredAt"`
}

func newMatterActivityItem(record *entities.MatterActivityRecord) matterActivityItem {
	return matterActivityItem{
		PK:         matterPK(record.MatterID),
		SK:         activitySK(record.OccurredAt, record.RecordID),
		EntityType: entityTypeMatterActivity,
		RecordID:   record.RecordID,
		MatterID:   record.MatterID.String(),
		UserID:     record.UserID,
		Activity:   string(record.Activity),
		OccurredAt: record.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

func (i matterActivityItem) toRecord() (*entities.MatterActivityRecord, error) {
	matterID, err := valueobjects.NewMatterIDFromString(i.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID in item: %w", err)
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, i.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("invalid OccurredAt in item: %w", err)
	}
	return &entities.MatterActivityRecord{
		RecordID:   i.RecordID,
		MatterID:   matterID,
		UserID:     i.UserID,
		Activity:   entities.MatterActivity(i.Activity),
		OccurredAt: occurredAt,
	}, nil
}

// documentActivityItem is one append-only entry on a document's audit trail.
type documentActivityItem struct {
	PK         string `dynamodbav:"PK"` // DOC#<document_id>
	SK         string `dynamodbav:"SK"` // ACT#<timestamp>#<record_id>
	EntityType string `dynamodbav:"EntityType"`
	RecordID   string `dynamodbav:"RecordID"`
	DocumentID string `dynamodbav:"DocumentID"`
	MatterID   string `dynamodbav:"MatterID"`
	UserID     string `dynamodbav:"UserID"`
	Activity   string `dynamodbav:"Activity"`
	OccurredAt string `dynamodbav:"OccurredAt"`
}

func newDocumentActivityItem(record *entities.DocumentActivityRecord) documentActivityItem {
	return documentActivityItem{
		PK:         documentPK(record.DocumentID),
		SK:         activitySK(record.OccurredAt, record.RecordID),
		EntityType: entityTypeDocumentActivity,
		RecordID:   record.RecordID,
		DocumentID: record.DocumentID.String(),
		MatterID:   record.MatterID.String(),
		UserID:     record.UserID,
		Activity:   string(record.Activity),
		OccurredAt: record.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

func (i documentActivityItem) toRecord() (*entities.DocumentActivityRecord, error) {
	documentID, err := valueobjects.NewDocumentIDFromString(i.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID in item: %w", err)
	}
	matterID, err := valueobjects.NewMatterIDFromString(i.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID in item: %w", err)
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, i.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("invalid OccurredAt in item: %w", err)
	}
	return &entities.DocumentActivityRecord{
		RecordID:   i.RecordID,
		DocumentID: documentID,
		MatterID:   matterID,
		UserID:     i.UserID,
		Activity:   entities.DocumentActivity(i.Activity),
		OccurredAt: occurredAt,
	}, nil
}

// transferItem is one side of a transfer's FROM/TO audit pair, filed under the
// matter whose trail it appears on. GSI1 keys the pair by document so a
// document's full transfer history is one index query.
type transferItem struct {
	PK                  string `dynamodbav:"PK"`     // MATTER#<matter_id>
	SK                  string `dynamodbav:"SK"`     // XFER#<direction>#<timestamp>#<record_id>
	GSI1PK              string `dynamodbav:"GSI1PK"` // DOCID#<document_id>
	GSI1SK              string `dynamodbav:"GSI1SK"` // XFER#<timestamp>#<record_id>
	EntityType          string `dynamodbav:"EntityType"`
	RecordID            string `dynamodbav:"RecordID"`
	TransferID          string `dynamodbav:"TransferID"`
	Direction           string `dynamodbav:"Direction"`
	MatterID            string `dynamodbav:"MatterID"`
	CounterpartMatterID string `dynamodbav:"CounterpartMatterID"`
	DocumentID          string `dynamodbav:"DocumentID"`
	CopyDocumentID      string `dynamodbav:"CopyDocumentID,omitempty"`
	Operation           string `dynamodbav:"Operation"`
	FileName            string `dynamodbav:"FileName"`
	UserID              string `dynamodbav:"UserID"`
	OccurredAt          string `dynamodbav:"OccurredAt"`
}

func newTransferItem(record *entities.TransferRecord) transferItem {
	ts := record.OccurredAt.UTC().Format(time.RFC3339Nano)
	item := transferItem{
		PK:                  matterPK(record.MatterID),
		SK:                  transferSK(record.Direction, record.OccurredAt, record.RecordID),
		GSI1PK:              documentGSI1PK(record.DocumentID),
		GSI1SK:              fmt.Sprintf("XFER#%s#%s", ts, record.RecordID),
		EntityType:          entityTypeTransfer,
		RecordID:            record.RecordID,
		TransferID:          record.TransferID,
		Direction:           string(record.Direction),
		MatterID:            record.MatterID.String(),
		CounterpartMatterID: record.CounterpartMatterID.String(),
		DocumentID:          record.DocumentID.String(),
		Operation:           string(record.Operation),
		FileName:            record.FileName,
		UserID:              record.UserID,
		OccurredAt:          ts,
	}
	if !record.CopyDocumentID.IsZero() {
		item.CopyDocumentID = record.CopyDocumentID.String()
	}
	return item
}

func (i transferItem) toRecord() (*entities.TransferRecord, error) {
	matterID, err := valueobjects.NewMatterIDFromString(i.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID in item: %w", err)
	}
	counterpartID, err := valueobjects.NewMatterIDFromString(i.CounterpartMatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid counterpart matter ID in item: %w", err)
	}
	documentID, err := valueobjects.NewDocumentIDFromString(i.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID in item: %w", err)
	}
	var copyDocumentID valueobjects.DocumentID
	if i.CopyDocumentID != "" {
		copyDocumentID, err = valueobjects.NewDocumentIDFromString(i.CopyDocumentID)
		if err != nil {
			return nil, fmt.Errorf("invalid copy document ID in item: %w", err)
		}
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, i.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("invalid OccurredAt in item: %w", err)
	}
	return &entities.TransferRecord{
		RecordID:            i.RecordID,
		TransferID:          i.TransferID,
		Direction:           entities.TransferDirection(i.Direction),
		MatterID:            matterID,
		CounterpartMatterID: counterpartID,
		DocumentID:          documentID,
		CopyDocumentID:      copyDocumentID,
		Operation:           events.TransferOperation(i.Operation),
		FileName:            i.FileName,
		UserID:              i.UserID,
		OccurredAt:          occurredAt,
	}, nil
}

// userItem is the DynamoDB representation of a user profile.
type userItem struct {
	PK         string   `dynamodbav:"PK"` // USER#<user_id>
	SK         string   `dynamodbav:"SK"` // PROFILE
	EntityType string   `dynamodbav:"EntityType"`
	UserID     string   `dynamodbav:"UserID"`
	Email      string   `dynamodbav:"Email,omitempty"`
	Name       string   `dynamodbav:"Name,omitempty"`
	Roles      []string `dynamodbav:"Roles,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	LastSeen   string   `dynamodbav:"LastSeen"`
}

func (i userItem) toEntity() (*entities.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt on user %s: %w", i.UserID, err)
	}
	lastSeen, err := time.Parse(time.RFC3339Nano, i.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("invalid LastSeen on user %s: %w", i.UserID, err)
	}
	return entities.ReconstructUser(i.UserID, i.Email, i.Name, i.Roles, createdAt, lastSeen), nil
}

// marshalItem marshals any item struct for a write.
func marshalItem(item interface{}) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return av, nil
}
