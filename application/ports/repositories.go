package ports

import (
	"context"
	"time"

	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
)

// MatterRepository defines the interface for matter persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type MatterRepository interface {
	// Save persists a matter (create or update)
	Save(ctx context.Context, matter *entities.Matter) error

	// GetByID retrieves a matter by its ID
	GetByID(ctx context.Context, id valueobjects.MatterID) (*entities.Matter, error)

	// GetByNumber retrieves a user's matter by its matter number
	GetByNumber(ctx context.Context, userID, number string) (*entities.Matter, error)

	// GetByUserID retrieves matters for a user, subject to the filter
	GetByUserID(ctx context.Context, userID string, filter ListFilter) ([]*entities.Matter, error)

	// Delete removes a matter permanently
	Delete(ctx context.Context, id valueobjects.MatterID) error
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// Save persists a document (create or update)
	Save(ctx context.Context, document *entities.Document) error

	// GetByID retrieves a document by its ID
	GetByID(ctx context.Context, id valueobjects.DocumentID) (*entities.Document, error)

	// GetByMatterID retrieves documents filed under a matter
	GetByMatterID(ctx context.Context, matterID valueobjects.MatterID, filter ListFilter) ([]*entities.Document, error)

	// FileNamesByMatterID returns the file names of non-deleted documents in a matter
	FileNamesByMatterID(ctx context.Context, matterID valueobjects.MatterID) ([]string, error)

	// CountCheckedOut returns the number of checked-out documents in a matter
	CountCheckedOut(ctx context.Context, matterID valueobjects.MatterID) (int, error)

	// Delete removes a document permanently
	Delete(ctx context.Context, id valueobjects.DocumentID) error
}

// RevisionRepository defines the interface for revision persistence.
// Revisions are append-only; there is no update operation.
type RevisionRepository interface {
	// Save persists a revision
	Save(ctx context.Context, revision *entities.Revision) error

	// GetByNumber retrieves a revision by document and revision number
	GetByNumber(ctx context.Context, documentID valueobjects.DocumentID, number int) (*entities.Revision, error)

	// GetByDocumentID retrieves all revisions of a document, oldest first
	GetByDocumentID(ctx context.Context, documentID valueobjects.DocumentID) ([]*entities.Revision, error)
}

// UserRepository defines the interface for user profile persistence. Profiles
// are recorded from verified token claims; writes are last-writer-wins.
type UserRepository interface {
	// Save upserts a user profile
	Save(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user profile
	GetByID(ctx context.Context, userID string) (*entities.User, error)
}

// AuditStore defines the interface for the append-only audit trail. Activity
// and transfer records are only ever written and queried, never updated.
type AuditStore interface {
	// AppendMatterActivity records a matter lifecycle entry
	AppendMatterActivity(ctx context.Context, record *entities.MatterActivityRecord) error

	// AppendDocumentActivity records a document lifecycle entry
	AppendDocumentActivity(ctx context.Context, record *entities.DocumentActivityRecord) error

	// AppendTransferRecords records both sides of a transfer
	AppendTransferRecords(ctx context.Context, from, to *entities.TransferRecord) error

	// MatterActivity retrieves a matter's activity trail, newest first
	MatterActivity(ctx context.Context, matterID valueobjects.MatterID, filter ListFilter) ([]*entities.MatterActivityRecord, error)

	// DocumentActivity retrieves a document's activity trail, newest first
	DocumentActivity(ctx context.Context, documentID valueobjects.DocumentID, filter ListFilter) ([]*entities.DocumentActivityRecord, error)

	// TransfersByMatter retrieves transfer records filed under a matter,
	// optionally restricted to one direction (empty direction means both)
	TransfersByMatter(ctx context.Context, matterID valueobjects.MatterID, direction entities.TransferDirection, filter ListFilter) ([]*entities.TransferRecord, error)

	// TransfersByDocument retrieves a document's transfer history, newest first
	TransfersByDocument(ctx context.Context, documentID valueobjects.DocumentID, filter ListFilter) ([]*entities.TransferRecord, error)
}

// EventStore defines the interface for event persistence (the outbox)
type EventStore interface {
	// SaveEvents persists domain events
	SaveEvents(ctx context.Context, events []events.DomainEvent) error

	// GetEvents retrieves events for an aggregate
	GetEvents(ctx context.Context, aggregateID string) ([]events.DomainEvent, error)

	// GetUnpublished retrieves outbox entries not yet published downstream
	GetUnpublished(ctx context.Context, limit int) ([]StoredEvent, error)

	// MarkPublished marks outbox entries as published
	MarkPublished(ctx context.Context, entries []StoredEvent) error
}

// StoredEvent is an outbox entry as read back from the event store
type StoredEvent struct {
	EventID     string
	AggregateID string
	EventType   string
	Payload     []byte
	Timestamp   time.Time
	Published   bool
	Attempts    int
}

// UnitOfWork defines a transaction boundary. Registered saves, audit records
// and events are committed atomically in a single database transaction.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction
	Rollback() error

	// RegisterMatter stages a matter save in this transaction
	RegisterMatter(matter *entities.Matter) error

	// RegisterDocument stages a document save in this transaction
	RegisterDocument(document *entities.Document) error

	// RegisterRevision stages a revision append in this transaction
	RegisterRevision(revision *entities.Revision) error

	// RegisterMatterActivity stages an audit entry in this transaction
	RegisterMatterActivity(record *entities.MatterActivityRecord) error

	// RegisterDocumentActivity stages an audit entry in this transaction
	RegisterDocumentActivity(record *entities.DocumentActivityRecord) error

	// RegisterTransferRecords stages both sides of a transfer in this transaction
	RegisterTransferRecords(from, to *entities.TransferRecord) error

	// RegisterEvents stages outbox entries in this transaction
	RegisterEvents(events []events.DomainEvent) error
}

// DistributedLock serializes operations on a shared resource across processes
type DistributedLock interface {
	// Acquire takes the lock, failing if it is already held. The returned
	// release function is safe to call more than once.
	Acquire(ctx context.Context, resource string, ttl time.Duration) (func(), error)
}

// ListFilter defines listing parameters shared by repository queries
type ListFilter struct {
	IncludeDeleted  bool
	IncludeArchived bool
	Query           string
	Limit           int
	Offset          int
	OrderBy         string
	OrderDesc       bool
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler
	Unsubscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
