package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"lexmatter/domain/config"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

// Matter is the aggregate root for a legal matter: the container documents
// are filed into. This is a rich domain model with encapsulated business logic.
type Matter struct {
	// Private fields ensure encapsulation
	id            valueobjects.MatterID
	userID        string
	number        string
	title         string
	description   string
	clientName    string
	isArchived    bool
	isDeleted     bool
	documentCount int
	createdAt     time.Time
	updatedAt     time.Time
	version       int

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewMatter creates a new matter with full business rule validation
func NewMatter(userID, number, title, description, clientName string) (*Matter, error) {
	return NewMatterWithConfig(userID, number, title, description, clientName, config.DefaultDomainConfig())
}

// NewMatterWithConfig creates a new matter with validation and configuration
func NewMatterWithConfig(userID, number, title, description, clientName string, cfg *config.DomainConfig) (*Matter, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.NewValidationError("matter number cannot be empty")
	}

	title = strings.TrimSpace(title)
	if err := validateMatterText(title, description, clientName, cfg); err != nil {
		return nil, err
	}

	now := time.Now()
	matter := &Matter{
		id:          valueobjects.NewMatterID(),
		userID:      userID,
		number:      number,
		title:       title,
		description: strings.TrimSpace(description),
		clientName:  strings.TrimSpace(clientName),
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		events:      []events.DomainEvent{},
	}

	matter.addEvent(events.NewMatterCreated(matter.id, userID, number, title, now))

	return matter, nil
}

// ReconstructMatter rebuilds a matter from repository data with preserved state
func ReconstructMatter(
	id valueobjects.MatterID,
	userID, number, title, description, clientName string,
	isArchived, isDeleted bool,
	documentCount int,
	createdAt, updatedAt time.Time,
	version int,
) (*Matter, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if number == "" {
		return nil, pkgerrors.NewValidationError("matter number cannot be empty")
	}

	return &Matter{
		id:            id,
		userID:        userID,
		number:        number,
		title:         title,
		description:   description,
		clientName:    clientName,
		isArchived:    isArchived,
		isDeleted:     isDeleted,
		documentCount: documentCount,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		events:        []events.DomainEvent{},
	}, nil
}

// ID returns the matter's unique identifier
func (m *Matter) ID() valueobjects.MatterID {
	return m.id
}

// UserID returns the owner's ID
func (m *Matter) UserID() string {
	return m.userID
}

// Number returns the client-facing matter number
func (m *Matter) Number() string {
	return m.number
}

// Title returns the matter title
func (m *Matter) Title() string {
	return m.title
}

// Description returns the matter description
func (m *Matter) Description() string {
	return m.description
}

// ClientName returns the client the matter is opened for
func (m *Matter) ClientName() string {
	return m.clientName
}

// IsArchived reports whether the matter is archived
func (m *Matter) IsArchived() bool {
	return m.isArchived
}

// IsDeleted reports whether the matter is soft-deleted
func (m *Matter) IsDeleted() bool {
	return m.isDeleted
}

// DocumentCount returns the number of documents filed in the matter
func (m *Matter) DocumentCount() int {
	return m.documentCount
}

// Version returns the matter's version for optimistic locking
func (m *Matter) Version() int {
	return m.version
}

// CreatedAt returns when the matter was created
func (m *Matter) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the matter was last updated
func (m *Matter) UpdatedAt() time.Time {
	return m.updatedAt
}

// Update changes the matter's editable metadata
func (m *Matter) Update(title, description, clientName string) error {
	return m.UpdateWithConfig(title, description, clientName, config.DefaultDomainConfig())
}

// UpdateWithConfig changes the matter's editable metadata with configuration
func (m *Matter) UpdateWithConfig(title, description, clientName string, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if err := m.ensureMutable(); err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if err := validateMatterText(title, description, clientName, cfg); err != nil {
		return err
	}

	m.title = title
	m.description = strings.TrimSpace(description)
	m.clientName = strings.TrimSpace(clientName)
	m.touch()

	m.addEvent(events.NewMatterUpdated(m.id, m.userID, m.updatedAt))

	return nil
}

// Archive moves the matter to the archive. Archiving is idempotent.
func (m *Matter) Archive() error {
	if m.isDeleted {
		return pkgerrors.NewValidationError("cannot archive a deleted matter")
	}
	if m.isArchived {
		return nil // Already archived
	}

	m.isArchived = true
	m.touch()

	m.addEvent(events.NewMatterArchived(m.id, m.userID, m.updatedAt))

	return nil
}

// Unarchive brings the matter back from the archive
func (m *Matter) Unarchive() error {
	if m.isDeleted {
		return pkgerrors.NewValidationError("cannot unarchive a deleted matter")
	}
	if !m.isArchived {
		return nil // Not archived
	}

	m.isArchived = false
	m.touch()

	m.addEvent(events.NewMatterUnarchived(m.id, m.userID, m.updatedAt))

	return nil
}

// SoftDelete hides the matter from default listings. The archive flag is
// left untouched so Restore returns the matter to its prior state.
func (m *Matter) SoftDelete() error {
	if m.isDeleted {
		return nil // Already deleted
	}

	m.isDeleted = true
	m.touch()

	m.addEvent(events.NewMatterDeleted(m.id, m.userID, m.updatedAt))

	return nil
}

// Restore un-deletes the matter
func (m *Matter) Restore() error {
	if !m.isDeleted {
		return pkgerrors.NewValidationError("matter is not deleted")
	}

	m.isDeleted = false
	m.touch()

	m.addEvent(events.NewMatterRestored(m.id, m.userID, m.updatedAt))

	return nil
}

// IncrementDocumentCount records a document arriving in this matter
func (m *Matter) IncrementDocumentCount() {
	m.documentCount++
	m.touch()
}

// DecrementDocumentCount records a document leaving this matter
func (m *Matter) DecrementDocumentCount() {
	if m.documentCount > 0 {
		m.documentCount--
	}
	m.touch()
}

// CanAcceptDocument checks whether the matter may receive a new document
func (m *Matter) CanAcceptDocument(cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if m.isDeleted {
		return pkgerrors.ErrMatterDeleted.WithDetail("matter_id", m.id.String())
	}
	if m.isArchived {
		return pkgerrors.ErrMatterArchived.WithDetail("matter_id", m.id.String())
	}
	if m.documentCount >= cfg.MaxDocumentsPerMatter {
		return pkgerrors.ErrMatterDocumentLimit.
			WithDetail("current", m.documentCount).
			WithDetail("limit", cfg.MaxDocumentsPerMatter)
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (m *Matter) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (m *Matter) MarkEventsAsCommitted() {
	m.events = []events.DomainEvent{}
}

// ensureMutable rejects writes to archived or deleted matters
func (m *Matter) ensureMutable() error {
	if m.isDeleted {
		return pkgerrors.NewValidationError("cannot modify a deleted matter")
	}
	if m.isArchived {
		return pkgerrors.NewValidationError("cannot modify an archived matter")
	}
	return nil
}

func (m *Matter) touch() {
	m.updatedAt = time.Now()
	m.version++
}

func (m *Matter) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}

func validateMatterText(title, description, clientName string, cfg *config.DomainConfig) error {
	titleLength := utf8.RuneCountInString(title)
	if titleLength < cfg.MinMatterTitleLength {
		return pkgerrors.NewValidationError("matter title cannot be empty")
	}
	if titleLength > cfg.MaxMatterTitleLength {
		return fmt.Errorf("matter title exceeds maximum length of %d characters", cfg.MaxMatterTitleLength)
	}
	if utf8.RuneCountInString(description) > cfg.MaxDescriptionLength {
		return fmt.Errorf("matter description exceeds maximum length of %d characters", cfg.MaxDescriptionLength)
	}
	if utf8.RuneCountInString(clientName) > cfg.MaxClientNameLength {
		return fmt.Errorf("client name exceeds maximum length of %d characters", cfg.MaxClientNameLength)
	}
	return nil
}
