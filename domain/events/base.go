package events

import (
	"time"

	"lexmatter/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Matter events

// MatterCreated is raised when a new matter is opened
type MatterCreated struct {
	BaseEvent
	MatterID valueobjects.MatterID `json:"matter_id"`
	UserID   string                `json:"user_id"`
	Number   string                `json:"number"`
	Title    string                `json:"title"`
}

// NewMatterCreated creates a MatterCreated event
func NewMatterCreated(matterID valueobjects.MatterID, userID, number, title string, timestamp time.Time) MatterCreated {
	return MatterCreated{
		BaseEvent: BaseEvent{
			AggregateID: matterID.String(),
			EventType:   "matter.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		MatterID: matterID,
		UserID:   userID,
		Number:   number,
		Title:    title,
	}
}

// MatterUpdated is raised when matter metadata changes
type MatterUpdated struct {
	BaseEvent
	MatterID valueobjects.MatterID `json:"matter_id"`
	UserID   string                `json:"user_id"`
}

// NewMatterUpdated creates a MatterUpdated event
func NewMatterUpdated(matterID valueobjects.MatterID, userID string, timestamp time.Time) MatterUpdated {
	return MatterUpdated{
		BaseEvent: BaseEvent{
			AggregateID: matterID.String(),
			EventType:   "matter.updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		MatterID: matterID,
		UserID:   userID,
	}
}

// MatterArchived is raised when a matter is archived
type MatterArchived struct {
	BaseEvent
	MatterID valueobjects.MatterID `json:"matter_id"`
	UserID   string                `json:"user_id"`
}

// NewMatterArchived creates a MatterArchived event
func NewMatterArchived(matterID valueobjects.MatterID, userID string, timestamp time.Time) MatterArchived {
	return MatterArchived{
		BaseEvent: BaseEvent{
			AggregateID: matterID.String(),
			EventType:   "matter.archived",
			Timestamp:   timestamp,
			Version:     1,
		},
		MatterID: matterID,
		UserID:   userID,
	}
}

// MatterUnarchived is raised when a matter is brought back from the archive
type MatterUnarchived struct {
	BaseEvent
	MatterID valueobjects.MatterID `json:"matter_id"`
	UserID   string                `json:"user_id"`
}

// NewMatterUnarchived creates a MatterUnarchived event
func NewMatterUnarchived(matterID valueobjects.MatterID, userID string, timestamp time.Time) MatterUnarchived {
	return MatterUnarchived{
		BaseEvent: BaseEvent{
			AggregateID: matterID.String(),
			EventType:   "matter.unarchived",
			Timestamp:   timestamp,
			Version:     1,
		},
		MatterID: matterID,
		UserID:   userID,
	}
}

// MatterDeleted is raised on soft delete
type MatterDeleted struct {
	BaseEvent
	MatterID valueobjects.MatterID `json:"matter_id"`
	UserID   string                `json:"user_id"`
}

// NewMatterDeleted creates a MatterDeleted event
func NewMatterDeleted(matterID valueobjects.MatterID, userID string, timestamp time.Time) MatterDeleted {
	return MatterDeleted{
		BaseEvent: BaseEvent{
			AggregateID: matterID.String(),
			EventType:   "matter.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		MatterID: matterID,
		UserID:   userID,
	}
}

// MatterRestored is raised when a soft-deleted matter is restored
type MatterRestored struct {
	BaseEvent
	MatterID valueobjects.MatterID `json:"matter_id"`
	UserID   string                `json:"user_id"`
}

// NewMatterRestored creates a MatterRestored event
func NewMatterRestored(matterID valueobjects.MatterID, userID string, timestamp time.Time) MatterRestored {
	return MatterRestored{
		BaseEvent: BaseEvent{
			AggregateID: matterID.String(),
			EventType:   "matter.restored",
			Timestamp:   timestamp,
			Version:     1,
		},
		MatterID: matterID,
		UserID:   userID,
	}
}
