package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// MatterID is a value object representing a unique matter identifier
type MatterID struct {
	value string
}

// NewMatterID creates a new random MatterID
func NewMatterID() MatterID {
	return MatterID{value: uuid.New().String()}
}

// NewMatterIDFromString creates a MatterID from an existing string
func NewMatterIDFromString(id string) (MatterID, error) {
	if id == "" {
		return MatterID{}, errors.New("matter ID cannot be empty")
	}
	if !isValidUUID(id) {
		return MatterID{}, errors.New("matter ID must be a valid UUID")
	}
	return MatterID{value: id}, nil
}

// String returns the string representation of the MatterID
func (id MatterID) String() string {
	return id.value
}

// Equals checks if two MatterIDs are equal
func (id MatterID) Equals(other MatterID) bool {
	return id.value == other.value
}

// IsZero checks if the MatterID is the zero value
func (id MatterID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id MatterID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *MatterID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// DocumentID is a value object representing a unique document identifier
type DocumentID struct {
	value string
}

// NewDocumentID creates a new random DocumentID
func NewDocumentID() DocumentID {
	return DocumentID{value: uuid.New().String()}
}

// NewDocumentIDFromString creates a DocumentID from an existing string
func NewDocumentIDFromString(id string) (DocumentID, error) {
	if id == "" {
		return DocumentID{}, errors.New("document ID cannot be empty")
	}
	if !isValidUUID(id) {
		return DocumentID{}, errors.New("document ID must be a valid UUID")
	}
	return DocumentID{value: id}, nil
}

// String returns the string representation of the DocumentID
func (id DocumentID) String() string {
	return id.value
}

// Equals checks if two DocumentIDs are equal
func (id DocumentID) Equals(other DocumentID) bool {
	return id.value == other.value
}

// IsZero checks if the DocumentID is the zero value
func (id DocumentID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// RevisionID is a value object representing a unique revision identifier
type RevisionID struct {
	value string
}

// NewRevisionID creates a new random RevisionID
func NewRevisionID() RevisionID {
	return RevisionID{value: uuid.New().String()}
}

// NewRevisionIDFromString creates a RevisionID from an existing string
func NewRevisionIDFromString(id string) (RevisionID, error) {
	if id == "" {
		return RevisionID{}, errors.New("revision ID cannot be empty")
	}
	if !isValidUUID(id) {
		return RevisionID{}, errors.New("revision ID must be a valid UUID")
	}
	return RevisionID{value: id}, nil
}

// String returns the string representation of the RevisionID
func (id RevisionID) String() string {
	return id.value
}

// Equals checks if two RevisionIDs are equal
func (id RevisionID) Equals(other RevisionID) bool {
	return id.value == other.value
}

// IsZero checks if the RevisionID is the zero value
func (id RevisionID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id RevisionID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *RevisionID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

func marshalIDString(value string) ([]byte, error) {
	return []byte(`"` + value + `"`), nil
}

func unmarshalIDString(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", errors.New("ID must be a string")
	}
	return string(data[1 : len(data)-1]), nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
