package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
)

func TestNewTransferRecordPair(t *testing.T) {
	documentID := valueobjects.NewDocumentID()
	source := valueobjects.NewMatterID()
	dest := valueobjects.NewMatterID()
	occurredAt := time.Now()

	from, to, err := NewTransferRecordPair(documentID, valueobjects.DocumentID{}, source, dest, events.TransferMove, "brief.pdf", "user-1", occurredAt)
	require.NoError(t, err)

	// Both records share one TransferID and timestamp.
	assert.Equal(t, from.TransferID, to.TransferID)
	assert.Equal(t, from.OccurredAt, to.OccurredAt)
	assert.NotEqual(t, from.RecordID, to.RecordID)

	// The FROM record files under the source, the TO record under the
	// destination, each pointing at the other end.
	assert.Equal(t, TransferDirectionFrom, from.Direction)
	assert.True(t, from.MatterID.Equals(source))
	assert.True(t, from.CounterpartMatterID.Equals(dest))

	assert.Equal(t, TransferDirectionTo, to.Direction)
	assert.True(t, to.MatterID.Equals(dest))
	assert.True(t, to.CounterpartMatterID.Equals(source))

	assert.Equal(t, events.TransferMove, from.Operation)
	assert.Equal(t, "brief.pdf", from.FileName)
	assert.True(t, from.CopyDocumentID.IsZero())
}

func TestNewTransferRecordPair_CopyCarriesCopyID(t *testing.T) {
	copyID := valueobjects.NewDocumentID()

	from, to, err := NewTransferRecordPair(
		valueobjects.NewDocumentID(), copyID,
		valueobjects.NewMatterID(), valueobjects.NewMatterID(),
		events.TransferCopy, "exhibit.pdf", "user-1", time.Now(),
	)
	require.NoError(t, err)

	assert.True(t, from.CopyDocumentID.Equals(copyID))
	assert.True(t, to.CopyDocumentID.Equals(copyID))
}

func TestNewTransferRecordPair_Validation(t *testing.T) {
	documentID := valueobjects.NewDocumentID()
	source := valueobjects.NewMatterID()
	dest := valueobjects.NewMatterID()

	_, _, err := NewTransferRecordPair(valueobjects.DocumentID{}, valueobjects.DocumentID{}, source, dest, events.TransferMove, "a.pdf", "user-1", time.Now())
	assert.Error(t, err)

	_, _, err = NewTransferRecordPair(documentID, valueobjects.DocumentID{}, source, source, events.TransferMove, "a.pdf", "user-1", time.Now())
	assert.Error(t, err)

	_, _, err = NewTransferRecordPair(documentID, valueobjects.DocumentID{}, source, dest, "rename", "a.pdf", "user-1", time.Now())
	assert.Error(t, err)

	_, _, err = NewTransferRecordPair(documentID, valueobjects.DocumentID{}, source, dest, events.TransferMove, "a.pdf", "", time.Now())
	assert.Error(t, err)
}

func TestNewMatterActivityRecord_DefaultsTimestamp(t *testing.T) {
	record, err := NewMatterActivityRecord(valueobjects.NewMatterID(), "user-1", MatterActivityCreated, time.Time{})
	require.NoError(t, err)
	assert.False(t, record.OccurredAt.IsZero())
	assert.NotEmpty(t, record.RecordID)
}

func TestNewDocumentActivityRecord_Validation(t *testing.T) {
	_, err := NewDocumentActivityRecord(valueobjects.DocumentID{}, valueobjects.NewMatterID(), "user-1", DocumentActivityCreated, time.Now())
	assert.Error(t, err)

	_, err = NewDocumentActivityRecord(valueobjects.NewDocumentID(), valueobjects.NewMatterID(), "", DocumentActivityCreated, time.Now())
	assert.Error(t, err)
}
