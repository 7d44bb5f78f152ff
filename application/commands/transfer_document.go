package commands

import (
	"errors"

	"lexmatter/domain/events"
	"lexmatter/pkg/utils"
)

// TransferDocumentCommand represents the command to move or copy a document
// between matters
type TransferDocumentCommand struct {
	DocumentID     string `json:"document_id" validate:"required,uuid"`
	SourceMatterID string `json:"source_matter_id" validate:"required,uuid"`
	DestMatterID   string `json:"dest_matter_id" validate:"required,uuid"`
	Operation      string `json:"operation" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd *TransferDocumentCommand) Validate() error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}
	switch events.TransferOperation(cmd.Operation) {
	case events.TransferMove, events.TransferCopy:
	default:
		return errors.New("operation must be move or copy")
	}
	if cmd.SourceMatterID == cmd.DestMatterID {
		return errors.New("source and destination matters must differ")
	}
	return nil
}
