package commands

import (
	"errors"

	"lexmatter/pkg/utils"
)

// CreateDocumentCommand represents the command to file a new document under
// a matter
type CreateDocumentCommand struct {
	MatterID   string `json:"matter_id" validate:"required,uuid"`
	UserID     string `json:"user_id" validate:"required"`
	FileName   string `json:"file_name" validate:"required,max=255"`
	FileSize   int64  `json:"file_size" validate:"min=0"`
	Checksum   string `json:"checksum" validate:"omitempty,len=64,hexadecimal"`
	MimeType   string `json:"mime_type" validate:"max=255"`
}

// Validate validates the command
func (cmd *CreateDocumentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// RenameDocumentCommand represents the command to rename a document
type RenameDocumentCommand struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
	UserID     string `json:"user_id" validate:"required"`
	FileName   string `json:"file_name" validate:"required,max=255"`
}

// Validate validates the command
func (cmd *RenameDocumentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DocumentLifecycleAction names a state change applied to a document
type DocumentLifecycleAction string

const (
	DocumentActionDelete  DocumentLifecycleAction = "delete"
	DocumentActionRestore DocumentLifecycleAction = "restore"
)

// ChangeDocumentStateCommand represents the command to soft-delete or
// restore a document
type ChangeDocumentStateCommand struct {
	DocumentID string                  `json:"document_id" validate:"required,uuid"`
	UserID     string                  `json:"user_id" validate:"required"`
	Action     DocumentLifecycleAction `json:"action" validate:"required"`
}

// Validate validates the command
func (cmd *ChangeDocumentStateCommand) Validate() error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}
	switch cmd.Action {
	case DocumentActionDelete, DocumentActionRestore:
		return nil
	default:
		return errors.New("action must be one of delete, restore")
	}
}

// CheckOutDocumentCommand represents the command to take the editing lease
// on a document
type CheckOutDocumentCommand struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
	UserID     string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd *CheckOutDocumentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// CheckInDocumentCommand represents the command to release the editing lease
// and record the edited content as the next revision
type CheckInDocumentCommand struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
	UserID     string `json:"user_id" validate:"required"`
	FileSize   int64  `json:"file_size" validate:"min=0"`
	Checksum   string `json:"checksum" validate:"omitempty,len=64,hexadecimal"`
}

// Validate validates the command
func (cmd *CheckInDocumentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// CancelCheckOutCommand represents the command to release the editing lease
// without creating a revision
type CancelCheckOutCommand struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
	UserID     string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd *CancelCheckOutCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
