package commands

import (
	"errors"

	"lexmatter/pkg/utils"
)

// CreateMatterCommand represents the command to open a new matter
type CreateMatterCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	Number      string `json:"number" validate:"required,max=50"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ClientName  string `json:"client_name" validate:"max=200"`
}

// Validate validates the command
func (cmd *CreateMatterCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateMatterCommand represents the command to update a matter's metadata
type UpdateMatterCommand struct {
	MatterID    string `json:"matter_id" validate:"required,uuid"`
	UserID      string `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ClientName  string `json:"client_name" validate:"max=200"`
}

// Validate validates the command
func (cmd *UpdateMatterCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// MatterLifecycleAction names a state change applied to a matter
type MatterLifecycleAction string

const (
	MatterActionArchive   MatterLifecycleAction = "archive"
	MatterActionUnarchive MatterLifecycleAction = "unarchive"
	MatterActionDelete    MatterLifecycleAction = "delete"
	MatterActionRestore   MatterLifecycleAction = "restore"
)

// ChangeMatterStateCommand represents the command to archive, unarchive,
// soft-delete or restore a matter
type ChangeMatterStateCommand struct {
	MatterID string                `json:"matter_id" validate:"required,uuid"`
	UserID   string                `json:"user_id" validate:"required"`
	Action   MatterLifecycleAction `json:"action" validate:"required"`
}

// Validate validates the command
func (cmd *ChangeMatterStateCommand) Validate() error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}
	switch cmd.Action {
	case MatterActionArchive, MatterActionUnarchive, MatterActionDelete, MatterActionRestore:
		return nil
	default:
		return errors.New("action must be one of archive, unarchive, delete, restore")
	}
}
