// Package httpmodel defines the request payloads accepted by the API,
// together with their validation rules.
package httpmodel

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/clearproof/api/internal/model"
)

// Define a single validator to do all of the validations for us.
var v = validator.New()

// NewModule is the payload for creating a module.
//
// swagger:model
type NewModule struct {

	// The module title
	//
	// required: true
	Title string `json:"title" validate:"required,max=200"`

	// The raw document text to build the module from
	//
	// required: true
	OriginalContent string `json:"original_content" validate:"required"`

	// The name of the uploaded file
	//
	// required: true
	FileName string `json:"file_name" validate:"required,max=200"`

	// The initial processing status
	Status string `json:"status" validate:"omitempty,oneof=processing ready error"`
}

// Validate verifies that all the required fields in a new module are present.
func (m NewModule) Validate() error {
	return errors.Wrap(v.Struct(m), "invalid module")
}

// ToModel converts the payload to its semantic model. Modules start in the
// processing state unless the caller says otherwise.
func (m NewModule) ToModel(accountID string) model.Module {
	status := m.Status
	if status == "" {
		status = model.ModuleStatusProcessing
	}
	return model.Module{
		AccountID:       accountID,
		Title:           m.Title,
		OriginalContent: m.OriginalContent,
		FileName:        m.FileName,
		Status:          status,
	}
}

// ModuleUpdate is the payload for partially updating a module.
//
// swagger:model
type ModuleUpdate struct {

	// The module title
	Title string `json:"title" validate:"omitempty,max=200"`

	// The simplified rendition of the document
	ProcessedContent string `json:"processed_content"`

	// The generated comprehension questions, as a JSON document
	Questions string `json:"questions"`

	// The processing status
	Status string `json:"status" validate:"omitempty,oneof=processing ready error"`
}

// Validate verifies the fields of a module update.
func (m ModuleUpdate) Validate() error {
	return errors.Wrap(v.Struct(m), "invalid module update")
}

// ToModel converts the payload to its semantic model.
func (m ModuleUpdate) ToModel() model.Module {
	return model.Module{
		Title:            m.Title,
		ProcessedContent: m.ProcessedContent,
		Questions:        m.Questions,
		Status:           m.Status,
	}
}
