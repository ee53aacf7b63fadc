package httpmodel

import (
	"github.com/pkg/errors"

	"github.com/clearproof/api/internal/model"
)

// NewWorker is the payload for registering a worker.
//
// swagger:model
type NewWorker struct {

	// The worker's display name
	//
	// required: true
	Name string `json:"name" validate:"required,max=100"`

	// The employer-assigned worker identifier
	//
	// required: true
	WorkerID string `json:"worker_id" validate:"required,max=50"`

	// The worker's phone number
	Phone string `json:"phone" validate:"omitempty,max=20"`

	// The worker's preferred language code
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,max=10"`
}

// Validate verifies that all the required fields in a new worker are present.
func (w NewWorker) Validate() error {
	return errors.Wrap(v.Struct(w), "invalid worker")
}

// ToModel converts the payload to its semantic model.
func (w NewWorker) ToModel() model.Worker {
	return model.Worker{
		Name:              w.Name,
		WorkerID:          w.WorkerID,
		Phone:             w.Phone,
		PreferredLanguage: w.PreferredLanguage,
	}
}

// WorkerUpdate is the payload for partially updating a worker.
//
// swagger:model
type WorkerUpdate struct {

	// The worker's display name
	Name string `json:"name" validate:"omitempty,max=100"`

	// The worker's phone number
	Phone string `json:"phone" validate:"omitempty,max=20"`

	// The worker's preferred language code
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,max=10"`
}

// Validate verifies the fields of a worker update.
func (w WorkerUpdate) Validate() error {
	return errors.Wrap(v.Struct(w), "invalid worker update")
}

// ToModel converts the payload to its semantic model.
func (w WorkerUpdate) ToModel() model.Worker {
	return model.Worker{
		Name:              w.Name,
		Phone:             w.Phone,
		PreferredLanguage: w.PreferredLanguage,
	}
}
