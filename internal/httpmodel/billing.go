package httpmodel

import "github.com/pkg/errors"

// CheckoutRequest is the payload for starting a subscription checkout.
//
// swagger:model
type CheckoutRequest struct {

	// The plan to subscribe to
	//
	// required: true
	Plan string `json:"plan" validate:"required,oneof=starter professional enterprise"`

	// The billing email address
	//
	// required: true
	Email string `json:"email" validate:"required,email"`
}

// Validate verifies that all the required fields are present.
func (r CheckoutRequest) Validate() error {
	return errors.Wrap(v.Struct(r), "invalid checkout request")
}
