package httpmodel

import "github.com/pkg/errors"

// TranslateRequest is the payload for translating module content.
//
// swagger:model
type TranslateRequest struct {

	// The content to translate
	//
	// required: true
	Content string `json:"content" validate:"required"`

	// The target language
	//
	// required: true
	Language string `json:"language" validate:"required,max=50"`
}

// Validate verifies that all the required fields are present.
func (r TranslateRequest) Validate() error {
	return errors.Wrap(v.Struct(r), "invalid translate request")
}

// QuestionsRequest is the payload for generating comprehension questions.
//
// swagger:model
type QuestionsRequest struct {

	// The content to generate questions from
	//
	// required: true
	Content string `json:"content" validate:"required"`

	// The language to generate the questions in; defaults to English
	Language string `json:"language" validate:"omitempty,max=50"`
}

// Validate verifies that all the required fields are present.
func (r QuestionsRequest) Validate() error {
	return errors.Wrap(v.Struct(r), "invalid questions request")
}
