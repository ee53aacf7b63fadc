package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/httpmodel"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/store"
)

// TransformResponse is the body returned by the transform endpoint.
//
// swagger:model
type TransformResponse struct {

	// True when the module was processed
	Success bool `json:"success"`

	// The simplified rendition of the document
	Processed string `json:"processed"`
}

// TransformModule rewrites a module's raw document into simplified sections
// and marks the module ready.
func (s Server) TransformModule(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "transforming module", "module": ctx.Param("id")})

	context := ctx.Request().Context()

	module, err := s.getOwnedModule(ctx, ctx.Param("id"))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	if module.OriginalContent == "" {
		return model.Error(ctx, "no content to process", http.StatusBadRequest)
	}

	processed, err := s.LLM.TransformContent(context, module.OriginalContent)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	_, err = s.Store.UpdateRecord(context, store.CollectionModules, module.ID, store.EncodeModule(model.Module{
		ProcessedContent: processed,
		Status:           model.ModuleStatusReady,
	}))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	s.Audit.Record(auditEntry(ctx, auth.AccountID(ctx), "transform", "module", module.ID, map[string]interface{}{}))

	log.Info("transformed module content")

	return model.Success(ctx, TransformResponse{Success: true, Processed: processed}, http.StatusOK)
}

// TranslateContent translates module content into a target language.
func (s Server) TranslateContent(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "translating content"})

	var body httpmodel.TranslateRequest
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	translated, err := s.LLM.TranslateContent(ctx.Request().Context(), body.Content, body.Language)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, map[string]string{"translated": translated}, http.StatusOK)
}

// GenerateQuestions generates comprehension questions for module content.
func (s Server) GenerateQuestions(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "generating questions"})

	var body httpmodel.QuestionsRequest
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	language := body.Language
	if language == "" {
		language = "en"
	}

	questions, err := s.LLM.GenerateQuestions(ctx.Request().Context(), body.Content, language)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, map[string]string{"questions": questions}, http.StatusOK)
}
