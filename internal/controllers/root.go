package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/abuse"
	"github.com/clearproof/api/internal/audit"
	"github.com/clearproof/api/internal/billing"
	"github.com/clearproof/api/internal/llm"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/quota"
	"github.com/clearproof/api/internal/store"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "controllers"})

// Server holds the collaborators the request handlers dispatch to.
type Server struct {
	Router      *echo.Echo
	Store       *store.Client
	Quota       *quota.Policy
	Usage       *quota.Accountant
	Locks       *quota.AccountLocks
	Gate        *abuse.Gate
	LLM         *llm.Client
	Billing     *billing.Client
	Audit       *audit.Logger
	Service     string
	Version     string
	FrontendURL string
}

// ServiceInfo describes the service in the root response.
//
// swagger:model
type ServiceInfo struct {

	// The service name
	Service string `json:"service"`

	// The service version
	Version string `json:"version"`
}

// RootHandler handles the root endpoint, which doubles as a health check.
func (s Server) RootHandler(ctx echo.Context) error {
	return model.Success(ctx, ServiceInfo{Service: s.Service, Version: s.Version}, http.StatusOK)
}

// HealthHandler reports service health for load-balancer probes.
func (s Server) HealthHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
