package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/domain"
)

const (
	apiVersion     = "1.0.0"
	welcomeMessage = "Welcome to the Freelance Marketplace API"
)

// Welcome handles GET /api.
func Welcome(w http.ResponseWriter, _ *http.Request) error {
	dto.WriteSuccess(w, http.StatusOK, dto.NewSuccess(map[string]string{"version": apiVersion}, welcomeMessage))
	return nil
}

// RouteNotFound reports any request that matched no route, including a known
// path with an unsupported method.
func RouteNotFound(_ http.ResponseWriter, r *http.Request) error {
	return domain.NotFound("Route " + r.RequestURI + " not found")
}
