package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	activationdomain "github.com/smallbiznis/licentia/internal/activation/domain"
)

type activateRequest struct {
	Email    string `json:"email"`
	Instance string `json:"instance"`
}

type activationResponse struct {
	ID             string    `json:"id"`
	LicenseKey     string    `json:"license_key"`
	Email          string    `json:"email"`
	Instance       string    `json:"instance"`
	Active         bool      `json:"active"`
	ActivationDate time.Time `json:"activation_date"`
}

func toActivationResponse(a *activationdomain.Activation) activationResponse {
	return activationResponse{
		ID:             a.ID.String(),
		LicenseKey:     a.LicenseKey,
		Email:          a.Email,
		Instance:       a.Instance,
		Active:         a.Active,
		ActivationDate: a.ActivationDate,
	}
}

func (s *Server) ActivateLicense(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "invalid request body")
		return
	}

	activation, err := s.activations.Activate(
		c.Request.Context(),
		strings.TrimSpace(c.Param("key")),
		strings.TrimSpace(req.Email),
		strings.TrimSpace(req.Instance),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toActivationResponse(activation)})
}

func (s *Server) DeactivateLicense(c *gin.Context) {
	err := s.activations.Deactivate(
		c.Request.Context(),
		strings.TrimSpace(c.Param("key")),
		strings.TrimSpace(c.Param("instance")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListActivations(c *gin.Context) {
	activations, err := s.activations.ListByLicense(c.Request.Context(), strings.TrimSpace(c.Param("key")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]activationResponse, 0, len(activations))
	for i := range activations {
		resp = append(resp, toActivationResponse(&activations[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
