package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
)

type licenseResponse struct {
	Key             string     `json:"key"`
	OrderID         string     `json:"order_id"`
	UserID          string     `json:"user_id,omitempty"`
	ActivationEmail string     `json:"activation_email"`
	ProductID       string     `json:"product_id"`
	ActivationLimit int        `json:"activation_limit"`
	DateCreated     time.Time  `json:"date_created"`
	DateExpires     *time.Time `json:"date_expires,omitempty"`
}

func toLicenseResponse(l *licensedomain.License) licenseResponse {
	resp := licenseResponse{
		Key:             l.Key,
		OrderID:         l.OrderID.String(),
		ActivationEmail: l.ActivationEmail,
		ProductID:       l.ProductID.String(),
		ActivationLimit: l.ActivationLimit,
		DateCreated:     l.DateCreated,
		DateExpires:     l.DateExpires,
	}
	if l.UserID != 0 {
		resp.UserID = l.UserID.String()
	}
	return resp
}

func (s *Server) GetLicense(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))

	license, err := s.licenses.GetByKey(c.Request.Context(), key)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if license == nil {
		AbortWithError(c, licensedomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toLicenseResponse(license)})
}
