package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
)

type createTaxRuleRequest struct {
	Name        string          `json:"name"`
	Method      string          `json:"method"`
	Rate        decimal.Decimal `json:"rate"`
	Description *string         `json:"description,omitempty"`
}

type updateTaxRuleRequest struct {
	Name        *string          `json:"name,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (s *Server) CreateTaxRule(c *gin.Context) {
	var req createTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Create(c.Request.Context(), taxdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Method:      taxdomain.TaxMethod(strings.TrimSpace(req.Method)),
		Rate:        req.Rate,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTaxRuleByID(c *gin.Context) {
	resp, err := s.taxSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxRules(c *gin.Context) {
	var query struct {
		Name      string `form:"name"`
		Method    string `form:"method"`
		IsEnabled string `form:"is_enabled"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	isEnabled, err := parseOptionalBool(query.IsEnabled)
	if err != nil {
		AbortWithError(c, newValidationError("is_enabled", "invalid_is_enabled", "invalid is_enabled"))
		return
	}

	resp, err := s.taxSvc.List(c.Request.Context(), taxdomain.ListRequest{
		Name:      strings.TrimSpace(query.Name),
		Method:    strings.TrimSpace(query.Method),
		IsEnabled: isEnabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTaxRule(c *gin.Context) {
	var req updateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Update(c.Request.Context(), taxdomain.UpdateRequest{
		ID:          c.Param("id"),
		Name:        req.Name,
		Rate:        req.Rate,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableTaxRule(c *gin.Context) {
	resp, err := s.taxSvc.Disable(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
