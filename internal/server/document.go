package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
)

type createDocumentRequest struct {
	Type          string         `json:"type"`
	CompanyCode   string         `json:"company_code"`
	ClientAddress string         `json:"client_address"`
	ClientName    string         `json:"client_name"`
	Metadata      map[string]any `json:"metadata"`
}

type reviseDocumentRequest struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type allocateNumberRequest struct {
	Type          string `json:"type"`
	CompanyCode   string `json:"company_code"`
	ClientAddress string `json:"client_address"`
}

func (s *Server) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.Create(c.Request.Context(), documentdomain.CreateRequest{
		Type:          documentdomain.DocumentType(strings.TrimSpace(req.Type)),
		CompanyCode:   strings.TrimSpace(req.CompanyCode),
		ClientAddress: strings.TrimSpace(req.ClientAddress),
		ClientName:    strings.TrimSpace(req.ClientName),
		Metadata:      req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReviseDocument(c *gin.Context) {
	var req reviseDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.Revise(c.Request.Context(), documentdomain.ReviseRequest{
		Type:   documentdomain.DocumentType(strings.TrimSpace(req.Type)),
		Number: strings.TrimSpace(req.Number),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDocumentByID(c *gin.Context) {
	resp, err := s.documentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLatestDocument(c *gin.Context) {
	docType := documentdomain.DocumentType(strings.TrimSpace(c.Query("type")))
	number := strings.TrimSpace(c.Query("number"))
	if number == "" {
		AbortWithError(c, newValidationError("number", "invalid_number", "number is required"))
		return
	}

	resp, err := s.documentSvc.GetLatest(c.Request.Context(), docType, number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLatestDocumentVersion(c *gin.Context) {
	docType := documentdomain.DocumentType(strings.TrimSpace(c.Query("type")))
	number := strings.TrimSpace(c.Query("number"))
	if number == "" {
		AbortWithError(c, newValidationError("number", "invalid_number", "number is required"))
		return
	}

	version, err := s.documentSvc.LatestVersion(c.Request.Context(), docType, number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"version": version}})
}

func (s *Server) ListDocuments(c *gin.Context) {
	var query struct {
		Type        string `form:"type"`
		CompanyCode string `form:"company_code"`
		Number      string `form:"number"`
		LatestOnly  bool   `form:"latest_only"`
		Limit       int    `form:"limit"`
		Offset      int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.List(c.Request.Context(), documentdomain.ListRequest{
		Type:        documentdomain.DocumentType(strings.TrimSpace(query.Type)),
		CompanyCode: strings.TrimSpace(query.CompanyCode),
		Number:      strings.TrimSpace(query.Number),
		LatestOnly:  query.LatestOnly,
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AllocateDocumentNumber(c *gin.Context) {
	var req allocateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	number, err := s.documentSvc.AllocateNumber(
		c.Request.Context(),
		documentdomain.DocumentType(strings.TrimSpace(req.Type)),
		strings.TrimSpace(req.ClientAddress),
		strings.TrimSpace(req.CompanyCode),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"number": number}})
}

func (s *Server) ListDocumentLineItems(c *gin.Context) {
	resp, err := s.lineItemSvc.ListByDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
