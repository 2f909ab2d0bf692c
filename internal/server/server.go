package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smj9504/mj-estimate/internal/company"
	companydomain "github.com/smj9504/mj-estimate/internal/company/domain"
	"github.com/smj9504/mj-estimate/internal/config"
	"github.com/smj9504/mj-estimate/internal/document"
	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	"github.com/smj9504/mj-estimate/internal/lineitem"
	lineitemdomain "github.com/smj9504/mj-estimate/internal/lineitem/domain"
	"github.com/smj9504/mj-estimate/internal/observability"
	obsmiddleware "github.com/smj9504/mj-estimate/internal/observability/logger"
	obsmetrics "github.com/smj9504/mj-estimate/internal/observability/metrics"
	obstracing "github.com/smj9504/mj-estimate/internal/observability/tracing"
	"github.com/smj9504/mj-estimate/internal/tax"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	document.Module,
	company.Module,
	tax.Module,
	lineitem.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type engineParams struct {
	fx.In

	ObsCfg      observability.Config
	HTTPMetrics *obsmetrics.HTTPMetrics `optional:"true"`
}

func registerGin(p engineParams) *gin.Engine {
	return NewEngine(p.ObsCfg, p.HTTPMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	documentSvc documentdomain.Service
	companySvc  companydomain.Service
	taxSvc      taxdomain.Service
	lineItemSvc lineitemdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DocumentSvc documentdomain.Service
	CompanySvc  companydomain.Service
	TaxSvc      taxdomain.Service
	LineItemSvc lineitemdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		documentSvc: p.DocumentSvc,
		companySvc:  p.CompanySvc,
		taxSvc:      p.TaxSvc,
		lineItemSvc: p.LineItemSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Documents --------
	api.GET("/documents", s.ListDocuments)
	api.POST("/documents", s.CreateDocument)
	api.GET("/documents/:id", s.GetDocumentByID)
	api.GET("/documents/:id/items", s.ListDocumentLineItems)
	api.POST("/documents/allocate-number", s.AllocateDocumentNumber)
	api.GET("/documents/latest", s.GetLatestDocument)
	api.GET("/documents/latest-version", s.GetLatestDocumentVersion)
	api.POST("/documents/revise", s.ReviseDocument)

	// -------- Line Items --------
	api.POST("/line-items", s.CreateLineItem)
	api.GET("/line-items/:id", s.GetLineItemByID)
	api.PUT("/line-items/:id", s.UpdateLineItem)
	api.DELETE("/line-items/:id", s.DeleteLineItem)

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.PATCH("/companies/:id", s.UpdateCompany)
	api.DELETE("/companies/:id", s.DeleteCompany)
	api.POST("/companies/ensure-code", s.EnsureCompanyCode)

	// -------- Tax Rules --------
	api.GET("/tax-rules", s.ListTaxRules)
	api.POST("/tax-rules", s.CreateTaxRule)
	api.GET("/tax-rules/:id", s.GetTaxRuleByID)
	api.PATCH("/tax-rules/:id", s.UpdateTaxRule)
	api.POST("/tax-rules/:id/disable", s.DisableTaxRule)
}
