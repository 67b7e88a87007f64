package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rezonia/myinvois/internal/codes"
	"github.com/rezonia/myinvois/internal/document"
	"github.com/rezonia/myinvois/internal/model"
	"github.com/rezonia/myinvois/internal/signature"
	"github.com/rezonia/myinvois/internal/signature/trust"
	xmlsig "github.com/rezonia/myinvois/internal/signature/xml"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	// Logger defaults to a no-op logger
	Logger *zap.Logger
	// TrustStore holds the roots signed documents are verified against
	TrustStore *trust.TrustStore
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	verifier *xmlsig.XMLVerifier
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	trustStore := config.TrustStore
	if trustStore == nil {
		trustStore, _ = trust.NewTrustStore()
	}

	registry := prometheus.NewRegistry()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	s := &Server{
		config:   config,
		router:   router,
		logger:   log,
		registry: registry,
		metrics:  NewMetrics(registry),
		verifier: xmlsig.NewXMLVerifier(trustStore),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/transform", s.handleTransform)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/verify", s.handleVerify)

		v1.GET("/codes", s.handleCodeTables)
		v1.GET("/codes/:table", s.handleCodes)
	}
}

// Run starts the HTTP server and stops it when ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", s.config.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry exposes the server's metrics registry
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readInvoice decodes the request body, writing a 400 on failure
func (s *Server) readInvoice(c *gin.Context) (*model.Invoice, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}

	inv, err := model.ParseInvoice(bytes.NewReader(body), "request")
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice", Details: err.Error()})
		return nil, false
	}
	return inv, true
}

func (s *Server) handleTransform(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "xml" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "format must be json or xml"})
		return
	}

	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}

	var opts []document.Option
	if c.Query("strict") == "true" {
		opts = append(opts, document.WithStrictTime())
	}
	if c.Query("validate") == "true" {
		opts = append(opts, document.WithValidation())
	}

	start := time.Now()
	doc, err := document.Transform(inv, opts...)
	if err != nil {
		s.metrics.ObserveTransform(transformOutcome(err), len(inv.InvoiceLineItems), time.Since(start))
		_ = c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
			Valid:  false,
			Errors: issuesFrom(err),
		})
		return
	}

	var (
		data        []byte
		contentType string
	)
	if format == "xml" {
		data, err = xmlsig.RenderXMLBytes(doc)
		contentType = "application/xml; charset=utf-8"
	} else {
		data, err = doc.JSON()
		contentType = "application/json; charset=utf-8"
	}
	if err != nil {
		s.metrics.ObserveTransform(OutcomeRenderError, len(inv.InvoiceLineItems), time.Since(start))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to render document", Details: err.Error()})
		return
	}

	s.metrics.ObserveTransform(OutcomeSuccess, len(inv.InvoiceLineItems), time.Since(start))
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) handleValidate(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}

	issues := issuesFrom(inv.Validate())
	c.JSON(http.StatusOK, ValidationResponse{
		Valid:  len(issues) == 0,
		Errors: issues,
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	if !s.verifier.CanVerify(body) {
		err := signature.ErrUnsupportedFormat(http.DetectContentType(body))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "body is not an XML document", Details: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := s.verifier.Verify(ctx, body)
	if err != nil {
		_ = c.Error(err)
		resp := ErrorResponse{Error: "signature verification failed", Details: err.Error()}
		if result != nil {
			resp.Warnings = result.Warnings
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	response := VerifyResponse{
		Valid:          result.Valid,
		SignatureFound: result.SignatureFound,
		SignatureValid: result.SignatureValid,
		CertChainValid: result.CertChainValid,
		CertInValidity: result.CertInValidity,
		DocumentID:     result.DocumentID,
		Format:         result.Format,
		SignedAt:       result.SignedAt,
		Warnings:       result.Warnings,
		Errors:         result.Errors,
	}

	if result.Signer != nil {
		response.Signer = &SignerInfoOutput{
			Name:          result.Signer.Name,
			Organization:  result.Signer.Organization,
			SubjectSerial: result.Signer.SubjectSerial,
			SerialNumber:  result.Signer.SerialNumber,
			Issuer:        result.Signer.Issuer,
			ValidFrom:     &result.Signer.ValidFrom,
			ValidTo:       &result.Signer.ValidTo,
		}
	}

	if result.Valid {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusUnprocessableEntity, response)
	}
}

func (s *Server) handleCodeTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": codes.Names()})
}

func (s *Server) handleCodes(c *gin.Context) {
	table, ok := codes.Get(c.Param("table"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown code table", Details: c.Param("table")})
		return
	}

	entries := table.Entries()
	if q := c.Query("q"); q != "" {
		entries = table.Search(q)
	}

	c.JSON(http.StatusOK, CodesResponse{
		Table:   table.Name(),
		Count:   len(entries),
		Entries: entries,
	})
}

// issuesFrom flattens a joined validation error into response entries
func issuesFrom(err error) []ValidationIssue {
	if err == nil {
		return nil
	}

	errs := []error{err}
	// Transform wraps the joined error with the invoice number
	for e := err; e != nil; e = errors.Unwrap(e) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			errs = joined.Unwrap()
			break
		}
	}

	issues := make([]ValidationIssue, 0, len(errs))
	for _, e := range errs {
		var (
			verr *model.ValidationError
			terr *model.MalformedTimeError
		)
		switch {
		case errors.As(e, &verr):
			issues = append(issues, ValidationIssue{Field: verr.Field, Rule: verr.Rule, Message: verr.Message})
		case errors.As(e, &terr):
			issues = append(issues, ValidationIssue{Field: "eInvoiceTime", Rule: "format", Message: terr.Error()})
		default:
			issues = append(issues, ValidationIssue{Message: e.Error()})
		}
	}
	return issues
}
