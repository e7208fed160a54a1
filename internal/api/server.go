package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"studycompanion/internal/config"
	"studycompanion/internal/models"
	"studycompanion/internal/providers"
	"studycompanion/internal/storage"
	"studycompanion/internal/util"
)

const (
	msgNoText          = "Could not extract text from PDF"
	msgNoSession       = "Session not found. Please upload a PDF first."
	msgNoTopicMaterial = "Session not found. Please upload topic material first."

	summaryChunks = 6
)

// Extractor turns uploaded PDF bytes into plain text.
type Extractor func([]byte) (string, error)

type Server struct {
	cfg      config.Config
	docs     DocumentStore
	accounts *accounts
	extract  Extractor
	llm      providers.LLMProvider
	log      zerolog.Logger
}

type Option func(*Server)

func WithExtractor(fn Extractor) Option {
	return func(s *Server) { s.extract = fn }
}

// WithDocumentStore replaces the in-memory document store.
func WithDocumentStore(d DocumentStore) Option {
	return func(s *Server) { s.docs = d }
}

// WithLLM replaces the provider used for answers and summaries.
func WithLLM(p providers.LLMProvider) Option {
	return func(s *Server) { s.llm = p }
}

// WithBcryptCost lowers hashing cost, mainly for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.accounts.cost = cost }
}

func NewServer(cfg config.Config, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		docs:     NewMemoryDocuments(),
		accounts: newAccounts(bcrypt.DefaultCost),
		extract:  util.ExtractPDFTextBytes,
		llm:      providers.New(cfg.LLMProvider, cfg.OllamaURL, cfg.OllamaModel, 0),
		log:      log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var registerTagNames sync.Once

// jsonFieldName reports validation failures under the JSON key.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func (s *Server) Routes() http.Handler {
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", s.handleHealth)

	student := r.Group("/student")
	student.POST("/upload", s.handleUpload(models.UserStudent))
	student.POST("/ask", s.handleAsk)
	student.POST("/summary", s.handleSummary)
	student.POST("/quiz", s.handleQuiz)

	teacher := r.Group("/teacher")
	teacher.POST("/upload", s.handleUpload(models.UserTeacher))
	teacher.POST("/generate-paper", s.handleGeneratePaper)

	auth := r.Group("/auth/:role")
	auth.POST("/login", s.handleLogin)
	auth.POST("/register", s.handleRegister)

	r.NoRoute(func(c *gin.Context) { writeErr(c, http.StatusNotFound, "Not Found") })
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleUpload(owner models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := int64(s.cfg.MaxUploadMB) << 20
		if limit > 0 {
			if c.Request.ContentLength > limit {
				// Drain a bounded amount so the client reads the 413 rather than a reset.
				_, _ = io.Copy(io.Discard, io.LimitReader(c.Request.Body, 4*limit))
				writeErr(c, http.StatusRequestEntityTooLarge, s.tooLargeMsg())
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeErr(c, http.StatusRequestEntityTooLarge, s.tooLargeMsg())
				return
			}
			writeErr(c, http.StatusBadRequest, "No file uploaded")
			return
		}
		name := filepath.Base(fh.Filename)
		if !util.IsPDFName(name) {
			writeErr(c, http.StatusBadRequest, util.ErrNotPDF.Error())
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeErr(c, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			writeErr(c, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
			return
		}

		text, err := s.extract(data)
		if err != nil || strings.TrimSpace(text) == "" {
			if err != nil && !errors.Is(err, util.ErrNoExtractableText) {
				s.log.Warn().Err(err).Str("filename", name).Msg("pdf extraction failed")
			}
			writeErr(c, http.StatusBadRequest, msgNoText)
			return
		}

		doc := models.Document{
			SessionID: uuid.NewString(),
			Filename:  name,
			Owner:     owner,
			Chunks:    util.ChunkText(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap),
			CreatedAt: time.Now().UTC(),
		}
		if err := s.docs.SaveDocument(c.Request.Context(), doc); err != nil {
			s.log.Error().Err(err).Str("filename", name).Msg("save document")
			writeErr(c, http.StatusInternalServerError, "Error processing PDF: could not store document")
			return
		}
		total, _ := s.docs.CountDocuments(c.Request.Context())
		s.log.Info().
			Str("session_id", doc.SessionID).
			Str("filename", name).
			Str("owner", string(owner)).
			Int("chunks", len(doc.Chunks)).
			Int("documents", total).
			Msg("document indexed")

		msg := "PDF processed successfully"
		if owner == models.UserTeacher {
			msg = "Topic material processed successfully"
		}
		c.JSON(http.StatusOK, models.UploadResponse{
			Success:   true,
			Message:   msg,
			SessionID: doc.SessionID,
			Filename:  name,
		})
	}
}

// document loads a session's document, answering 404 with notFound when it is
// unknown.
func (s *Server) document(c *gin.Context, sessionID, notFound string) (models.Document, bool) {
	doc, err := s.docs.GetDocument(c.Request.Context(), sessionID)
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound):
		writeErr(c, http.StatusNotFound, notFound)
		return models.Document{}, false
	case err != nil:
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("load document")
		writeErr(c, http.StatusInternalServerError, "Could not load session")
		return models.Document{}, false
	}
	return doc, true
}

func (s *Server) tooLargeMsg() string {
	return fmt.Sprintf("File exceeds %d MB", s.cfg.MaxUploadMB)
}

func (s *Server) handleAsk(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		Question  string `json:"question" binding:"required"`
	}
	if !bind(c, &req) {
		return
	}
	doc, ok := s.document(c, req.SessionID, msgNoSession)
	if !ok {
		return
	}
	top := util.TopChunks(doc.Chunks, req.Question, 2)
	resp, info, err := s.llm.Generate(c.Request.Context(), providers.GenerateRequest{
		Operation: providers.OpAsk,
		Prompt:    req.Question,
		Context:   top,
	})
	if err != nil {
		s.generationFailed(c, "Error generating answer", info, err)
		return
	}
	sources := make([]string, 0, len(top))
	for _, t := range top {
		sources = append(sources, util.DisplaySnippet(t, 200))
	}
	c.JSON(http.StatusOK, models.AskResponse{Success: true, Answer: resp.Text, Sources: sources})
}

func (s *Server) handleSummary(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		MaxLength int    `json:"max_length"`
	}
	if !bind(c, &req) {
		return
	}
	doc, ok := s.document(c, req.SessionID, msgNoSession)
	if !ok {
		return
	}
	if req.MaxLength <= 0 {
		req.MaxLength = 500
	}
	sample := doc.Chunks
	if len(sample) > summaryChunks {
		sample = sample[:summaryChunks]
	}
	resp, info, err := s.llm.Generate(c.Request.Context(), providers.GenerateRequest{
		Operation: providers.OpSummary,
		Context:   sample,
		MaxWords:  req.MaxLength,
	})
	if err != nil {
		s.generationFailed(c, "Error generating summary", info, err)
		return
	}
	c.JSON(http.StatusOK, models.SummaryResponse{Success: true, Summary: resp.Text})
}

// generationFailed answers 503 when the model backend is unreachable and 500
// otherwise.
func (s *Server) generationFailed(c *gin.Context, prefix string, info providers.ProviderInfo, err error) {
	class := providers.ClassifyError(err)
	s.log.Error().Err(err).
		Str("provider", info.Name).
		Str("model", info.Model).
		Str("class", string(class)).
		Msg(strings.ToLower(prefix))
	status := http.StatusInternalServerError
	if class == providers.ErrorUnavailable {
		status = http.StatusServiceUnavailable
	}
	writeErr(c, status, prefix+": "+err.Error())
}

func (s *Server) handleQuiz(c *gin.Context) {
	var req struct {
		SessionID    string `json:"session_id" binding:"required"`
		NumQuestions int    `json:"num_questions" binding:"lte=100"`
		Difficulty   string `json:"difficulty"`
	}
	if !bind(c, &req) {
		return
	}
	doc, ok := s.document(c, req.SessionID, msgNoSession)
	if !ok {
		return
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = 5
	}
	c.JSON(http.StatusOK, models.QuizResponse{Success: true, Quiz: buildQuiz(doc.Chunks, req.NumQuestions, req.Difficulty)})
}

func (s *Server) handleGeneratePaper(c *gin.Context) {
	var req paperRequest
	if !bind(c, &req) {
		return
	}
	doc, ok := s.document(c, req.SessionID, msgNoTopicMaterial)
	if !ok {
		return
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = 10
	}
	p := buildPaper(doc.Chunks, req)
	s.log.Info().
		Str("session_id", req.SessionID).
		Str("owner", string(doc.Owner)).
		Str("test_mode", req.TestMode).
		Int("questions", p.QuestionCount()).
		Msg("question paper generated")
	c.JSON(http.StatusOK, p)
}

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Subject  string `json:"subject"`
}

func roleParam(c *gin.Context) (models.UserType, bool) {
	switch role := models.UserType(c.Param("role")); role {
	case models.UserStudent, models.UserTeacher:
		return role, true
	default:
		writeErr(c, http.StatusNotFound, "Not Found")
		return "", false
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	var req credentials
	if !bind(c, &req) {
		return
	}
	u, err := s.accounts.register(role, req.Email, req.Password, req.Subject)
	switch {
	case errors.Is(err, errAccountExists), errors.Is(err, errWeakPassword), errors.Is(err, errLongPassword):
		writeErr(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeErr(c, http.StatusInternalServerError, "Registration failed")
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{Success: true, Message: "Registration successful", User: &u})
}

func (s *Server) handleLogin(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	var req credentials
	if !bind(c, &req) {
		return
	}
	u, err := s.accounts.login(role, req.Email, req.Password)
	if err != nil {
		writeErr(c, http.StatusUnauthorized, err.Error())
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{Success: true, Message: "Login successful", User: &u})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// bind decodes the JSON body. Validation failures answer 422 with a list of
// {loc, msg, type} entries under detail.
func bind(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeErr(c, http.StatusUnprocessableEntity, "Invalid JSON body")
		return false
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "Field required"
		if fe.Tag() != "required" {
			msg = fmt.Sprintf("Field failed %s validation", fe.Tag())
		}
		out = append(out, fieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  msg,
			Type: fe.Tag(),
		})
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": out})
	return false
}

func writeErr(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}
