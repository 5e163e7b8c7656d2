package fakeapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	sharedQuery "github.com/davicafu/vetquery/internal/shared/infra/platform/query"
	"github.com/davicafu/vetquery/pkg/utils"
)

// Dataset es una colección servida por el endpoint Filter.
type Dataset struct {
	Schema  Schema
	Records []map[string]any
}

type Options struct {
	// Secret, si no está vacío, exige un JWT HS256 válido en Authorization: Bearer.
	Secret []byte
	Log    *zap.Logger
}

// Server simula el servicio REST de la clínica: POST /<entidad>/Filter/<size>/<page>.
type Server struct {
	mu             sync.RWMutex
	datasets       map[string]Dataset
	secret         []byte
	latency        time.Duration
	forceStatus    int
	omitPagination bool
	requests       atomic.Int64
	log            *zap.Logger
	engine         *gin.Engine
}

func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		datasets: make(map[string]Dataset),
		secret:   opts.Secret,
		log:      log,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	RegisterRoutes(router, s)
	s.engine = router
	return s
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/:entity/Filter/:size/:page", s.authenticate(), s.Filter)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Seed reemplaza la colección servida en /<path>.
func (s *Server) Seed(path string, dataset Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[path] = dataset
}

// SetLatency retrasa cada respuesta.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// SetForceStatus hace que todas las peticiones respondan con 'status' (0 lo desactiva).
func (s *Server) SetForceStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceStatus = status
}

// SetOmitPagination quita la clave pagination de las respuestas.
func (s *Server) SetOmitPagination(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitPagination = omit
}

// Requests cuenta las peticiones recibidas en el endpoint Filter.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// ---------------- Middleware ----------------

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("fakeapi request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.requests.Add(1)
		if len(s.secret) == 0 {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			utils.SendForbidden(c, "missing bearer token")
			return
		}
		if _, err := ParseToken(s.secret, raw); err != nil {
			utils.SendForbidden(c, "invalid or expired token")
			return
		}
		c.Next()
	}
}

// ---------------- Handler ----------------

// Filter endpoint POST /:entity/Filter/:size/:page
func (s *Server) Filter(c *gin.Context) {
	s.mu.RLock()
	latency, forced, omit := s.latency, s.forceStatus, s.omitPagination
	dataset, found := s.datasets[c.Param("entity")]
	s.mu.RUnlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-c.Request.Context().Done():
			return
		}
	}

	if forced != 0 {
		utils.SendError(c, forced, fmt.Sprintf("forced status %d", forced))
		return
	}
	if !found {
		utils.SendNotFound(c, "entity not found")
		return
	}

	size, errSize := strconv.Atoi(c.Param("size"))
	page, errPage := strconv.Atoi(c.Param("page"))
	if errSize != nil || errPage != nil || size < 1 || page < 1 {
		utils.SendBadRequest(c, "page size and page number must be positive integers")
		return
	}

	body := map[string]any{}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		utils.SendBadRequest(c, "invalid JSON body")
		return
	}
	if errs := validateBody(dataset.Schema, body); len(errs) > 0 {
		utils.SendValidationErrors(c, errs)
		return
	}

	matched := make([]map[string]any, 0)
	for _, rec := range dataset.Records {
		if Match(dataset.Schema, body, rec) {
			matched = append(matched, rec)
		}
	}

	total := len(matched)
	data := make([]map[string]any, 0, size)
	if total > 0 {
		start := sharedQuery.StartIndex(page, size)
		end := sharedQuery.EndIndex(page, size, total)
		if start <= end {
			data = append(data, matched[start-1:end]...)
		}
	}

	if omit {
		utils.SendPage(c, data, nil)
		return
	}
	utils.SendPage(c, data, &utils.Pagination{Total: total, CurrentPage: page})
}

// validateBody rechaza límites de rango que no son números.
func validateBody(schema Schema, body map[string]any) []utils.FieldError {
	var errs []utils.FieldError
	for key, v := range body {
		for _, suffix := range []string{"_min", "_max"} {
			field, ok := strings.CutSuffix(key, suffix)
			if !ok || schema[field] != KindRange || v == nil {
				continue
			}
			if _, ok := asNumber(v); !ok {
				errs = append(errs, utils.FieldError{Field: key, Msg: key + " must be numeric"})
			}
		}
	}
	return errs
}

// ---------------- JWT ----------------

// IssueToken firma un JWT HS256 para 'subject'.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken valida firma, algoritmo y caducidad.
func ParseToken(secret []byte, raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
