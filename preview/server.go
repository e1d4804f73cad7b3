// Package preview serves read-only HTTP view of a document being edited.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetc/layout"
	"sheetc/render"
	"sheetc/session"
	"sheetc/sheet"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// LayoutResponse describes page and column assignment of blocks.
type LayoutResponse struct {
	Pages     int               `json:"pages"`
	Positions []layout.Position `json:"positions"`
}

// Server renders session document on request. Session access is
// serialized.
type Server struct {
	mu       sync.Mutex
	sess     *session.Session
	renderer *render.Renderer
	log      *zap.Logger
}

func New(sess *session.Session, renderer *render.Renderer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{sess: sess, renderer: renderer, log: log.Named("preview")}
}

// Router builds request router.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())

	router.GET("/", s.pages)
	router.GET("/document.json", s.document)
	router.GET("/markup", s.markup)
	router.GET("/layout", s.layout)
	router.GET("/layout/:id", s.position)
	return router
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("Request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) pages(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := s.renderer.Write(c.Request.Context(), &buf, s.sess.Document(), s.sess.Pages()); err != nil {
		respondError(c, http.StatusInternalServerError, "render", err)
		return
	}
	c.Data(http.StatusOK, "application/xhtml+xml; charset=utf-8", buf.Bytes())
}

func (s *Server) document(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := sheet.Encode(&buf, s.sess.Document(), s.sess.Settings()); err != nil {
		respondError(c, http.StatusInternalServerError, "encode", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (s *Server) markup(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.String(http.StatusOK, s.sess.Export())
}

func (s *Server) layout(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.sess.Pages()
	c.JSON(http.StatusOK, LayoutResponse{Pages: len(l.Pages), Positions: l.Positions()})
}

func (s *Server) position(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	col, idx := s.sess.Pages().Find(id)
	if col == nil {
		respondError(c, http.StatusNotFound, "not_found", fmt.Errorf("block %q is not placed", id))
		return
	}
	c.JSON(http.StatusOK, layout.Position{BlockID: id, Page: col.Page, Side: col.Side, Index: idx})
}

// Run serves requests on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	s.log.Info("Preview server started", zap.String("address", addr))

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("Preview server stopped")
	return nil
}
