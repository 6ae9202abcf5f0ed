package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

type Server struct {
	log       *slog.Logger
	addr      string
	shutdownT time.Duration
	handler   http.Handler
}

func NewServer(log *slog.Logger, addr string, shutdown time.Duration, rd Reader, mh MetricsHandler) *Server {
	return &Server{
		log:       log,
		addr:      addr,
		shutdownT: shutdown,
		handler:   NewRouter(log, rd, mh),
	}
}

func (s *Server) Name() string { return "http" }

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("http server started", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownT)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("http shutdown: force-close", "err", err)
			_ = srv.Close()
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NewRouter builds the read API. mh may be nil, which leaves /metrics unrouted.
func NewRouter(log *slog.Logger, rd Reader, mh MetricsHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if mh != nil {
		router.GET("/metrics", gin.WrapH(mh.Handler()))
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/puzzles/unsolved", listUnsolved(rd))
		v1.GET("/puzzles/:pk", getPuzzle(rd))
		v1.GET("/accounts/:id/balance", getBalance(rd))
	}
	return router
}

func listUnsolved(rd Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := rd.UnsolvedPuzzles(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func getPuzzle(rd Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		pk, err := entity.ParsePublicKey(c.Param("pk"))
		if err != nil {
			writeError(c, err)
			return
		}
		view, err := rd.Puzzle(c.Request.Context(), pk)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func getBalance(rd Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := entity.AccountID(c.Param("id"))
		bal, err := rd.Balance(c.Request.Context(), account)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, entity.BalanceResult{Account: account, Balance: bal})
	}
}

func writeError(c *gin.Context, err error) {
	code := entity.ErrorCode(err)
	status := http.StatusInternalServerError
	msg := "internal error"
	switch code {
	case "PUZZLE_NOT_FOUND":
		status, msg = http.StatusNotFound, err.Error()
	case "UNKNOWN_KEY_SCHEME", "BAD_REQUEST":
		status, msg = http.StatusBadRequest, err.Error()
	case "CORRUPT_INDEX":
		msg = err.Error()
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, entity.Response{Code: code, Error: msg})
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			log.Warn("http request failed", append(attrs, "err", c.Errors.String())...)
			return
		}
		log.Debug("http request", attrs...)
	}
}
