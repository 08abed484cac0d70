package http

import (
	"context"
	"net/http"

	"github.com/zaytuna-store/go-backend/internal/cfg"
)

// maxHeaderBytes ограничивает заголовки запроса; тела ограничиваются
// на уровне хендлеров.
const maxHeaderBytes = 1 << 20

// Server оборачивает http.Server с таймаутами из конфигурации.
type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:           ":" + cfg.Port,
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			MaxHeaderBytes: maxHeaderBytes,
		},
	}
}

// Run блокируется до остановки сервера; при штатном Stop возвращает
// http.ErrServerClosed.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Stop мягко гасит сервер, дожидаясь активных запросов в пределах ctx.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
