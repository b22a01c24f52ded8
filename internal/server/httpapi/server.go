package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/fu050409/bronya/internal/logging"
	"github.com/fu050409/bronya/internal/server/services"
)

// HTTPServer serves the account API over HTTP.
type HTTPServer struct {
	address  string
	accounts *services.AccountService
	sessions *services.SessionService
	avatars  *services.AvatarService
	logger   logging.Logger
}

// NewHTTPServer constructs the HTTP transport over the given services.
func NewHTTPServer(address string, l logging.Logger, as *services.AccountService, ss *services.SessionService, av *services.AvatarService) *HTTPServer {
	return &HTTPServer{
		address:  address,
		accounts: as,
		sessions: ss,
		avatars:  av,
		logger:   l.With("module", "http_server"),
	}
}

// Routes returns the API handler. Split out from Run so tests can drive the
// mux directly with httptest.
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/account/create", s.handleRegister)
	mux.HandleFunc("POST /api/account/login", s.handleLogin)
	mux.HandleFunc("POST /api/account/logout", s.handleLogout)
	mux.HandleFunc("DELETE /api/account/delete", s.handleDeleteAccount)
	mux.HandleFunc("PUT /api/account/profile/update", s.handleUpdateProfile)
	mux.HandleFunc("POST /api/account/avatar/upload-url", s.handleAvatarUploadURL)
	mux.HandleFunc("POST /api/account/avatar/download-url", s.handleAvatarDownloadURL)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
