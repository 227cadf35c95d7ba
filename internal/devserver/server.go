// Package devserver is an in-memory implementation of the job board's
// authentication API. It issues real, expiring access tokens and HTTP-only
// refresh cookies so that session handling can be exercised end to end
// without the production backend. Emailed OTPs are written to the log
// instead.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/topcv/jobboard"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// BasePath is the path every API endpoint lives under.
const BasePath = "/TopCV/api/v1"

type account struct {
	user          jobboard.User
	passwordHash  []byte
	emailVerified bool
}

type otpRecord struct {
	email   string
	otp     string
	expires time.Time
}

type refreshRecord struct {
	email   string
	expires time.Time
}

// Server is the development API server.
type Server struct {
	config Config
	logger zerolog.Logger
	router *mux.Router
	now    func() time.Time

	mu sync.Mutex
	// accounts are indexed by email address
	accounts   map[string]*account
	lastUserID int
	// verifications are indexed by verification token
	verifications map[string]otpRecord
	// resets are indexed by email address
	resets map[string]otpRecord
	// refreshTokens are indexed by token
	refreshTokens map[string]refreshRecord
	// revoked holds the IDs of access tokens ended by logout, along with when
	// they would have expired anyway
	revoked  map[string]time.Time
	lastOTPs map[string]string
}

// NewServer returns a development API server with no accounts.
func NewServer(config Config, logger zerolog.Logger) *Server {
	s := &Server{
		config:        config,
		logger:        logger,
		router:        mux.NewRouter(),
		now:           time.Now,
		accounts:      map[string]*account{},
		verifications: map[string]otpRecord{},
		resets:        map[string]otpRecord{},
		refreshTokens: map[string]refreshRecord{},
		revoked:       map[string]time.Time{},
		lastOTPs:      map[string]string{},
	}
	if config.Clock != nil {
		s.now = config.Clock
	}
	s.router.StrictSlash(true)
	s.router.Use(s.logRequests)
	api := s.router.PathPrefix(BasePath).Subrouter()
	s.registerAuthEndpoints(api)
	s.registerUsersEndpoints(api)

	// Health check
	s.router.HandleFunc("/healthz", s.checkHealth).Methods(http.MethodGet)

	return s
}

// Handler returns the server's HTTP handler. It accepts HTTP/2 without TLS.
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.router, &http2.Server{})
}

// ListenAndServe serves requests until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Msgf("API server is listening without TLS on 0.0.0.0:%d", s.config.Port)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("API server stopped")
	return nil
}

// LastOTP returns the most recent OTP emailed to the specified address.
func (s *Server) LastOTP(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOTPs[email]
}

// sendOTPLocked records an OTP as sent. There is no mail server; the OTP
// is logged.
func (s *Server) sendOTPLocked(email string, otp string, purpose string) {
	s.lastOTPs[email] = otp
	s.logger.Info().
		Str("email", email).
		Str("purpose", purpose).
		Str("otp", otp).
		Msg("OTP sent")
}

func (s *Server) isRevoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok
}

func (s *Server) checkHealth(w http.ResponseWriter, r *http.Request) {
	s.serveRequest(
		inboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return "ok", nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
