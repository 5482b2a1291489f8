package server

import (
	"context"
	"log"
	"net/http"

	"github.com/derktes/ir-scrutinizer/config"
	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/pkg/errors"
)

// Server analyzes frames published by collectors and serves the results
type Server struct {
	cfg       *config.Config
	tolerance *irsignal.ToleranceStore
	analyzer  *irsignal.Analyzer
	// dbLock holds the database while nobody uses it
	dbLock    chan *frameDatabase
	debugMode bool
	mux       *http.ServeMux
}

// New builds a Server from cfg. The tolerance starts at the configured
// value and may later be changed through PUT /ir/tolerance.
func New(cfg *config.Config) (*Server, error) {
	tol, err := cfg.ToleranceValue()
	if err != nil {
		return nil, errors.Wrap(err, "tolerance")
	}
	store, err := irsignal.NewToleranceStore(tol)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.RepeatOptions()
	if err != nil {
		return nil, errors.Wrap(err, "repeat options")
	}
	analyzer, err := irsignal.NewAnalyzer(store, opts, cfg.Analysis.Clean)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:       cfg,
		tolerance: store,
		analyzer:  analyzer,
		dbLock:    make(chan *frameDatabase, 1),
		debugMode: cfg.Logging.Debug,
		mux:       http.NewServeMux(),
	}
	s.dbLock <- newDatabase(cfg.Server.StreamBuffer, cfg.Logging.Debug)

	// URL patterns: [
	//   /ir/frame            POST a frame, GET analyzed signals (?cid=)
	//   /ir/frame/cid/pid/value
	//   /ir/collector
	//   /ir/tolerance        GET, PUT
	//   /ir/stream           websocket
	// ]
	s.mux.HandleFunc("/ir/frame", s.frameQueryHandler)
	s.mux.HandleFunc("/ir/frame/", s.signalPathHandler)
	s.mux.HandleFunc("/ir/collector", s.collectorQueryHandler)
	s.mux.HandleFunc("/ir/tolerance", s.toleranceHandler)
	s.mux.HandleFunc("/ir/stream", s.frameStreamHandler)
	return s, nil
}

// Handler returns the HTTP handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Tolerance returns the store holding the current tolerance.
func (s *Server) Tolerance() *irsignal.ToleranceStore {
	return s.tolerance
}

// Start listens on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	signalServer := http.Server{Addr: s.cfg.Server.Address, Handler: s.mux}
	signalServer.RegisterOnShutdown(func() {
		log.Print("Shutting down server")
	})
	go func() {
		<-ctx.Done()
		signalServer.Shutdown(context.Background())
	}()
	log.Printf("Server started on %s", s.cfg.Server.Address)
	if err := signalServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "listen")
	}
	return nil
}
