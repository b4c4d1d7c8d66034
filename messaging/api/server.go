package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"neurostring/consensus/conductor"
	"neurostring/consensus/fingerprint"
	"neurostring/consensus/network"
	"neurostring/memory/resonance"
	"neurostring/neurostring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrCoreNotWired is answered on every core route when the server runs without a network.
var ErrCoreNotWired = errors.New("core not wired")

// Core is what the HTTP layer needs from the network. *conductor.Conductor implements it.
type Core interface {
	HandleTransaction(p fingerprint.Payload) network.Result
	AddNode() string
	Consensus(p fingerprint.Payload) (bool, bool)
	Retrieve(fp string) (fingerprint.Payload, resonance.Match)
	FindByResonance(frequency, tolerance float64) []fingerprint.Fingerprint
	History() []network.TransactionRecord
	State() conductor.State
}

type Server struct {
	core        Core
	coreEnabled bool
	router      *mux.Router
	addr        string
	wsInterval  time.Duration
}

// New builds the HTTP layer. With a nil core, or coreEnabled false in conf, every core route
// answers 503.
func New(conf *viper.Viper, core Core) *Server {
	s := &Server{
		core:        core,
		coreEnabled: core != nil && conf.GetBool("coreEnabled"),
		router:      mux.NewRouter(),
		addr:        conf.GetString("listenAddr"),
		wsInterval:  conf.GetDuration("wsInterval"),
	}
	if s.wsInterval <= 0 {
		s.wsInterval = 5 * time.Second
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// catch the websocket call before anything else
	s.router.Path("/ws").HandlerFunc(s.requireCore(s.handleWebsocket()))
	r := s.router.PathPrefix("/api").Subrouter()
	r.HandleFunc("/stats", s.requireCore(s.handleStats)).Methods(http.MethodGet)
	r.HandleFunc("/transaction", s.requireCore(s.handleTransaction)).Methods(http.MethodPost)
	r.HandleFunc("/add_node", s.requireCore(s.handleAddNode)).Methods(http.MethodPost)
	r.HandleFunc("/consensus", s.requireCore(s.handleConsensus)).Methods(http.MethodGet)
	r.HandleFunc("/memory/{fingerprint}", s.requireCore(s.handleMemory)).Methods(http.MethodGet)
	r.HandleFunc("/resonance", s.requireCore(s.handleResonance)).Methods(http.MethodGet)
	r.HandleFunc("/history", s.requireCore(s.handleHistory)).Methods(http.MethodGet)
}

// Handler is the router wrapped with permissive CORS.
func (s *Server) Handler() http.Handler {
	return cors.Default().Handler(s.router)
}

// Start serves until terminate is closed.
func (s *Server) Start(terminate chan struct{}, wg *sync.WaitGroup) {
	neurostring.LogCLI("Starting the HTTP server", 4)
	if !s.coreEnabled {
		neurostring.LogCLI("the core is not wired, API routes will answer 503", 2)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		Addr:              s.addr,
		WriteTimeout:      2 * time.Second,
		ReadTimeout:       2 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-terminate
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			neurostring.LogCLI(err.Error(), 2)
		}
		neurostring.LogCLI("HTTP server has shut down", 4)
	}()
	go func() {
		neurostring.LogCLI(fmt.Sprintf("listening on %s", srv.Addr), 4)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			neurostring.LogCLI(err.Error(), 1)
		}
	}()
}

func (s *Server) requireCore(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.coreEnabled {
			writeError(w, http.StatusServiceUnavailable, ErrCoreNotWired)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		neurostring.LogCLI(err.Error(), 3)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": err.Error()})
}
