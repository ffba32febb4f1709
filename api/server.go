package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"binobj/bwire"
	"binobj/crypto"
	"binobj/log"
	"binobj/record"
	"binobj/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	SchemaHeader = "X-Binobj-Schema"

	DefaultMaxBodyBytes = 1 << 20
)

type Opts struct {
	Host         string
	Port         int
	DB           *leveldb.DB
	Codec        *bwire.ConfiguredCodec
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	// UserLocker guards stored users against concurrent writers. Shared
	// with the RPC server when both serve the same store.
	UserLocker *util.MultiLocker[string]
}

type Server struct {
	host         string
	port         int
	db           *leveldb.DB
	codec        *bwire.ConfiguredCodec
	codecs       *Registry
	metrics      *Metrics
	schema       crypto.Hash
	maxBodyBytes int64
	userLocker   *util.MultiLocker[string]
	router       chi.Router
	srv          *http.Server
	lis          net.Listener
	lgr          log.Logger
}

func NewServer(opts *Opts) (*Server, error) {
	codec := opts.Codec
	if codec == nil {
		def := bwire.DefaultCodec()
		codec = &def
	}
	codecs, err := NewRegistry(codec)
	if err != nil {
		return nil, err
	}
	userLocker := opts.UserLocker
	if userLocker == nil {
		userLocker = util.NewMultiLocker[string]()
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		host:         opts.Host,
		port:         opts.Port,
		db:           opts.DB,
		codec:        codec,
		codecs:       codecs,
		metrics:      NewMetrics(),
		schema:       codec.Fingerprint(record.UserSchema()),
		maxBodyBytes: maxBody,
		userLocker:   userLocker,
		lgr:          log.WithModule("api-server"),
	}
	s.router = s.routes(opts.CORSOrigins)
	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes(origins []string) chi.Router {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SchemaHeader},
		ExposedHeaders:   []string{SchemaHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.checkSchema)
		r.Use(s.limitBody)

		r.Post("/buf", s.handleEcho(ContentTypeBinary))
		r.Post("/json", s.handleEcho(ContentTypeJSON))
		r.Post("/cbor", s.handleEcho(ContentTypeCBOR))

		if s.db != nil {
			r.Get("/users", s.handleListUsers)
			r.Put("/users/{id}", s.handlePutUser)
			r.Get("/users/{id}", s.handleGetUser)
			r.Delete("/users/{id}", s.handleDeleteUser)
		}
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return errors.Wrap(err, "error opening HTTP listener")
	}
	s.lis = lis
	s.lgr.Info("started HTTP server", "addr", lis.Addr().String())
	go func() {
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.lgr.Error("HTTP server exited", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound listener address. Only valid after Start.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, route, status, duration)
		s.lgr.Trace(
			"handled request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
		)
	})
}

// checkSchema rejects requests whose declared record schema differs from the
// one this server decodes with. Requests without the header pass through.
func (s *Server) checkSchema(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(SchemaHeader)
		if header != "" {
			fp, err := crypto.NewHashFromHex(header)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid schema header"))
				return
			}
			if !fp.Equal(s.schema) {
				s.writeError(w, http.StatusConflict, errors.Errorf("schema mismatch: server has %s", s.schema))
				return
			}
		}
		w.Header().Set(SchemaHeader, s.schema.String())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
