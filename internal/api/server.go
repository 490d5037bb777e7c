package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/metrics"
)

// Server HTTP обработчики операций планировщика
type Server struct {
	slots        SlotService
	appointments AppointmentService
	customers    CustomerService
	board        Board
	events       Subscriber
	upgrader     websocket.Upgrader
	logger       *zap.Logger
}

func NewServer(
	slots SlotService,
	appointments AppointmentService,
	customers CustomerService,
	board Board,
	events Subscriber,
	logger *zap.Logger,
) *Server {
	return &Server{
		slots:        slots,
		appointments: appointments,
		customers:    customers,
		board:        board,
		events:       events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// RouterOptions параметры сборки роутера
type RouterOptions struct {
	CORSOrigins    []string
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // nil - без /metrics
}

// NewRouter собирает все маршруты
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(RecoverMiddleware(s.logger))
	if opts.Metrics != nil {
		r.Use(MetricsMiddleware(opts.Metrics))
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Слоты ---
	api.HandleFunc("/slots", s.listSlots).Methods(http.MethodGet)
	api.HandleFunc("/slots", s.createSlot).Methods(http.MethodPost)
	api.HandleFunc("/slots/{id}", s.getSlot).Methods(http.MethodGet)
	api.HandleFunc("/slots/{id}", s.updateSlot).Methods(http.MethodPatch)
	api.HandleFunc("/slots/{id}", s.deleteSlot).Methods(http.MethodDelete)
	api.HandleFunc("/slots/{id}/move", s.moveSlot).Methods(http.MethodPost)

	// --- Встречи ---
	api.HandleFunc("/appointments/{id}/assign", s.assign).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/approve", s.approve).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/remove", s.remove).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/status", s.setStatus).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{id}/move", s.moveCustomer).Methods(http.MethodPost)

	// --- Клиенты ---
	api.HandleFunc("/customers/{id}/qc-final", s.updateQCFinal).Methods(http.MethodPut)

	// --- Доска и события ---
	api.HandleFunc("/board", s.getBoard).Methods(http.MethodGet)
	api.HandleFunc("/events", s.streamEvents).Methods(http.MethodGet)

	if len(opts.CORSOrigins) == 0 {
		return r
	}

	s.upgrader.CheckOrigin = originChecker(opts.CORSOrigins)
	return cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
