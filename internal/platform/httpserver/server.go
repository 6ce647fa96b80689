package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	bucketengine "kolekta/contexts/collections-core/bucket-engine"
	collectionworkflow "kolekta/contexts/collections-core/collection-workflow"
	paymentledger "kolekta/contexts/collections-core/payment-ledger"
	ptpledger "kolekta/contexts/collections-core/ptp-ledger"
	recordlock "kolekta/contexts/collections-core/record-lock"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "kolekta/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	buckets  bucketengine.Module
	locks    recordlock.Module
	promises ptpledger.Module
	ledger   paymentledger.Module
	workflow collectionworkflow.Module
}

func New(
	buckets bucketengine.Module,
	locks recordlock.Module,
	promises ptpledger.Module,
	ledger paymentledger.Module,
	workflow collectionworkflow.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		buckets:  buckets,
		locks:    locks,
		promises: promises,
		ledger:   ledger,
		workflow: workflow,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/buckets/classify", s.handleClassifyBucket)

	s.mux.HandleFunc("POST /v1/installments/{installment_id}/lock", s.handleAcquireLock)
	s.mux.HandleFunc("POST /v1/installments/{installment_id}/unlock", s.handleReleaseLock)
	s.mux.HandleFunc("GET /v1/installments/{installment_id}/lock", s.handleLockStatus)
	s.mux.HandleFunc("GET /v1/installments/{installment_id}/lock/audits", s.handleLockAudits)

	s.mux.HandleFunc("POST /v1/installments/{installment_id}/promises", s.handleCreatePromise)
	s.mux.HandleFunc("GET /v1/promises/{promise_id}", s.handleGetPromise)
	s.mux.HandleFunc("POST /v1/promises/{promise_id}/resolve", s.handleResolvePromise)

	s.mux.HandleFunc("POST /v1/installments/{installment_id}/events", s.handlePostEvent)
	s.mux.HandleFunc("GET /v1/installments/{installment_id}/events", s.handleListEvents)
	s.mux.HandleFunc("POST /v1/events/{event_id}/void", s.handleVoidEvent)
	s.mux.HandleFunc("GET /v1/installments/{installment_id}/outstanding", s.handleOutstanding)

	s.mux.HandleFunc("POST /v1/installments/{installment_id}/contact-outcomes", s.handleContactOutcome)
	s.mux.HandleFunc("POST /v1/installments/{installment_id}/payments", s.handleRecordPayment)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
