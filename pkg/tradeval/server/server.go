package server

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

// Quoter fans a valuation out to the configured providers
type Quoter interface {
	QuoteAll(ctx context.Context, v dal.VehicleDescription) ([]dal.SourceQuote, []dal.ProviderFailure)
}

// VINDecoder resolves a raw VIN
type VINDecoder interface {
	Decode(ctx context.Context, raw string) dal.VinDecodeResult
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(addr string, quoter Quoter, decoder VINDecoder, log *zap.Logger) *http.Server {
	server := newHTTPServer(quoter, decoder, log)
	return &http.Server{
		Addr:    addr,
		Handler: server.router(),
	}
}

type httpServer struct {
	log      *zap.Logger
	quoter   Quoter
	decoder  VINDecoder
	validate *validator.Validate
}

func newHTTPServer(quoter Quoter, decoder VINDecoder, log *zap.Logger) *httpServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &httpServer{
		log:      log,
		quoter:   quoter,
		decoder:  decoder,
		validate: dal.NewValidator(),
	}
}

func (h *httpServer) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/valuation", h.GetValuation).Methods(http.MethodGet)
	api.HandleFunc("/valuation", h.PostValuation).Methods(http.MethodPost)
	api.HandleFunc("/vin/{vin}", h.GetVIN).Methods(http.MethodGet)
	return r
}
