package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/finvault/mpcx/ledger"
	"github.com/finvault/mpcx/mpc"
)

type ComputationRequestBody struct {
	ParticipantID   string      `json:"participant_id"`
	ComputationType string      `json:"computation_type"`
	Input           interface{} `json:"input"`
}

type TransactionBody struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// Server exposes the exchange and the ledger over plain JSON endpoints.
type Server struct {
	exchange mpc.Exchange
	ledger   *ledger.LedgerModule
}

func NewServer(exchange mpc.Exchange, ledgerModule *ledger.LedgerModule) *Server {
	return &Server{
		exchange: exchange,
		ledger:   ledgerModule,
	}
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/mpc/initialize", s.initializeHandler)
	mux.HandleFunc("/mpc/requests", s.requestHandler)
	mux.HandleFunc("/mpc/results", s.resultsHandler)
	mux.HandleFunc("/transactions", s.transactionHandler)

	log.Info().Msgf("http server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) initializeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ok := s.exchange.Initialize()
	writeJSON(w, map[string]bool{"initialized": ok})
}

func (s *Server) requestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body ComputationRequestBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, "Invalid post request", http.StatusBadRequest)
		return
	}

	request, err := s.exchange.CreateRequest(body.ParticipantID,
		body.ComputationType, body.Input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, request)
}

func (s *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	results, err := s.exchange.ListCompletedResults()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		payload = append(payload, map[string]interface{}{
			"id":     res.RequestID,
			"type":   res.ComputationType,
			"result": res.Value,
		})
	}
	writeJSON(w, payload)
}

func (s *Server) transactionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txns, err := s.ledger.Recent(0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, txns)

	case http.MethodPost:
		var body TransactionBody
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			http.Error(w, "Invalid post request", http.StatusBadRequest)
			return
		}

		txn, err := s.ledger.Add(body.Description, body.Amount, body.Type)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, txn)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	bytes, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(bytes)
}
