package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"infuranode/internal/chain"
	"infuranode/internal/jsonutil"
	"infuranode/internal/node"
	"infuranode/internal/wallet"
)

type optionsRequest struct {
	ContractABI string `json:"contractABI"`
	Mutability  string `json:"mutability"`
	Method      string `json:"method"`
}

type optionsResponse struct {
	Options []string `json:"options"`
}

type executeRequest struct {
	Credentials chain.Credentials      `json:"credentials"`
	Parameters  map[string]interface{} `json:"parameters"`
	Items       []node.Item            `json:"items"`
}

type executeResponse struct {
	Items []node.Item `json:"items"`
}

type errorDetail struct {
	Message   string `json:"message"`
	Operation string `json:"operation,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func (s *Server) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, node.Describe())
}

func (s *Server) handleMethodOptions(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	mutability, err := node.ParseMutability(req.Mutability)
	if err != nil {
		s.writeError(w, "", err)
		return
	}

	methods, err := node.MethodOptions(req.ContractABI, mutability)
	if err != nil {
		s.writeError(w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: methods})
}

func (s *Server) handleInputOptions(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	inputs, err := node.InputOptions(req.ContractABI, req.Method)
	if err != nil {
		s.writeError(w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: inputs})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	operation, _ := req.Parameters["operation"].(string)
	items, err := s.engine.Execute(r.Context(), req.Credentials, req.Parameters, req.Items)
	if err != nil {
		s.writeError(w, operation, err)
		return
	}
	writeJSON(w, http.StatusOK, executeResponse{Items: items})
}

// readJSON decodes the request body within the configured size limit. A
// false return means the error response has already been written.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := r.Body
	if s.cfg.MaxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.writeError(w, "", jsonutil.ErrInvalidJSON)
		return false
	}
	return true
}

// writeError maps an execution error onto the HTTP status: caller
// mistakes are 400, upstream failures are 502, the rest is 500. Error
// text goes to the response as-is; it never contains wallet material.
func (s *Server) writeError(w http.ResponseWriter, operation string, err error) {
	status := http.StatusInternalServerError
	var rpcErr *chain.RPCError
	switch {
	case errors.Is(err, jsonutil.ErrInvalidJSON),
		errors.Is(err, chain.ErrMissingCredentials),
		errors.Is(err, node.ErrUnknownOperation),
		errors.Is(err, wallet.ErrNoSecret):
		status = http.StatusBadRequest
	case errors.As(err, &rpcErr):
		status = http.StatusBadGateway
	}

	s.logger.Warn().
		Err(err).
		Str("operation", operation).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, errorResponse{Error: errorDetail{
		Message:   err.Error(),
		Operation: operation,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
