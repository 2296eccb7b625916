package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/castgraph/pkg/analysis"
	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/graph"
)

// maxBodyBytes caps the /analyze request body.
const maxBodyBytes = 1 << 16

type analyzeRequest struct {
	BookID    json.RawMessage `json:"book_id"`
	PartIndex json.RawMessage `json:"part_index"`
	Refresh   bool            `json:"refresh"`
}

type analyzeResponse struct {
	Result graph.Result `json:"result"`
}

// handleAnalyze handles POST /analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	bookID, err := parseBookID(body.BookID)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}
	partIndex, err := parsePartIndex(body.PartIndex)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}

	out, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		BookID:    bookID,
		PartIndex: partIndex,
		Refresh:   body.Refresh,
	})
	if err != nil {
		writeError(w, statusFor(err), errors.UserMessage(err))
		return
	}

	if out.Cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Result: out.Result})
}

// parseBookID accepts a JSON string or integer. Absent, null, empty and
// zero values count as missing.
func parseBookID(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New(errors.ErrCodeInvalidBookID, errors.MsgMissingBookID)
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, errors.New(errors.ErrCodeInvalidBookID, errors.MsgBookIDNotInt)
		}
	} else {
		s = string(raw)
	}
	if s == "0" {
		return 0, errors.New(errors.ErrCodeInvalidBookID, errors.MsgMissingBookID)
	}
	return errors.ParseBookID(s)
}

func parsePartIndex(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return analysis.DefaultPartIndex, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "part_index must be an integer")
	}
	return n, nil
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeBookNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidBookID, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
