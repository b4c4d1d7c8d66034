package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cast"
	"neurostring/consensus/fingerprint"
	"neurostring/memory/resonance"
)

const maxBodySize = 1 << 20

type transactionRequest struct {
	Data interface{} `json:"data"`
}

type transactionResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Reached     int    `json:"reached"`
}

type memoryResponse struct {
	Fingerprint string              `json:"fingerprint"`
	Match       resonance.Match     `json:"match"`
	Kind        string              `json:"kind"`
	Data        fingerprint.Payload `json:"data"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.core.State())
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid transaction body: %w", err))
		return
	}
	p, err := fingerprint.From(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := s.core.HandleTransaction(p)
	writeJSON(w, http.StatusOK, transactionResponse{
		Success:     res.OK,
		Message:     res.Message,
		Status:      res.Status.String(),
		Fingerprint: res.FingerprintPrefix,
		Reached:     res.Reached,
	})
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	id := s.core.AddNode()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Added node " + id,
		"node":    id,
	})
}

// handleConsensus answers {"consensus": null} when there are no nodes to vote.
func (s *Server) handleConsensus(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	reached, ok := s.core.Consensus(fingerprint.Text(data))
	resp := map[string]interface{}{"data": data, "consensus": nil}
	if ok {
		resp["consensus"] = reached
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	fp := mux.Vars(r)["fingerprint"]
	p, match := s.core.Retrieve(fp)
	if match == resonance.None {
		writeError(w, http.StatusNotFound, fmt.Errorf("no pattern resonates with %s", fp))
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{
		Fingerprint: fp,
		Match:       match,
		Kind:        p.Kind().String(),
		Data:        p,
	})
}

func (s *Server) handleResonance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	frequency, err := cast.ToFloat64E(q.Get("frequency"))
	if err != nil || q.Get("frequency") == "" {
		writeError(w, http.StatusBadRequest, errors.New("frequency must be a number"))
		return
	}
	tolerance := resonance.DefaultTolerance
	if t := q.Get("tolerance"); t != "" {
		if tolerance, err = cast.ToFloat64E(t); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("tolerance must be a number"))
			return
		}
	}
	fps := s.core.FindByResonance(frequency, tolerance)
	if fps == nil {
		fps = []fingerprint.Fingerprint{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"frequency":    frequency,
		"tolerance":    tolerance,
		"fingerprints": fps,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.core.History())
}
