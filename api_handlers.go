package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// sessionState pairs a conversation session with its own lock. Questions
// within one session run one at a time; different sessions proceed in
// parallel.
type sessionState struct {
	mu      sync.Mutex
	session *Session
}

// APIHandler handles JSON API requests
type APIHandler struct {
	DB         *DB
	Translator Translator
	Reporter   *ReportService
	DataPath   string

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewAPIHandler(db *DB, translator Translator, reporter *ReportService, dataPath string) *APIHandler {
	return &APIHandler{
		DB:         db,
		Translator: translator,
		Reporter:   reporter,
		DataPath:   dataPath,
		sessions:   make(map[string]*sessionState),
	}
}

func (h *APIHandler) sessionFor(id string) *sessionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.sessions[id]
	if !ok {
		st = &sessionState{session: NewSession()}
		h.sessions[id] = st
	}
	return st
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// Ask handles one conversational question. The response always carries the
// explanation; sql and rows appear only when translation and execution both
// succeeded.
func (h *APIHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "question is required",
		})
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	st := h.sessionFor(req.SessionID)
	st.mu.Lock()
	answer := st.session.Ask(r.Context(), h.DB, h.Translator, req.Question)
	st.mu.Unlock()

	if answer.Err != nil {
		var execErr *ExecutionError
		status := http.StatusInternalServerError
		if errors.Is(answer.Err, ErrNotReadOnly) {
			status = http.StatusForbidden
		} else if errors.As(answer.Err, &execErr) {
			status = http.StatusUnprocessableEntity
		}
		respondJSON(w, status, map[string]interface{}{
			"question":    answer.Question,
			"sql":         answer.SQL,
			"explanation": answer.Explanation,
			"error":       answer.Err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, answer)
}

// Schema returns the registry's table descriptions.
func (h *APIHandler) Schema(w http.ResponseWriter, r *http.Request) {
	tables := make([]map[string]interface{}, 0, len(RegistryTables))
	for _, t := range RegistryTables {
		tables = append(tables, map[string]interface{}{
			"name":    t.Name,
			"columns": t.Columns,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tables":      tables,
		"description": SchemaDescription,
	})
}

// GetPokemon handles API requests for a single pokemon by dex number
func (h *APIHandler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	dexnum, err := strconv.Atoi(chi.URLParam(r, "dexnum"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "dexnum must be an integer",
		})
		return
	}

	p, err := h.DB.GetPokemonByDex(r.Context(), dexnum)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": err.Error(),
		})
		return
	}

	type2 := ""
	if p.Type2.Valid {
		type2 = p.Type2.String
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dexnum":     p.Dexnum,
		"name":       p.Name,
		"generation": p.Generation,
		"type1":      p.Type1,
		"type2":      type2,
		"hp":         p.HP,
		"attack":     p.Attack,
		"defense":    p.Defense,
		"sp_atk":     p.SpAtk,
		"sp_def":     p.SpDef,
		"speed":      p.Speed,
		"total":      p.Total,
	})
}

// GetPokemonImage serves artwork for a dex number.
func (h *APIHandler) GetPokemonImage(w http.ResponseWriter, r *http.Request) {
	dexnum, err := strconv.Atoi(chi.URLParam(r, "dexnum"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "dexnum must be an integer",
		})
		return
	}

	data, mime, ok := PokemonImage(h.DataPath, dexnum)
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": "no image for this pokemon",
		})
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Image write error: %v", err)
	}
}

type partyRequest struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// AddToParty records a caught pokemon and returns its assigned slot.
func (h *APIHandler) AddToParty(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}
	if req.UserID <= 0 || strings.TrimSpace(req.Name) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "user_id and name are required",
		})
		return
	}

	slot, err := h.DB.AddUserPokemon(r.Context(), req.UserID, req.Name)
	if err != nil {
		var notFound *LookupNotFoundError
		if errors.As(err, &notFound) {
			respondJSON(w, http.StatusNotFound, map[string]string{
				"error": err.Error(),
			})
			return
		}
		log.Printf("Party insert error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to add pokemon",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": req.UserID,
		"name":    req.Name,
		"slot_no": slot,
	})
}

// GetParty returns a user's owned pokemon ordered by slot.
func (h *APIHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "userID must be an integer",
		})
		return
	}

	party, err := h.DB.GetUserParty(r.Context(), userID)
	if err != nil {
		log.Printf("Party query error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load party",
		})
		return
	}

	members := make([]map[string]interface{}, 0, len(party))
	for _, m := range party {
		members = append(members, map[string]interface{}{
			"slot_no":      m.SlotNo,
			"pokemon_id":   m.PokemonID,
			"pokemon_name": m.PokemonName,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"party":   members,
		"count":   len(members),
	})
}

type reportRequest struct {
	SessionID  string   `json:"session_id"`
	Generation int      `json:"generation"`
	Types      []string `json:"types"`
}

// Report generates the final session report as an HTML fragment.
func (h *APIHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	st := h.sessionFor(req.SessionID)
	st.mu.Lock()
	results := make([]AnalysisResult, len(st.session.Results))
	copy(results, st.session.Results)
	st.mu.Unlock()

	html, err := h.Reporter.GenerateFinalReport(r.Context(), results, req.Generation, req.Types)
	if err != nil {
		log.Printf("Report error: %v", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"html":    html,
		"results": len(results),
	})
}

// respondJSON is a helper function to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}
