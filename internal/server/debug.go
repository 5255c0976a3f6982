package server

import (
	"encoding/json"
	"net/http"
)

// DebugHandler предоставляет доступ к состоянию активных сессий
type DebugHandler struct {
	Sessions *Sessions
}

func NewDebugHandler(s *Sessions) *DebugHandler {
	return &DebugHandler{Sessions: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleListSessions)
	mux.HandleFunc("/debug/map", h.handleMap)
}

// /debug/sessions - список сессий с фазой и числом комнат
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Sessions.Summaries())
}

// /debug/map?id=... - текущая карта сессии в ASCII
func (h *DebugHandler) handleMap(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Sessions.Get(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(session.ASCII()))
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
