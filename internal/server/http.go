package server

import (
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling
	"time"

	"github.com/RedECSEngine/RandomDungeonGenerator/internal/version"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
)

type Server struct {
	Sessions *Sessions
	Port     string
	// PongWait - таймаут чтения WebSocket, продлевается каждым pong.
	PongWait time.Duration
}

func New(port string) *Server {
	return &Server{
		Sessions: NewSessions(),
		Port:     port,
		PongWait: defaultPongWait,
	}
}

// Handler собирает роуты. pprof живет в DefaultServeMux и пробрасывается туда.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Регистрируем роуты
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	debugHandler := NewDebugHandler(s.Sessions)
	debugHandler.RegisterRoutes(mux)

	return mux
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	logger.Log.Infof("Dungeon generator server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, s.Handler())
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(conn, s.Sessions)
	if s.PongWait > 0 {
		client.pongWait = s.PongWait
	}

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
