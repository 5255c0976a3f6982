package server

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RedECSEngine/RandomDungeonGenerator/internal/render"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/api"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
)

type generator = dungeon.Generator[*dungeon.DefaultRoom, *dungeon.DefaultHallway]

// Session владеет одним генератором. Генератор не потокобезопасен,
// поэтому все обращения к нему идут под mu.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	gen   *generator
	phase dungeon.Phase
	done  bool
	emit  func(api.Frame)

	log *logrus.Entry
}

// NewSession создает сессию. emit получает кадр после каждого шага генератора.
func NewSession(id string, emit func(api.Frame)) *Session {
	if emit == nil {
		emit = func(api.Frame) {}
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		emit:      emit,
		log:       logger.Log.WithField("session_id", id),
	}
}

// Generate заменяет генератор новым с параметрами params.
// Раскладка начнется с первым Step.
func (s *Session) Generate(params api.GenerateParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	cfg := params.Apply(dungeon.DefaultConfig())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen = dungeon.NewDefaultGenerator(cfg)
	s.gen.SetObserver(s.onPhase)
	s.phase = ""
	s.done = false

	s.log.WithFields(logrus.Fields{
		"seed":  cfg.Seed,
		"rooms": cfg.InitialRoomCreationCount,
	}).Info("Generator created")
	return nil
}

// Step выполняет до count шагов (меньше, если генерация закончилась).
// Возвращает истину, когда коридоры построены.
func (s *Session) Step(count int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen == nil {
		return false, errNoGenerator
	}
	for i := 0; i < count && !s.done; i++ {
		s.gen.Step()
	}
	return s.done, nil
}

// Run шагает до конца, делая паузу delay между шагами. Лок отпускается
// на время паузы: debug-эндпоинты видят прогресс, а STEP и GENERATE
// от клиента не ждут окончания прогона. Если за время паузы генератор
// заменили через Generate, Run тихо завершается.
func (s *Session) Run(ctx context.Context, delay time.Duration) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	if gen == nil {
		return errNoGenerator
	}

	start := time.Now()
	for {
		if done := s.stepOwned(gen); done {
			break
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
	s.log.WithField("duration", time.Since(start)).Debug("Run finished")
	return nil
}

// stepOwned делает один шаг, только если gen все еще генератор сессии.
func (s *Session) stepOwned(gen *generator) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return true
	}
	if !s.done {
		s.gen.Step()
	}
	return s.done
}

// onPhase вызывается генератором изнутри Step, mu уже захвачен.
func (s *Session) onPhase(phase dungeon.Phase) {
	s.phase = phase
	s.done = phase == dungeon.PhaseHallways || phase == dungeon.PhaseDone
	s.emit(s.frame())
}

// frame собирает снимок генератора. Вызывать под mu.
func (s *Session) frame() api.Frame {
	cfg := s.gen.Config()
	f := api.Frame{
		Type:    api.FrameTypeFrame,
		Phase:   string(s.phase),
		Seed:    cfg.Seed,
		Steps:   s.gen.StepsTaken(),
		Retries: s.gen.Retries(),
		Grid: &api.GridMeta{
			Width:  int(cfg.DungeonSize.Width),
			Height: int(cfg.DungeonSize.Height),
		},
	}

	for _, room := range s.gen.Rooms() {
		f.Rooms = append(f.Rooms, api.RoomView{ID: room.ID, Rect: rectView(room.Rect())})
	}

	if d := s.gen.Dungeon(); d != nil {
		for _, e := range d.Edges() {
			h := api.HallwayView{From: e.From.Data.ID, To: e.To.Data.ID}
			for _, p := range e.Data.Points() {
				h.Points = append(h.Points, api.PointView{X: p.X, Y: p.Y})
			}
			for _, r := range e.Data.Rects() {
				h.Rects = append(h.Rects, rectView(r))
			}
			f.Hallways = append(f.Hallways, h)
		}
	}

	if s.done {
		f.Type = api.FrameTypeDone
		f.Map = render.Rows(s.gen.To2DGrid())
	}
	return f
}

func rectView(r geometry.Rect) api.RectView {
	return api.RectView{X: r.Origin.X, Y: r.Origin.Y, W: r.Size.Width, H: r.Size.Height}
}

// SessionSummary - краткое состояние сессии для /debug/sessions.
type SessionSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Seed      int64     `json:"seed,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Rooms     int       `json:"rooms"`
	Steps     int       `json:"steps"`
	Retries   int       `json:"retries"`
	Done      bool      `json:"done"`
}

func (s *Session) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := SessionSummary{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Phase:     string(s.phase),
		Done:      s.done,
	}
	if s.gen != nil {
		summary.Seed = s.gen.Config().Seed
		summary.Rooms = len(s.gen.Rooms())
		summary.Steps = s.gen.StepsTaken()
		summary.Retries = s.gen.Retries()
	}
	return summary
}

// ASCII - текущая карта сессии. Пустая строка, если генератора еще нет.
func (s *Session) ASCII() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen == nil {
		return ""
	}
	return render.ASCII(s.gen.To2DGrid())
}
