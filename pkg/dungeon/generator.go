package dungeon

import (
	"math"
	"math/rand"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/graph"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Generator раскладывает комнаты, разводит пересечения, строит граф
// соединений, сокращает его до минимального остова и растеризует результат.
//
// Фазы доступны по отдельности (для пошаговой анимации) и целиком через
// RunCompleteGeneration. Генератор не потокобезопасен: всё состояние
// принадлежит ему, вызовы должен сериализовать владелец.
type Generator[R RoomConstraint, H Hallway] struct {
	cfg        Config
	rng        *rand.Rand
	newRoom    RoomFactory[R]
	newHallway HallwayFactory[H]

	layoutRooms []R
	dungeon     *Dungeon[R, H]
	grid        Grid

	stepsTaken int
	retries    int
	exhausted  bool

	stage    stage
	observer Observer

	log *logrus.Entry
}

// NewGenerator создает генератор с явным источником случайности.
func NewGenerator[R RoomConstraint, H Hallway](cfg Config, rng *rand.Rand, newRoom RoomFactory[R], newHallway HallwayFactory[H]) *Generator[R, H] {
	if rng == nil {
		rng = utils.NewRand(cfg.Seed)
	}
	return &Generator[R, H]{
		cfg:        cfg,
		rng:        rng,
		newRoom:    newRoom,
		newHallway: newHallway,
		log:        logger.ForComponent("dungeon_generator"),
	}
}

// NewDefaultGenerator - генератор с DefaultRoom/DefaultHallway и
// сидом из конфига. ID комнат выдаются по порядку создания.
func NewDefaultGenerator(cfg Config) *Generator[*DefaultRoom, *DefaultHallway] {
	nextID := 0
	newRoom := func(rect geometry.Rect) *DefaultRoom {
		nextID++
		return NewDefaultRoom(nextID, rect)
	}
	return NewGenerator[*DefaultRoom, *DefaultHallway](cfg, utils.NewRand(cfg.Seed), newRoom, NewDefaultHallway)
}

func (g *Generator[R, H]) Config() Config { return g.cfg }

// Rooms - текущий рабочий набор комнат.
func (g *Generator[R, H]) Rooms() []R { return g.layoutRooms }

// Dungeon - итоговый граф, nil до GenerateDungeonGraph.
func (g *Generator[R, H]) Dungeon() *Dungeon[R, H] { return g.dungeon }

func (g *Generator[R, H]) StepsTaken() int { return g.stepsTaken }
func (g *Generator[R, H]) Retries() int    { return g.retries }

// Exhausted - истина, когда исчерпан лимит MaximumRetries.
func (g *Generator[R, H]) Exhausted() bool { return g.exhausted }

// SetRooms подменяет рабочий набор комнат и сбрасывает кэши.
func (g *Generator[R, H]) SetRooms(rooms []R) {
	g.layoutRooms = rooms
	g.invalidate()
	g.stage = stageFitting
}

func (g *Generator[R, H]) invalidate() {
	g.dungeon = nil
	g.grid = nil
}

// GenerateRooms создает InitialRoomCreationCount комнат со случайными
// целочисленными позициями внутри CreationBounds (отцентрованных в
// DungeonSize) и размерами из [min, max). Сбрасывает счетчики и кэши.
func (g *Generator[R, H]) GenerateRooms() {
	g.retries = 0
	g.exhausted = false
	g.placeRooms()
	g.stage = stageFitting
}

func (g *Generator[R, H]) placeRooms() {
	g.stepsTaken = 0

	offsetX := (g.cfg.DungeonSize.Width - g.cfg.CreationBounds.Width) / 2
	offsetY := (g.cfg.DungeonSize.Height - g.cfg.CreationBounds.Height) / 2

	rooms := make([]R, 0, g.cfg.InitialRoomCreationCount)
	for i := 0; i < g.cfg.InitialRoomCreationCount; i++ {
		x := offsetX + float64(utils.RandRange(g.rng, 0, int(g.cfg.CreationBounds.Width)))
		y := offsetY + float64(utils.RandRange(g.rng, 0, int(g.cfg.CreationBounds.Height)))
		w := math.Floor(g.cfg.MinimumRoomWidth + float64(utils.RandRange(g.rng, 0, int(g.cfg.MaximumRoomWidth-g.cfg.MinimumRoomWidth))))
		h := math.Floor(g.cfg.MinimumRoomHeight + float64(utils.RandRange(g.rng, 0, int(g.cfg.MaximumRoomHeight-g.cfg.MinimumRoomHeight))))

		rooms = append(rooms, g.newRoom(geometry.NewRectXYWH(x, y, w, h)))
	}

	g.layoutRooms = rooms
	g.invalidate()

	g.log.WithField("rooms", len(rooms)).Debug("Rooms placed")
}

// ApplyFittingStep - один шаг расталкивания.
//
// Каждая комната сдвигается на усредненный вектор от начала ее
// расширенного на MinimumRoomSpacing прямоугольника к началам всех
// комнат, с которыми он пересекается, деленный на диагональ комнаты.
// Векторы считаются по старым позициям для всех комнат сразу.
// Если шагов больше MaximumStepsBeforeRetry, раскладка начинается заново.
func (g *Generator[R, H]) ApplyFittingStep() {
	if g.stepsTaken > g.cfg.MaximumStepsBeforeRetry {
		if g.cfg.MaximumRetries > 0 && g.retries >= g.cfg.MaximumRetries {
			if !g.exhausted {
				g.exhausted = true
				g.log.WithField("retries", g.retries).Warn("Retry budget exhausted, keeping current layout")
			}
			return
		}
		g.retries++
		g.log.WithFields(logrus.Fields{
			"steps":   g.stepsTaken,
			"retries": g.retries,
		}).Debug("Fitting did not converge, regenerating rooms")
		g.placeRooms()
	}

	g.stepsTaken++
	g.RemoveRoomsOutOfBounds()

	velocities := make([]geometry.Point, len(g.layoutRooms))
	for i, current := range g.layoutRooms {
		currentRect := current.Rect()
		padded := currentRect.Inset(-g.cfg.MinimumRoomSpacing)

		var velocity geometry.Point
		neighbors := 0
		for j, other := range g.layoutRooms {
			if i == j {
				continue
			}
			otherRect := other.Rect()
			if !padded.Intersects(otherRect) {
				continue
			}
			velocity = velocity.OffsetBy(padded.Origin.DiffOf(otherRect.Origin))
			neighbors++
		}
		if neighbors == 0 {
			continue
		}

		diagonal := currentRect.DiagonalLength()
		if diagonal == 0 {
			diagonal = 1
		}
		n := float64(neighbors)
		velocities[i] = geometry.Point{
			X: velocity.X / n / diagonal,
			Y: velocity.Y / n / diagonal,
		}
	}

	for i, room := range g.layoutRooms {
		if velocities[i] == geometry.Zero {
			continue
		}
		rect := room.Rect()
		rect.Origin = rect.Origin.OffsetBy(velocities[i])
		room.SetRect(rect)
	}
}

// RoundRoomPositions округляет начала комнат вверх до целых клеток.
func (g *Generator[R, H]) RoundRoomPositions() {
	for _, room := range g.layoutRooms {
		rect := room.Rect()
		rect.Origin = rect.Origin.RoundedUp()
		room.SetRect(rect)
	}
}

// ContainsNoIntersectingRooms проверяет, что ни один расширенный на
// MinimumRoomSpacing прямоугольник не пересекает другую комнату.
// Комнаты различаются по позиции в рабочем наборе, а не по значению.
func (g *Generator[R, H]) ContainsNoIntersectingRooms() bool {
	for i, current := range g.layoutRooms {
		padded := current.Rect().Inset(-g.cfg.MinimumRoomSpacing)
		for j, other := range g.layoutRooms {
			if i == j {
				continue
			}
			if padded.Intersects(other.Rect()) {
				return false
			}
		}
	}
	return true
}

// RemoveRoomsOutOfBounds убирает комнаты, которые не помещаются целиком
// в границы подземелья, уменьшенные на 1 с каждой стороны.
func (g *Generator[R, H]) RemoveRoomsOutOfBounds() {
	bounds := geometry.NewRect(geometry.Zero, g.cfg.DungeonSize).Inset(1)

	kept := make([]R, 0, len(g.layoutRooms))
	for _, room := range g.layoutRooms {
		if bounds.ContainsRect(room.Rect()) {
			kept = append(kept, room)
		}
	}
	if removed := len(g.layoutRooms) - len(kept); removed > 0 {
		g.log.WithField("removed", removed).Debug("Rooms out of bounds removed")
	}
	g.layoutRooms = kept
}

// pruneIntersectingRooms жадно оставляет только комнаты, не пересекающие
// уже оставленные. Нужен, когда лимит перезапусков исчерпан.
func (g *Generator[R, H]) pruneIntersectingRooms() {
	kept := make([]R, 0, len(g.layoutRooms))
	for _, room := range g.layoutRooms {
		rect := room.Rect()
		padded := rect.Inset(-g.cfg.MinimumRoomSpacing)
		ok := true
		for _, other := range kept {
			otherRect := other.Rect()
			if padded.Intersects(otherRect) || otherRect.Inset(-g.cfg.MinimumRoomSpacing).Intersects(rect) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, room)
		}
	}
	g.layoutRooms = kept
}

// RoomsDictionary индексирует комнаты по описанию центра. Комнаты с
// одинаковым центром схлопываются: побеждает последняя.
func (g *Generator[R, H]) RoomsDictionary() map[string]R {
	dict := make(map[string]R, len(g.layoutRooms))
	for _, room := range g.layoutRooms {
		dict[room.Rect().Center().String()] = room
	}
	return dict
}

// GenerateGraph соединяет комнаты, чьи окружности досягаемости
// (описанная окружность + MaxRoomSpacing/2) пересекаются. Вес ребра -
// расстояние между центрами, ребра добавляются в обе стороны.
//
// Побочный эффект: комнаты без единого соединения удаляются из рабочего набора.
func (g *Generator[R, H]) GenerateGraph() *Dungeon[R, H] {
	d := newDungeon[R, H](nil)
	reach := g.cfg.MaxRoomSpacing / 2

	circles := make([]geometry.Circle, len(g.layoutRooms))
	for i, room := range g.layoutRooms {
		c := geometry.CircleFittedTo(room.Rect())
		c.Radius += reach
		circles[i] = c
	}

	finalRooms := make([]R, 0, len(g.layoutRooms))
	for i, current := range g.layoutRooms {
		var pairings []int
		for j := range g.layoutRooms {
			if i != j && circles[i].Intersects(circles[j]) {
				pairings = append(pairings, j)
			}
		}
		if len(pairings) == 0 {
			continue
		}

		finalRooms = append(finalRooms, current)
		currentVertex := d.CreateVertex(current)
		currentCenter := current.Rect().Center()
		for _, j := range pairings {
			other := g.layoutRooms[j]
			otherVertex := d.CreateVertex(other)
			d.AddEdge(currentVertex, otherVertex, g.newHallway(), currentCenter.DistanceFrom(other.Rect().Center()))
		}
	}

	if dropped := len(g.layoutRooms) - len(finalRooms); dropped > 0 {
		g.log.WithField("dropped", dropped).Debug("Unconnected rooms dropped")
	}
	g.layoutRooms = finalRooms

	return d
}

// GenerateDungeonGraph строит граф соединений и сокращает его до
// минимального остова. Результат кэшируется до следующего GenerateRooms.
func (g *Generator[R, H]) GenerateDungeonGraph() {
	if g.dungeon != nil {
		return
	}

	cost, tree := graph.MinimumSpanningTreeKruskal(g.GenerateGraph().AdjacencyListGraph)
	g.dungeon = newDungeon(tree)
	g.grid = nil

	g.log.WithFields(logrus.Fields{
		"rooms":    tree.VertexCount(),
		"hallways": len(tree.Edges()),
		"cost":     cost,
	}).Debug("Dungeon graph built")
}
