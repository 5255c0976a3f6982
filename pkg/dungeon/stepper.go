package dungeon

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Phase - название выполненной единицы работы.
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhaseFitting   Phase = "fitting"
	PhaseRounding  Phase = "rounding"
	PhaseGraph     Phase = "graph"
	PhaseHallways  Phase = "hallways"
	PhaseDone      Phase = "done"
)

// Observer вызывается после каждого Step.
type Observer func(phase Phase)

type stage int

const (
	stagePlacement stage = iota
	stageFitting
	stageSettling
	stageGraph
	stageHallways
	stageDone
)

func (g *Generator[R, H]) SetObserver(observer Observer) {
	g.observer = observer
}

// Step выполняет одну ограниченную единицу работы конвейера:
// раскладка -> шаги расталкивания -> округление -> расталкивание с
// округлением -> граф + остов -> коридоры. Второе значение истинно,
// когда коридоры построены.
func (g *Generator[R, H]) Step() (Phase, bool) {
	phase, done := g.advance()
	if g.observer != nil {
		g.observer(phase)
	}
	return phase, done
}

func (g *Generator[R, H]) advance() (Phase, bool) {
	switch g.stage {
	case stagePlacement:
		g.GenerateRooms()
		return PhasePlacement, false

	case stageFitting:
		if !g.settled() {
			g.ApplyFittingStep()
			return PhaseFitting, false
		}
		g.RoundRoomPositions()
		g.stage = stageSettling
		return PhaseRounding, false

	case stageSettling:
		if !g.settled() {
			g.ApplyFittingStep()
			g.RoundRoomPositions()
			return PhaseFitting, false
		}
		g.stage = stageGraph
		return g.advance()

	case stageGraph:
		// Округление после последнего удаления могло вытолкнуть комнату за край.
		g.RemoveRoomsOutOfBounds()
		g.GenerateDungeonGraph()
		g.stage = stageHallways
		return PhaseGraph, false

	case stageHallways:
		g.GenerateHallways()
		g.stage = stageDone
		return PhaseHallways, true
	}
	return PhaseDone, true
}

// settled - раскладка сошлась, либо лимит перезапусков исчерпан и
// оставшиеся пересечения просто отброшены.
func (g *Generator[R, H]) settled() bool {
	if g.ContainsNoIntersectingRooms() {
		return true
	}
	if g.exhausted {
		g.pruneIntersectingRooms()
		return true
	}
	return false
}

// RunCompleteGeneration прогоняет весь конвейер с нуля до построенных
// коридоров. Время выполнения не ограничено: при неудачных параметрах
// раскладка перезапускается, пока не сойдется (если не задан MaximumRetries).
func (g *Generator[R, H]) RunCompleteGeneration() {
	startTime := time.Now()

	g.stage = stagePlacement
	for {
		if _, done := g.Step(); done {
			break
		}
	}

	hallways := 0
	if g.dungeon != nil {
		hallways = len(g.dungeon.Edges())
	}
	g.log.WithFields(logrus.Fields{
		"rooms":    len(g.layoutRooms),
		"hallways": hallways,
		"steps":    g.stepsTaken,
		"retries":  g.retries,
		"duration": time.Since(startTime),
	}).Info("Dungeon generated")
}
