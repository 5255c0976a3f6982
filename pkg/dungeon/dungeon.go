package dungeon

import "github.com/RedECSEngine/RandomDungeonGenerator/pkg/graph"

// Dungeon - граф комнат (вершины) и коридоров (данные ребер).
type Dungeon[R RoomConstraint, H Hallway] struct {
	*graph.AdjacencyListGraph[R, H]
}

func newDungeon[R RoomConstraint, H Hallway](g *graph.AdjacencyListGraph[R, H]) *Dungeon[R, H] {
	if g == nil {
		g = graph.NewGraph[R, H]()
	}
	return &Dungeon[R, H]{AdjacencyListGraph: g}
}

func (d *Dungeon[R, H]) Rooms() []R {
	vertices := d.Vertices()
	rooms := make([]R, 0, len(vertices))
	for _, v := range vertices {
		rooms = append(rooms, v.Data)
	}
	return rooms
}

func (d *Dungeon[R, H]) Hallways() []H {
	edges := d.Edges()
	hallways := make([]H, 0, len(edges))
	for _, e := range edges {
		hallways = append(hallways, e.Data)
	}
	return hallways
}

// ComponentCount - количество компонент связности (ребра считаются
// неориентированными). Для дерева, полученного из связного графа, равно 1.
func (d *Dungeon[R, H]) ComponentCount() int {
	uf := graph.NewUnionFind[R]()
	for _, v := range d.Vertices() {
		uf.AddSetWith(v.Data)
	}
	for _, e := range d.Edges() {
		uf.UnionSetsContaining(e.From.Data, e.To.Data)
	}
	return uf.SetCount()
}
