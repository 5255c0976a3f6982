package graph

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Vertex - вершина графа. Index - стабильная позиция в списке вершин
// графа-владельца, по нему ищется список ребер. Вершины сравниваются
// по Data, а не по Index.
type Vertex[T comparable] struct {
	Data  T
	Index int
}

func (v Vertex[T]) Equal(other Vertex[T]) bool {
	return v.Data == other.Data
}

func (v Vertex[T]) String() string {
	return fmt.Sprintf("%d: %v", v.Index, v.Data)
}

// Edge - направленное ребро from -> to с произвольной нагрузкой.
type Edge[T comparable, D any] struct {
	From   Vertex[T]
	To     Vertex[T]
	Data   D
	Weight float64
}

func (e Edge[T, D]) String() string {
	return fmt.Sprintf("%v -(%g)-> %v", e.From, e.Weight, e.To)
}

// edgeKey - ключ уникальности ребра при сборе всех ребер графа.
type edgeKey[T comparable] struct {
	from, to T
	weight   float64
}

// EdgeList - вершина и ее исходящие ребра (nil до первого AddEdge).
type EdgeList[T comparable, D any] struct {
	Vertex Vertex[T]
	Edges  []Edge[T, D]
}

// AdjacencyListGraph хранит граф как арену: упорядоченный срез вершин,
// у каждой свой список исходящих ребер. Вершины никогда не удаляются,
// удаляются только ребра.
type AdjacencyListGraph[T comparable, D any] struct {
	adjacencyList []EdgeList[T, D]
}

func NewGraph[T comparable, D any]() *AdjacencyListGraph[T, D] {
	return &AdjacencyListGraph[T, D]{}
}

// NewGraphFrom копирует граф через CreateVertex/AddEdge. Индексы вершин
// в копии могут отличаться от исходных, данные и веса ребер сохраняются.
// Вершины без ребер тоже переносятся.
func NewGraphFrom[T comparable, D any](source *AdjacencyListGraph[T, D]) *AdjacencyListGraph[T, D] {
	g := NewGraph[T, D]()
	for _, edge := range source.Edges() {
		from := g.CreateVertex(edge.From.Data)
		to := g.CreateVertex(edge.To.Data)
		g.AddEdge(from, to, edge.Data, edge.Weight)
	}
	for _, v := range source.Vertices() {
		g.CreateVertex(v.Data)
	}
	return g
}

func (g *AdjacencyListGraph[T, D]) Vertices() []Vertex[T] {
	vertices := make([]Vertex[T], 0, len(g.adjacencyList))
	for _, list := range g.adjacencyList {
		vertices = append(vertices, list.Vertex)
	}
	return vertices
}

func (g *AdjacencyListGraph[T, D]) VertexCount() int {
	return len(g.adjacencyList)
}

// Edges возвращает все ребра в порядке обнаружения. Ребра с одинаковыми
// концами и весом схлопываются в одно.
func (g *AdjacencyListGraph[T, D]) Edges() []Edge[T, D] {
	seen := mapset.New[edgeKey[T]]()
	var all []Edge[T, D]
	for _, list := range g.adjacencyList {
		for _, edge := range list.Edges {
			key := edgeKey[T]{from: edge.From.Data, to: edge.To.Data, weight: edge.Weight}
			if seen.Has(key) {
				continue
			}
			seen.Put(key)
			all = append(all, edge)
		}
	}
	return all
}

// CreateVertex возвращает уже существующую вершину с равными данными
// или добавляет новую с Index = количеству вершин. Линейный поиск.
func (g *AdjacencyListGraph[T, D]) CreateVertex(data T) Vertex[T] {
	for _, list := range g.adjacencyList {
		if list.Vertex.Data == data {
			return list.Vertex
		}
	}

	vertex := Vertex[T]{Data: data, Index: len(g.adjacencyList)}
	g.adjacencyList = append(g.adjacencyList, EdgeList[T, D]{Vertex: vertex})
	return vertex
}

// AddEdge добавляет направленное ребро. Петли и дубликаты не отсекаются.
func (g *AdjacencyListGraph[T, D]) AddEdge(from, to Vertex[T], data D, weight float64) {
	edge := Edge[T, D]{From: from, To: to, Data: data, Weight: weight}
	g.adjacencyList[from.Index].Edges = append(g.adjacencyList[from.Index].Edges, edge)
}

// RemoveEdge удаляет первое ребро с теми же концами и весом.
func (g *AdjacencyListGraph[T, D]) RemoveEdge(edge Edge[T, D]) {
	if edge.From.Index < 0 || edge.From.Index >= len(g.adjacencyList) {
		return
	}
	edges := g.adjacencyList[edge.From.Index].Edges
	for i, e := range edges {
		if e.From.Data == edge.From.Data && e.To.Data == edge.To.Data && e.Weight == edge.Weight {
			g.adjacencyList[edge.From.Index].Edges = append(edges[:i:i], edges[i+1:]...)
			return
		}
	}
}

func (g *AdjacencyListGraph[T, D]) RemoveAllEdges() {
	for i := range g.adjacencyList {
		g.adjacencyList[i].Edges = nil
	}
}

// WeightFrom возвращает вес ребра source -> destination или -1, если ребра нет.
func (g *AdjacencyListGraph[T, D]) WeightFrom(source, destination Vertex[T]) float64 {
	for _, edge := range g.EdgesFrom(source) {
		if edge.To.Equal(destination) {
			return edge.Weight
		}
	}
	return -1
}

func (g *AdjacencyListGraph[T, D]) EdgesFrom(source Vertex[T]) []Edge[T, D] {
	if source.Index < 0 || source.Index >= len(g.adjacencyList) {
		return nil
	}
	return g.adjacencyList[source.Index].Edges
}

func (g *AdjacencyListGraph[T, D]) String() string {
	var rows []string
	for _, list := range g.adjacencyList {
		if len(list.Edges) == 0 {
			continue
		}
		row := make([]string, 0, len(list.Edges))
		for _, edge := range list.Edges {
			row = append(row, fmt.Sprintf("%v: %g", edge.To.Data, edge.Weight))
		}
		rows = append(rows, fmt.Sprintf("%v -> [%s]", list.Vertex.Data, strings.Join(row, ", ")))
	}
	return strings.Join(rows, "\n")
}
