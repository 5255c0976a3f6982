package graph

import "sort"

// MinimumSpanningTreeKruskal строит минимальный остовный лес.
//
// Ребра сортируются по возрастанию веса (стабильно: при равных весах
// сохраняется порядок обнаружения), ребро берется, если его концы еще
// в разных множествах. Результирующее дерево содержит все вершины входного
// графа и только ребра остова; индексы вершин в нем могут быть перенумерованы.
// Для несвязного графа возвращается лес.
func MinimumSpanningTreeKruskal[T comparable, D any](g *AdjacencyListGraph[T, D]) (float64, *AdjacencyListGraph[T, D]) {
	var cost float64

	tree := NewGraphFrom(g)
	tree.RemoveAllEdges()

	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight < edges[j].Weight
	})

	uf := NewUnionFind[T]()
	for _, v := range g.Vertices() {
		uf.AddSetWith(v.Data)
	}

	for _, edge := range edges {
		if uf.InSameSet(edge.From.Data, edge.To.Data) {
			continue
		}
		cost += edge.Weight
		from := tree.CreateVertex(edge.From.Data)
		to := tree.CreateVertex(edge.To.Data)
		tree.AddEdge(from, to, edge.Data, edge.Weight)
		uf.UnionSetsContaining(edge.From.Data, edge.To.Data)
	}

	return cost, tree
}
