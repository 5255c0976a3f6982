package graph

import "github.com/spakin/disjoint"

// UnionFind - система непересекающихся множеств поверх леса disjoint
// (union by rank + сжатие путей).
type UnionFind[T comparable] struct {
	elements map[T]*disjoint.Element
}

func NewUnionFind[T comparable]() *UnionFind[T] {
	return &UnionFind[T]{elements: make(map[T]*disjoint.Element)}
}

// AddSetWith создает одноэлементное множество. Повторный вызов для
// того же элемента ничего не меняет.
func (uf *UnionFind[T]) AddSetWith(element T) {
	if _, ok := uf.elements[element]; ok {
		return
	}
	uf.elements[element] = disjoint.NewElement()
}

func (uf *UnionFind[T]) setOf(element T) *disjoint.Element {
	e, ok := uf.elements[element]
	if !ok {
		return nil
	}
	return e.Find()
}

// InSameSet ложно для элементов, которые не были добавлены.
func (uf *UnionFind[T]) InSameSet(a, b T) bool {
	setA := uf.setOf(a)
	setB := uf.setOf(b)
	return setA != nil && setA == setB
}

func (uf *UnionFind[T]) UnionSetsContaining(a, b T) {
	ea, okA := uf.elements[a]
	eb, okB := uf.elements[b]
	if !okA || !okB || ea.Find() == eb.Find() {
		return
	}
	disjoint.Union(ea, eb)
}

// SetCount - число различных множеств.
func (uf *UnionFind[T]) SetCount() int {
	roots := make(map[*disjoint.Element]struct{}, len(uf.elements))
	for _, e := range uf.elements {
		roots[e.Find()] = struct{}{}
	}
	return len(roots)
}
