// Package category construye la jerarquía de categorías y agrega métricas por nivel.
package category

import (
	"sort"

	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

const noParent = -1

// Node nodo de la jerarquía. Parent y Children son índices dentro del árbol.
// Level vale -1 si el nodo no es alcanzable desde ninguna raíz (ciclo en los datos de origen).
type Node struct {
	ID       string
	Name     string
	Parent   int
	Children []int
	Level    int
}

// HasChildren indica si el nodo tiene hijos.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// Stats datos de calidad detectados al construir el árbol.
type Stats struct {
	Orphans     []string // ids cuyo padre no existe en el lote; se promueven a raíz
	Unreachable []string // ids que no cuelgan de ninguna raíz
	Duplicates  []string // ids repetidos; gana el primer registro
}

// Tree bosque inmutable de categorías. Seguro para lecturas concurrentes.
type Tree struct {
	nodes []Node
	index map[string]int
	roots []int
	paths [][]int // cadena raíz→nodo por índice; nil si no es alcanzable
	stats Stats
}

// Build construye el árbol a partir de la lista plana de categorías.
//
//  1. Primera pasada: un nodo por registro, indexado por id.
//  2. Segunda pasada: se enlaza cada nodo con su padre; si el padre no existe en el lote el nodo
//     queda como raíz (los datos de origen pueden referenciar categorías fuera de la página leída).
//  3. Hijos y raíces se ordenan por nombre y los niveles se asignan recorriendo en profundidad.
func Build(records []entity.Category) (*Tree, error) {
	if records == nil {
		return nil, domain.ErrNilInput
	}
	t := &Tree{
		nodes: make([]Node, 0, len(records)),
		index: make(map[string]int, len(records)),
	}

	parents := make([]string, 0, len(records))
	for _, r := range records {
		if _, dup := t.index[r.ID]; dup {
			t.stats.Duplicates = append(t.stats.Duplicates, r.ID)
			continue
		}
		t.index[r.ID] = len(t.nodes)
		t.nodes = append(t.nodes, Node{ID: r.ID, Name: r.Name, Parent: noParent, Level: -1})
		parents = append(parents, r.ParentID)
	}

	for i, pid := range parents {
		if pid == "" {
			t.roots = append(t.roots, i)
			continue
		}
		p, ok := t.index[pid]
		if !ok {
			t.stats.Orphans = append(t.stats.Orphans, t.nodes[i].ID)
			t.roots = append(t.roots, i)
			continue
		}
		t.nodes[i].Parent = p
		t.nodes[p].Children = append(t.nodes[p].Children, i)
	}

	t.sortByName(t.roots)
	for i := range t.nodes {
		t.sortByName(t.nodes[i].Children)
	}

	t.paths = make([][]int, len(t.nodes))
	for _, r := range t.roots {
		t.assign(r, 0, nil)
	}
	for _, n := range t.nodes {
		if n.Level < 0 {
			t.stats.Unreachable = append(t.stats.Unreachable, n.ID)
		}
	}
	return t, nil
}

func (t *Tree) sortByName(idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		return t.nodes[idx[a]].Name < t.nodes[idx[b]].Name
	})
}

// assign fija el nivel y la cadena de ancestros de i y de su subárbol.
func (t *Tree) assign(i, level int, prefix []int) {
	if t.nodes[i].Level >= 0 {
		return
	}
	t.nodes[i].Level = level
	chain := make([]int, len(prefix)+1)
	copy(chain, prefix)
	chain[len(prefix)] = i
	t.paths[i] = chain
	for _, c := range t.nodes[i].Children {
		t.assign(c, level+1, chain)
	}
}

// Len número de categorías distintas.
func (t *Tree) Len() int { return len(t.nodes) }

// Stats devuelve los datos de calidad detectados en la construcción.
func (t *Tree) Stats() Stats { return t.stats }

// Node busca un nodo por id.
func (t *Tree) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.node(i), true
}

// node copia el nodo i para que el llamador no pueda alterar los enlaces del árbol.
func (t *Tree) node(i int) Node {
	n := t.nodes[i]
	n.Children = append([]int(nil), n.Children...)
	return n
}

// At devuelve el nodo en la posición i del árbol.
func (t *Tree) At(i int) Node { return t.node(i) }

// Roots raíces ordenadas por nombre.
func (t *Tree) Roots() []Node {
	out := make([]Node, 0, len(t.roots))
	for _, r := range t.roots {
		out = append(out, t.node(r))
	}
	return out
}

// Children hijos directos de id ordenados por nombre.
func (t *Tree) Children(id string) []Node {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	out := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, t.node(c))
	}
	return out
}

// Walk recorre el árbol en preorden (raíces y hermanos por nombre).
// Si fn devuelve false no se desciende en ese subárbol.
func (t *Tree) Walk(fn func(n Node) bool) {
	var visit func(i int)
	visit = func(i int) {
		if !fn(t.node(i)) {
			return
		}
		for _, c := range t.nodes[i].Children {
			visit(c)
		}
	}
	for _, r := range t.roots {
		visit(r)
	}
}
