package category_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/category"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

func cat(id, name, parent string) entity.Category {
	return entity.Category{ID: id, Name: name, ParentID: parent}
}

func ids(nodes []category.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestBuild_PadreDesconocidoSePromueveARaiz(t *testing.T) {
	tree, err := category.Build([]entity.Category{
		cat("A", "Alfa", ""),
		cat("B", "Beta", "A"),
		cat("C", "Gamma", "X"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, ids(tree.Roots()))
	assert.Equal(t, []string{"B"}, ids(tree.Children("A")))

	b, ok := tree.Node("B")
	require.True(t, ok)
	assert.Equal(t, 1, b.Level)

	c, _ := tree.Node("C")
	assert.Equal(t, 0, c.Level)
	assert.Equal(t, []string{"C"}, tree.Stats().Orphans)
}

func TestBuild_HermanosOrdenadosPorNombre(t *testing.T) {
	tree, err := category.Build([]entity.Category{
		cat("r2", "Zapatos", ""),
		cat("r1", "Accesorios", ""),
		cat("c3", "Tintes", "r1"),
		cat("c1", "Cepillos", "r1"),
		cat("c2", "Peines", "r1"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"r1", "r2"}, ids(tree.Roots()))
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(tree.Children("r1")))
}

func TestBuild_IdDuplicadoGanaElPrimero(t *testing.T) {
	tree, err := category.Build([]entity.Category{
		cat("A", "Primero", ""),
		cat("A", "Segundo", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tree.Len())
	n, _ := tree.Node("A")
	assert.Equal(t, "Primero", n.Name)
	assert.Equal(t, []string{"A"}, tree.Stats().Duplicates)
}

func TestBuild_CicloQuedaInalcanzable(t *testing.T) {
	tree, err := category.Build([]entity.Category{
		cat("R", "Raíz", ""),
		cat("X", "Equis", "Y"),
		cat("Y", "Ye", "X"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"R"}, ids(tree.Roots()))
	assert.ElementsMatch(t, []string{"X", "Y"}, tree.Stats().Unreachable)
	assert.Empty(t, tree.Resolve("X"))

	x, _ := tree.Node("X")
	assert.Equal(t, -1, x.Level)
}

func TestBuild_NilEsViolacionDeContrato(t *testing.T) {
	_, err := category.Build(nil)
	assert.ErrorIs(t, err, domain.ErrNilInput)

	tree, err := category.Build([]entity.Category{})
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Roots())
}

func TestWalk_PreordenConNiveles(t *testing.T) {
	tree, err := category.Build([]entity.Category{
		cat("b", "B", ""),
		cat("a", "A", ""),
		cat("a2", "A2", "a"),
		cat("a1", "A1", "a"),
		cat("a11", "A11", "a1"),
	})
	require.NoError(t, err)

	var visited []string
	tree.Walk(func(n category.Node) bool {
		visited = append(visited, fmt.Sprintf("%s@%d", n.ID, n.Level))
		return true
	})
	assert.Equal(t, []string{"a@0", "a1@1", "a11@2", "a2@1", "b@0"}, visited)

	visited = nil
	tree.Walk(func(n category.Node) bool {
		visited = append(visited, n.ID)
		return n.ID != "a1"
	})
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, visited, "no desciende bajo a1")
}

func TestNode_CopiaNoAlteraElArbol(t *testing.T) {
	tree, err := category.Build([]entity.Category{cat("a", "A", ""), cat("b", "B", "a")})
	require.NoError(t, err)

	n, _ := tree.Node("a")
	n.Children[0] = 99

	assert.Equal(t, []string{"b"}, ids(tree.Children("a")))
}

// Para listas sin ciclos: nivel = saltos hasta la raíz, hermanos ordenados y
// los padres ausentes del lote convierten al nodo en raíz.
func TestBuild_PropiedadNivelesYOrden(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")
		records := make([]entity.Category, n)
		parentOf := make(map[string]string, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("c%d", i)
			parent := ""
			// Solo padres con índice menor (acíclico) o un id ajeno al lote.
			switch rapid.IntRange(0, 2).Draw(t, "kind") {
			case 1:
				if i > 0 {
					parent = fmt.Sprintf("c%d", rapid.IntRange(0, i-1).Draw(t, "parent"))
				}
			case 2:
				parent = "externo"
			}
			parentOf[id] = parent
			records[i] = cat(id, rapid.StringMatching(`[a-d]{1,3}`).Draw(t, "name"), parent)
		}
		// Mezclar el orden de entrada no debe importar.
		perm := rapid.Permutation(records).Draw(t, "perm")

		tree, err := category.Build(perm)
		if err != nil {
			t.Fatal(err)
		}
		for id := range parentOf {
			hops := 0
			for cur := id; ; hops++ {
				p := parentOf[cur]
				if _, known := parentOf[p]; p == "" || !known {
					break
				}
				cur = p
			}
			node, _ := tree.Node(id)
			if node.Level != hops {
				t.Fatalf("nivel de %s = %d, esperado %d", id, node.Level, hops)
			}
			if got := len(tree.Resolve(id)); got != hops+1 {
				t.Fatalf("ruta de %s con %d eslabones, esperado %d", id, got, hops+1)
			}
		}
		check := func(nodes []category.Node) {
			for i := 1; i < len(nodes); i++ {
				if nodes[i-1].Name > nodes[i].Name {
					t.Fatalf("hermanos desordenados: %q > %q", nodes[i-1].Name, nodes[i].Name)
				}
			}
		}
		check(tree.Roots())
		for id := range parentOf {
			check(tree.Children(id))
		}
	})
}
