package category

import "strings"

// PathSeparator separador usado al mostrar una ruta de categorías.
const PathSeparator = "/"

// PathEntry un eslabón de la ruta.
type PathEntry struct {
	ID   string
	Name string
}

// Path cadena de ancestros desde la raíz hasta la categoría (incluida).
type Path []PathEntry

// IDs ids de la ruta, de la raíz a la hoja.
func (p Path) IDs() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.ID
	}
	return out
}

// Names nombres por nivel, de la raíz a la hoja.
func (p Path) Names() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Name
	}
	return out
}

// String ruta legible, ej. "Cosmética/Cabello/Champús".
func (p Path) String() string {
	return strings.Join(p.Names(), PathSeparator)
}

// Contains indica si id forma parte de la ruta.
func (p Path) Contains(id string) bool {
	for _, e := range p {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Resolve devuelve la ruta desde la raíz hasta id. Ruta vacía si id no existe en el árbol
// (producto sin categoría) o si no cuelga de ninguna raíz.
// La cadena se calcula una sola vez al construir el árbol, así que llamadas repetidas son baratas
// y devuelven siempre el mismo resultado.
func (t *Tree) Resolve(id string) Path {
	i, ok := t.index[id]
	if !ok || t.paths[i] == nil {
		return Path{}
	}
	chain := t.paths[i]
	out := make(Path, len(chain))
	for k, n := range chain {
		out[k] = PathEntry{ID: t.nodes[n].ID, Name: t.nodes[n].Name}
	}
	return out
}
