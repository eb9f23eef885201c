package matching

import "testing"

func testProjectIndex() *ProjectIndex {
	return &ProjectIndex{
		choices: map[string]string{
			"Condominio Vista Mar Carretera a Punta Leona, Garabito, Puntarenas": "PRJ001",
			"Torre Central Avenida Segunda, San Jose centro":                     "PRJ002",
		},
	}
}

func TestMatchProjectSubstring(t *testing.T) {
	idx := testProjectIndex()

	// The invoice address is typically a fragment of the stored key;
	// partial scoring must still find it.
	id := idx.MatchProject("Carretera a Punta Leona, Garabito")
	if id != "PRJ001" {
		t.Errorf("got %q, want PRJ001", id)
	}
}

func TestMatchProjectEmptyInputs(t *testing.T) {
	idx := testProjectIndex()

	if id := idx.MatchProject(""); id != "" {
		t.Errorf("empty address: got %q, want none", id)
	}
	if id := idx.MatchProject("   "); id != "" {
		t.Errorf("blank address: got %q, want none", id)
	}

	empty := &ProjectIndex{choices: map[string]string{}}
	if id := empty.MatchProject("Avenida Segunda, San Jose"); id != "" {
		t.Errorf("empty index: got %q, want none", id)
	}
}

func TestMatchProjectBelowThreshold(t *testing.T) {
	idx := testProjectIndex()

	if id := idx.MatchProject("Bodega 4, Zona Franca Coyol, Alajuela"); id != "" {
		t.Errorf("unrelated address must not match: got %q", id)
	}
}
