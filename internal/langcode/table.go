package langcode

// Entry pairs a human-readable language name with a provider code
type Entry[C ~string] struct {
	Name string
	Code C
}

// Table is an ordered, immutable name to code mapping
type Table[C ~string] struct {
	entries []Entry[C]
	byName  map[string]C
	byCode  map[C]string
}

func newTable[C ~string](entries ...Entry[C]) *Table[C] {
	t := &Table[C]{
		entries: entries,
		byName:  make(map[string]C, len(entries)),
		byCode:  make(map[C]string, len(entries)),
	}
	for _, e := range entries {
		t.byName[e.Name] = e.Code
		t.byCode[e.Code] = e.Name
	}
	return t
}

// Names returns the language names in display order
func (t *Table[C]) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the table rows in display order
func (t *Table[C]) Entries() []Entry[C] {
	out := make([]Entry[C], len(t.entries))
	copy(out, t.entries)
	return out
}

// Code looks up the code for a language name
func (t *Table[C]) Code(name string) (C, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Name looks up the language name for a code
func (t *Table[C]) Name(code C) (string, bool) {
	n, ok := t.byCode[code]
	return n, ok
}

// Contains reports whether code belongs to the table
func (t *Table[C]) Contains(code C) bool {
	_, ok := t.byCode[code]
	return ok
}

// Len returns the number of languages in the table
func (t *Table[C]) Len() int {
	return len(t.entries)
}
