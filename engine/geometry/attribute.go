package geometry

// Attribute is a flat per-vertex buffer. Data holds Count()*ItemSize values.
// Writers that mutate Data in place must call NeedsUpdate so backends re-read it.
type Attribute struct {
	Data     []float32
	ItemSize int

	version uint64
}

// NewAttribute wraps data as an attribute of itemSize components per vertex.
//
// Parameters:
//   - data: the flat buffer, used without copying
//   - itemSize: components per vertex (3 for positions and colors, 2 for uvs)
//
// Returns:
//   - *Attribute: the attribute
func NewAttribute(data []float32, itemSize int) *Attribute {
	if itemSize <= 0 {
		itemSize = 1
	}
	return &Attribute{Data: data, ItemSize: itemSize}
}

// Count returns the number of vertices in the attribute.
func (a *Attribute) Count() int {
	return len(a.Data) / a.ItemSize
}

// Version returns how many times the buffer was flagged as changed.
func (a *Attribute) Version() uint64 {
	return a.version
}

// NeedsUpdate flags the buffer as modified.
func (a *Attribute) NeedsUpdate() {
	a.version++
}

// At returns component c of vertex i.
func (a *Attribute) At(i, c int) float32 {
	return a.Data[i*a.ItemSize+c]
}

// Set writes component c of vertex i. It does not bump the version.
func (a *Attribute) Set(i, c int, v float32) {
	a.Data[i*a.ItemSize+c] = v
}
