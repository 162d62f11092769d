package defines

// Entry declares one define in a material archetype's schema together with its baseline value.
type Entry struct {
	Name  Name
	Value Value
}

// Table is the per-material define table. It maps define names to values in a stable
// insertion order and carries the dirty groups the deriver functions are gated on.
//
// The dirty group fields are set by whoever changes the corresponding input (a light added,
// a vertex kind added, a bone configuration changed) and cleared by the deriver that consumes
// them. A Table is owned by exactly one material and must not be mutated concurrently.
type Table struct {
	names  []Name
	values map[Name]Value

	isDirty        bool
	rebuildPending bool
	renderID       int

	// AreLightsDirty gates the light deriver.
	AreLightsDirty bool
	// AreAttributesDirty gates the attribute, bone and morph target derivers.
	AreAttributesDirty bool
	// AreTexturesDirty is set when a texture binding of the material changes.
	AreTexturesDirty bool
	// AreMiscDirty gates the misc scalar flag deriver.
	AreMiscDirty bool
	// ArePrePassDirty gates the prepass deriver.
	ArePrePassDirty bool
	// AreImageProcessingDirty is set when the image processing configuration must be re-read.
	AreImageProcessingDirty bool

	// NeedNormals and NeedUVs are the requirements computed during the current derive pass.
	NeedNormals bool
	NeedUVs     bool

	// Normals and UVs are the requirements the attribute deriver last resolved.
	Normals bool
	UVs     bool
}

// NewTable creates a Table seeded with the given schema. Schema entries keep their order,
// and every dirty group starts set so the first derive pass computes everything.
//
// Parameters:
//   - schema: the define entries declared by the material archetype
//
// Returns:
//   - *Table: the new define table
func NewTable(schema ...Entry) *Table {
	t := &Table{
		names:  make([]Name, 0, len(schema)),
		values: make(map[Name]Value, len(schema)),
	}
	for _, e := range schema {
		if _, ok := t.values[e.Name]; !ok {
			t.names = append(t.names, e.Name)
		}
		t.values[e.Name] = e.Value
	}
	t.MarkAllAsDirty()
	t.isDirty = true
	return t
}

// Get returns the value of name, or Unset when the table has never seen it.
func (t *Table) Get(name Name) Value {
	return t.values[name]
}

// Bool reports whether name is truthy.
func (t *Table) Bool(name Name) bool {
	return t.values[name].Truthy()
}

// Int returns the integer value of name (0 when unset).
func (t *Table) Int(name Name) int {
	return t.values[name].AsInt()
}

// Has reports whether name has a slot in the table, set or not.
func (t *Table) Has(name Name) bool {
	_, ok := t.values[name]
	return ok
}

// Declares reports whether name holds a set value.
func (t *Table) Declares(name Name) bool {
	return t.values[name].IsSet()
}

// Len returns the number of define slots in the table.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns the define names in table order.
func (t *Table) Names() []Name {
	out := make([]Name, len(t.names))
	copy(out, t.names)
	return out
}

// Set stores v under name and reports whether the stored value changed.
// New names are appended to the table order. The table becomes dirty only on a real change.
//
// Parameters:
//   - name: the define to update
//   - v: the new value
//
// Returns:
//   - bool: true if the stored value differs from the previous one
func (t *Table) Set(name Name, v Value) bool {
	old, ok := t.values[name]
	if ok && old == v {
		return false
	}
	if !ok {
		if !v.IsSet() {
			// an unset value for an unknown name is the same as no slot at all
			return false
		}
		t.names = append(t.names, name)
	}
	t.values[name] = v
	t.isDirty = true
	return true
}

// SetBool is Set(name, Bool(b)).
func (t *Table) SetBool(name Name, b bool) bool {
	return t.Set(name, Bool(b))
}

// SetInt is Set(name, Int(i)).
func (t *Table) SetInt(name Name, i int) bool {
	return t.Set(name, Int(i))
}

// Unset clears the value of name while keeping its slot.
func (t *Table) Unset(name Name) bool {
	return t.Set(name, Unset)
}

// IsDirty reports whether the table changed, or was marked unprocessed, since the last
// MarkAsProcessed.
func (t *Table) IsDirty() bool {
	return t.isDirty
}

// MarkAsProcessed records that the current content has been handed to the compiler.
func (t *Table) MarkAsProcessed() {
	t.isDirty = false
	t.rebuildPending = false
}

// MarkAsUnprocessed forces the next readiness check to re-evaluate the compiled program
// even if the key is unchanged.
func (t *Table) MarkAsUnprocessed() {
	t.isDirty = true
}

// Rebuild forces a new program request on the next readiness check.
func (t *Table) Rebuild() {
	t.rebuildPending = true
	t.isDirty = true
}

// RebuildPending reports whether Rebuild was called since the last MarkAsProcessed.
func (t *Table) RebuildPending() bool {
	return t.rebuildPending
}

// MarkAllAsDirty sets every dirty group.
func (t *Table) MarkAllAsDirty() {
	t.AreLightsDirty = true
	t.AreAttributesDirty = true
	t.AreTexturesDirty = true
	t.AreMiscDirty = true
	t.ArePrePassDirty = true
	t.AreImageProcessingDirty = true
	t.isDirty = true
}

// MarkAsLightDirty flags the light group for re-derivation.
func (t *Table) MarkAsLightDirty() {
	t.AreLightsDirty = true
	t.isDirty = true
}

// MarkAsAttributesDirty flags the vertex attribute group for re-derivation.
func (t *Table) MarkAsAttributesDirty() {
	t.AreAttributesDirty = true
	t.isDirty = true
}

// MarkAsTexturesDirty flags the texture group for re-derivation.
func (t *Table) MarkAsTexturesDirty() {
	t.AreTexturesDirty = true
	t.isDirty = true
}

// MarkAsMiscDirty flags the misc group (fog, point size, log depth, alpha test) for re-derivation.
func (t *Table) MarkAsMiscDirty() {
	t.AreMiscDirty = true
	t.isDirty = true
}

// MarkAsPrePassDirty flags the prepass group for re-derivation.
func (t *Table) MarkAsPrePassDirty() {
	t.ArePrePassDirty = true
	t.isDirty = true
}

// MarkAsImageProcessingDirty flags the image processing group for re-derivation.
func (t *Table) MarkAsImageProcessingDirty() {
	t.AreImageProcessingDirty = true
	t.isDirty = true
}

// RenderID returns the scene render id the table was last evaluated for.
func (t *Table) RenderID() int {
	return t.renderID
}

// SetRenderID records the scene render id the table was evaluated for.
func (t *Table) SetRenderID(id int) {
	t.renderID = id
}

// Reset returns every slot to its off baseline: booleans to false, integers to 0.
// Unset slots stay unset.
func (t *Table) Reset() {
	for _, n := range t.names {
		v := t.values[n]
		switch {
		case v.IsBool():
			t.Set(n, Bool(false))
		case v.IsInt():
			t.Set(n, Int(0))
		}
	}
}

// Clone returns a deep copy of the table, dirty state included.
func (t *Table) Clone() *Table {
	c := *t
	c.names = make([]Name, len(t.names))
	copy(c.names, t.names)
	c.values = make(map[Name]Value, len(t.values))
	for k, v := range t.values {
		c.values[k] = v
	}
	return &c
}

// Equal reports whether both tables produce the same active define set.
func (t *Table) Equal(other *Table) bool {
	if other == nil {
		return false
	}
	return t.Key() == other.Key()
}

// Active returns the structured define set the table currently selects, in table order.
// False and unset values are omitted.
func (t *Table) Active() Set {
	out := make(Set, 0, len(t.names))
	for _, n := range t.names {
		if v := t.values[n]; v.emitted() {
			out = append(out, Define{Name: n, Value: v})
		}
	}
	return out
}

// Key returns the canonical joined define string for the current content.
// Identical content always yields byte-identical keys.
func (t *Table) Key() string {
	return t.Active().String()
}

// Merge copies every slot of src into t in src order and reports whether any value of t
// changed. Staging a group of writes in a scratch table and merging it keeps transient
// resets from marking t dirty.
//
// Parameters:
//   - src: the staged values
//
// Returns:
//   - bool: true if at least one value of t changed
func (t *Table) Merge(src *Table) bool {
	changed := false
	for _, n := range src.names {
		if t.Set(n, src.values[n]) {
			changed = true
		}
	}
	return changed
}
