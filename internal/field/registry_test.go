package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdoc-dev/esign/pkg/domain"
)

func newField(id, alias string, value any) domain.TrackedField {
	return domain.TrackedField{
		FieldReference: domain.FieldReference{ID: id, Alias: alias},
		Kind:           domain.KindText,
		Value:          value,
		Initial:        value,
	}
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := NewRegistry()
	r.Add(newField("f1", "name", "Jane"))

	byID, ok := r.Get("f1")
	require.True(t, ok)
	assert.Equal(t, "Jane", byID.Value)

	byAlias, ok := r.Get("name")
	require.True(t, ok)
	assert.Equal(t, "f1", byAlias.ID)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_DropsUnaddressable(t *testing.T) {
	r := NewRegistry()
	r.Add(domain.TrackedField{Kind: domain.KindText, Value: "orphan"})
	assert.Zero(t, r.Len())
}

func TestRegistry_SetByIDWinsOverAlias(t *testing.T) {
	r := NewRegistry()
	// An id that collides with another field's alias: the id match wins.
	r.Add(newField("company", "", "by-id"))
	r.Add(newField("f2", "company", "by-alias"))

	changes := r.Set("company", "updated")
	require.Len(t, changes, 1)
	assert.Equal(t, "company", changes[0].Field.ID)

	f2, _ := r.Get("f2")
	assert.Equal(t, "by-alias", f2.Value)
}

func TestRegistry_SetByAliasBroadcasts(t *testing.T) {
	r := NewRegistry()
	r.Add(newField("a", "company", ""))
	r.Add(newField("b", "company", ""))

	changes := r.Set("company", "Acme")
	require.Len(t, changes, 2)

	a, _ := r.Get("a")
	b, _ := r.Get("b")
	assert.Equal(t, "Acme", a.Value)
	assert.Equal(t, "Acme", b.Value)
}

func TestRegistry_SetUnknownIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Add(newField("f1", "", "v"))
	assert.Empty(t, r.Set("ghost", "x"))
	f, _ := r.Get("f1")
	assert.Equal(t, "v", f.Value)
}

func TestRegistry_ListKeepsInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(newField("z", "", nil))
	r.Add(newField("a", "", nil))
	r.Add(newField("m", "", nil))

	var ids []string
	for _, f := range r.List() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestRegistry_ResetRestoresDeclaredInitial(t *testing.T) {
	r := NewRegistry()
	prefilled := newField("company", "", "Acme")
	blank := newField("sig", "", nil)
	r.Add(prefilled)
	r.Add(blank)

	r.Set("company", "Other")
	r.Set("sig", "Jane Doe")
	r.Reset()

	company, _ := r.Get("company")
	sig, _ := r.Get("sig")
	// Pre-fill survives reset, signer input does not.
	assert.Equal(t, "Acme", company.Value)
	assert.Nil(t, sig.Value)
}

func TestRegistry_AddOverwritesInPlace(t *testing.T) {
	r := NewRegistry()
	r.Add(newField("f1", "old", "v1"))
	r.Add(newField("f2", "", nil))
	r.Add(newField("f1", "new", "v2"))

	assert.Equal(t, 2, r.Len())
	f, ok := r.Get("new")
	require.True(t, ok)
	assert.Equal(t, "v2", f.Value)
	_, ok = r.Get("old")
	assert.False(t, ok)
	assert.Equal(t, "f1", r.List()[0].ID)
}

func TestRegistry_ListSource(t *testing.T) {
	r := NewRegistry()
	doc := newField("d1", "", "x")
	doc.Source = domain.SourceDocument
	signer := newField("s1", "", nil)
	signer.Source = domain.SourceSigner
	r.Add(doc)
	r.Add(signer)

	docs := r.ListSource(domain.SourceDocument)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)
}
