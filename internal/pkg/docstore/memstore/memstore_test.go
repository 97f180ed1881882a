package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/pkg/dberrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
)

type item struct {
	ID     primitive.ObjectID `bson:"_id"`
	Code   string             `bson:"code"`
	Number int                `bson:"number"`
	Kind   string             `bson:"kind"`
	Tags   []tag              `bson:"tags"`
}

type tag struct {
	Ref  primitive.ObjectID `bson:"ref"`
	Name string             `bson:"name"`
}

var itemSpec = docstore.CollectionSpec{
	Name: "items",
	Indexes: []docstore.IndexSpec{
		{Name: "items_uk_01", Keys: []string{"code", "number"}, Unique: true},
	},
	Required: []string{"code"},
	Enums:    map[string][]string{"kind": {"a", "b"}},
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.EnsureCollection(context.Background(), itemSpec))
	return s
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first := item{ID: primitive.NewObjectID(), Code: "CS", Number: 101, Kind: "a"}
	second := item{ID: primitive.NewObjectID(), Code: "CS", Number: 102, Kind: "b"}
	require.NoError(t, s.InsertOne(ctx, "items", first))
	require.NoError(t, s.InsertOne(ctx, "items", second))

	var all []item
	require.NoError(t, s.Find(ctx, "items", docstore.Filter{"code": "CS"}, &all))
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	var one item
	require.NoError(t, s.FindOne(ctx, "items", docstore.Filter{"number": 102}, &one))
	assert.Equal(t, second.ID, one.ID)

	err := s.FindOne(ctx, "items", docstore.Filter{"number": 999}, &one)
	assert.True(t, errors.Is(err, docstore.ErrNoDocuments))

	n, err := s.Count(ctx, "items", docstore.Filter{"kind": "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.InsertOne(ctx, "items", item{ID: primitive.NewObjectID(), Code: "CS", Number: 101, Kind: "a"}))
	err := s.InsertOne(ctx, "items", item{ID: primitive.NewObjectID(), Code: "CS", Number: 101, Kind: "b"})

	var dup *dberrors.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "items_uk_01", dup.Index)
	assert.Equal(t, []string{"code", "number"}, dup.Fields)
}

func TestInsertRejectsSchemaViolations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.InsertOne(ctx, "items", map[string]interface{}{"_id": primitive.NewObjectID(), "kind": "z"})

	var schemaErr *dberrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Violations, 2)
	assert.Equal(t, "code", schemaErr.Violations[0].Field)
	assert.Equal(t, "required", schemaErr.Violations[0].Operator)
	assert.Equal(t, "kind", schemaErr.Violations[1].Field)
	assert.Equal(t, []string{"a", "b"}, schemaErr.Violations[1].Allowed)
}

func TestPushAndPull(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc := item{ID: primitive.NewObjectID(), Code: "CS", Number: 101, Kind: "a"}
	require.NoError(t, s.InsertOne(ctx, "items", doc))

	keep, drop := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, s.Push(ctx, "items", doc.ID, "tags", tag{Ref: keep, Name: "keep"}))
	require.NoError(t, s.Push(ctx, "items", doc.ID, "tags", tag{Ref: drop, Name: "drop"}))

	n, err := s.Count(ctx, "items", docstore.Filter{"tags.ref": drop})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.Pull(ctx, "items", doc.ID, "tags", docstore.Filter{"ref": drop}))

	var got item
	require.NoError(t, s.FindOne(ctx, "items", docstore.Filter{"_id": doc.ID}, &got))
	require.Len(t, got.Tags, 1)
	assert.Equal(t, keep, got.Tags[0].Ref)

	err = s.Push(ctx, "items", primitive.NewObjectID(), "tags", tag{})
	assert.True(t, errors.Is(err, docstore.ErrNoDocuments))
}

func TestDeleteOne(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc := item{ID: primitive.NewObjectID(), Code: "CS", Number: 101, Kind: "a"}
	require.NoError(t, s.InsertOne(ctx, "items", doc))
	require.NoError(t, s.DeleteOne(ctx, "items", doc.ID))

	n, err := s.Count(ctx, "items", docstore.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.True(t, errors.Is(s.DeleteOne(ctx, "items", doc.ID), docstore.ErrNoDocuments))
}

func TestIndexesListsPrimaryKeyFirst(t *testing.T) {
	s := newStore(t)

	specs, err := s.Indexes(context.Background(), "items")
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "_id_", specs[0].Name)
	assert.Equal(t, "items_uk_01", specs[1].Name)
	assert.True(t, specs[1].Unique)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc := item{ID: primitive.NewObjectID(), Code: "CS", Number: 101, Kind: "a"}
	require.NoError(t, s.InsertOne(ctx, "items", doc))

	var got item
	require.NoError(t, s.FindOne(ctx, "items", docstore.Filter{"_id": doc.ID}, &got))
	got.Code = "EE"

	var again item
	require.NoError(t, s.FindOne(ctx, "items", docstore.Filter{"_id": doc.ID}, &again))
	assert.Equal(t, "CS", again.Code)
}
