package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/registrar/internal/pkg/docstore"
)

var departments = docstore.CollectionSpec{
	Name: "departments",
	Indexes: []docstore.IndexSpec{
		{Name: "department_uk_01", Keys: []string{"department_name"}, Unique: true},
		{Name: "department_uk_04", Keys: []string{"building", "office"}, Unique: true},
	},
	Required: []string{"department_name", "abbreviation"},
	Enums:    map[string][]string{"building": {"ECS", "VEC"}},
}

func TestValidator(t *testing.T) {
	v := Validator(departments)

	schema, ok := v["$jsonSchema"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "object", schema["bsonType"])
	assert.Equal(t, []string{"department_name", "abbreviation"}, schema["required"])
	assert.Equal(t, bson.M{"building": bson.M{"enum": []string{"ECS", "VEC"}}}, schema["properties"])
}

func TestValidatorWithoutRules(t *testing.T) {
	v := Validator(docstore.CollectionSpec{Name: "plain"})
	assert.Equal(t, bson.M{"$jsonSchema": bson.M{"bsonType": "object"}}, v)
}

func TestIndexModels(t *testing.T) {
	models := IndexModels(departments)
	require.Len(t, models, 2)

	assert.Equal(t, bson.D{{Key: "building", Value: 1}, {Key: "office", Value: 1}}, models[1].Keys)

	var opts *options.IndexOptions = models[1].Options
	require.NotNil(t, opts.Name)
	assert.Equal(t, "department_uk_04", *opts.Name)
	require.NotNil(t, opts.Unique)
	assert.True(t, *opts.Unique)
}
