package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func courseKeys(index string) []string {
	switch index {
	case "course_uk_01":
		return []string{"abbreviation", "course_number"}
	case "course_uk_02":
		return []string{"abbreviation", "course_name"}
	}
	return nil
}

func TestFromMongoDuplicateKey(t *testing.T) {
	err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: registrar.courses index: course_uk_01 dup key: { abbreviation: "CS", course_number: 201 }`,
	}}}

	translated := FromMongo(err, "courses", courseKeys)

	var dup *DuplicateKeyError
	require.True(t, errors.As(translated, &dup))
	assert.Equal(t, "courses", dup.Collection)
	assert.Equal(t, "course_uk_01", dup.Index)
	assert.Equal(t, []string{"abbreviation", "course_number"}, dup.Fields)
}

func TestFromMongoSchemaDetails(t *testing.T) {
	details, err := bson.Marshal(bson.M{
		"failingDocumentId": "x",
		"details": bson.M{
			"operatorName": "$jsonSchema",
			"schemaRulesNotSatisfied": bson.A{
				bson.M{
					"operatorName": "properties",
					"propertiesNotSatisfied": bson.A{
						bson.M{
							"propertyName": "building",
							"details": bson.A{bson.M{
								"operatorName": "enum",
								"specifiedAs":  bson.M{"enum": bson.A{"EN2", "ECS"}},
								"reason":       "value was not found in enum",
							}},
						},
					},
				},
				bson.M{
					"operatorName":      "required",
					"missingProperties": bson.A{"chair_name"},
				},
			},
		},
	})
	require.NoError(t, err)

	writeErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "Document failed validation", Details: details}}}
	translated := FromMongo(writeErr, "departments", nil)

	var schemaErr *SchemaError
	require.True(t, errors.As(translated, &schemaErr))
	require.Len(t, schemaErr.Violations, 2)

	assert.Equal(t, "building", schemaErr.Violations[0].Field)
	assert.Equal(t, "enum", schemaErr.Violations[0].Operator)
	assert.Equal(t, []string{"EN2", "ECS"}, schemaErr.Violations[0].Allowed)
	assert.Contains(t, schemaErr.Violations[0].Message(), "Allowed values are: EN2, ECS")

	assert.Equal(t, SchemaViolation{Field: "chair_name", Operator: "required"}, schemaErr.Violations[1])
}

func TestFromMongoPassesThroughOtherErrors(t *testing.T) {
	plain := fmt.Errorf("server selection timeout")
	assert.Same(t, plain, FromMongo(plain, "courses", courseKeys))
}

func TestFromPostgres(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "course_uk_02"}

	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("insert: %w", pgErr), "course_uk_02"))
	assert.False(t, IsDuplicateConstraintError(pgErr, "course_uk_01"))

	var dup *DuplicateKeyError
	require.True(t, errors.As(FromPostgres(pgErr, "courses", courseKeys), &dup))
	assert.Equal(t, []string{"abbreviation", "course_name"}, dup.Fields)

	checkErr := &pgconn.PgError{Code: "23514", ConstraintName: "courses_doc_check", Message: "violates check constraint"}
	var schemaErr *SchemaError
	require.True(t, errors.As(FromPostgres(checkErr, "courses", nil), &schemaErr))
	assert.Equal(t, "courses_doc_check", schemaErr.Violations[0].Field)
}
