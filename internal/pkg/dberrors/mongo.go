package dberrors

import (
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB server error codes
const (
	mongoDuplicateKey     = 11000
	mongoValidationFailed = 121
)

var dupKeyIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

// schemaErrInfo mirrors the errInfo document MongoDB attaches to a $jsonSchema failure
type schemaErrInfo struct {
	Details struct {
		SchemaRulesNotSatisfied []struct {
			OperatorName           string   `bson:"operatorName"`
			MissingProperties      []string `bson:"missingProperties"`
			PropertiesNotSatisfied []struct {
				PropertyName string `bson:"propertyName"`
				Details      []struct {
					OperatorName string   `bson:"operatorName"`
					SpecifiedAs  bson.Raw `bson:"specifiedAs"`
					Reason       string   `bson:"reason"`
				} `bson:"details"`
			} `bson:"propertiesNotSatisfied"`
		} `bson:"schemaRulesNotSatisfied"`
	} `bson:"details"`
}

// FromMongo translates write errors raised by MongoDB into DuplicateKeyError or
// SchemaError. keysOf resolves an index name to its key fields.
func FromMongo(err error, collection string, keysOf func(index string) []string) error {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return err
	}

	for _, writeErr := range we.WriteErrors {
		switch writeErr.Code {
		case mongoDuplicateKey:
			dup := &DuplicateKeyError{Collection: collection}
			if m := dupKeyIndexPattern.FindStringSubmatch(writeErr.Message); m != nil {
				dup.Index = m[1]
			}
			if keysOf != nil && dup.Index != "" {
				dup.Fields = keysOf(dup.Index)
			}
			return dup
		case mongoValidationFailed:
			violations, decodeErr := decodeSchemaDetails(writeErr.Details)
			if decodeErr != nil {
				return fmt.Errorf("%w (undecodable details: %v)", err, decodeErr)
			}
			return &SchemaError{Collection: collection, Violations: violations}
		}
	}
	return err
}

func decodeSchemaDetails(raw bson.Raw) ([]SchemaViolation, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var info schemaErrInfo
	if err := bson.Unmarshal(raw, &info); err != nil {
		return nil, err
	}

	var violations []SchemaViolation
	for _, rule := range info.Details.SchemaRulesNotSatisfied {
		// Missing required properties are reported on the rule itself
		for _, missing := range rule.MissingProperties {
			violations = append(violations, SchemaViolation{Field: missing, Operator: "required"})
		}

		for _, prop := range rule.PropertiesNotSatisfied {
			for _, reason := range prop.Details {
				v := SchemaViolation{
					Field:    prop.PropertyName,
					Operator: reason.OperatorName,
					Reason:   reason.Reason,
				}
				specified := reason.SpecifiedAs
				switch reason.OperatorName {
				case "enum":
					if vals, ok := specified.Lookup("enum").ArrayOK(); ok {
						elems, _ := vals.Values()
						for _, e := range elems {
							if s, ok := e.StringValueOK(); ok {
								v.Allowed = append(v.Allowed, s)
							}
						}
					}
				case "maxLength", "minLength", "maximum", "minimum":
					if limit, ok := specified.Lookup(reason.OperatorName).AsInt64OK(); ok {
						v.Limit = limit
					}
				}
				violations = append(violations, v)
			}
		}
	}
	return violations, nil
}
