// Package pgstore keeps documents in PostgreSQL: one table per collection with
// the document in a jsonb column, encoded as relaxed Extended JSON so ObjectIDs
// and dates survive the round trip.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/pkg/dberrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Store is a docstore.Store backed by a pgx pool
type Store struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType

	mu sync.RWMutex
	// index and check constraint names mapped back to document fields
	indexKeys map[string][]string
	checks    map[string]dberrors.SchemaViolation
}

var _ docstore.Store = (*Store)(nil)

// New creates a Store over an open pool
func New(db *pgxpool.Pool) *Store {
	return &Store{
		db:        db,
		sb:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		indexKeys: make(map[string][]string),
		checks:    make(map[string]dberrors.SchemaViolation),
	}
}

func table(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// EnsureCollection creates the table, its check constraints and unique indexes
func (s *Store) EnsureCollection(ctx context.Context, spec docstore.CollectionSpec) error {
	// The DDL of one collection is applied all or nothing
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, stmt := range collectionDDL(spec) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("collection", spec.Name).Msg("Error applying collection DDL")
		return fmt.Errorf("pgstore: ensure collection %s: %w", spec.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range spec.Indexes {
		s.indexKeys[idx.Name] = idx.Keys
	}
	for name, v := range checkConstraints(spec) {
		s.checks[name] = v.violation
	}
	return nil
}

type check struct {
	expr      string
	violation dberrors.SchemaViolation
}

func checkConstraints(spec docstore.CollectionSpec) map[string]check {
	checks := make(map[string]check)
	for _, field := range spec.Required {
		name := fmt.Sprintf("%s_%s_required", spec.Name, strings.ReplaceAll(field, ".", "_"))
		path := pathOf(strings.Split(field, "."))
		checks[name] = check{
			expr:      fmt.Sprintf("jsonb_path_exists(doc, %s) AND NOT jsonb_path_exists(doc, %s)", literal(path), literal(path+" ? (@ == null)")),
			violation: dberrors.SchemaViolation{Field: field, Operator: "required"},
		}
	}
	for field, allowed := range spec.Enums {
		quoted := make([]string, len(allowed))
		for i, v := range allowed {
			quoted[i] = literal(v)
		}
		name := fmt.Sprintf("%s_%s_enum", spec.Name, field)
		checks[name] = check{
			expr:      fmt.Sprintf("NOT jsonb_path_exists(doc, %s) OR doc->>%s IN (%s)", literal(pathOf([]string{field})), literal(field), strings.Join(quoted, ", ")),
			violation: dberrors.SchemaViolation{Field: field, Operator: "enum", Allowed: allowed},
		}
	}
	return checks
}

// collectionDDL lists the idempotent statements that create a collection
func collectionDDL(spec docstore.CollectionSpec) []string {
	t := table(spec.Name)
	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (seq bigserial, id text PRIMARY KEY, doc jsonb NOT NULL)", t),
	}

	checks := checkConstraints(spec)
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := pgx.Identifier{name}.Sanitize()
		stmts = append(stmts,
			fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", t, c),
			fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", t, c, checks[name].expr),
		)
	}

	for _, idx := range spec.Indexes {
		exprs := make([]string, len(idx.Keys))
		for i, key := range idx.Keys {
			exprs[i] = fmt.Sprintf("(COALESCE(doc #> %s, 'null'::jsonb))", literal("{"+strings.Join(strings.Split(key, "."), ",")+"}"))
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		name := pgx.Identifier{idx.Name}.Sanitize()
		keys, _ := json.Marshal(idx.Keys)
		stmts = append(stmts,
			fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, name, t, strings.Join(exprs, ", ")),
			fmt.Sprintf("COMMENT ON INDEX %s IS %s", name, literal(string(keys))),
		)
	}
	return stmts
}

// InsertOne stores a document under its _id
func (s *Store) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	var raw bson.Raw
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("pgstore: encode document: %w", err)
	}

	id, ok := raw.Lookup(docstore.IDField).ObjectIDOK()
	if !ok {
		var d bson.D
		if err := bson.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("pgstore: decode document: %w", err)
		}
		id = primitive.NewObjectID()
		if raw, err = bson.Marshal(append(bson.D{{Key: docstore.IDField, Value: id}}, d...)); err != nil {
			return fmt.Errorf("pgstore: encode document: %w", err)
		}
	}

	body, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return fmt.Errorf("pgstore: encode document: %w", err)
	}

	sql, args, err := s.sb.Insert(table(collection)).
		Columns("id", "doc").
		Values(id.Hex(), squirrel.Expr("CAST(? AS text)::jsonb", string(body))).
		ToSql()
	if err != nil {
		return fmt.Errorf("pgstore: build insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return s.translate(err, collection)
	}
	return nil
}

// Find decodes every matching document into out, in insertion order
func (s *Store) Find(ctx context.Context, collection string, filter docstore.Filter, out interface{}) error {
	raws, err := s.query(ctx, collection, filter, 0)
	if err != nil {
		return err
	}
	return docstore.DecodeAll(raws, out)
}

// FindOne decodes the first matching document into out
func (s *Store) FindOne(ctx context.Context, collection string, filter docstore.Filter, out interface{}) error {
	raws, err := s.query(ctx, collection, filter, 1)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return docstore.ErrNoDocuments
	}
	if err := bson.Unmarshal(raws[0], out); err != nil {
		return fmt.Errorf("pgstore: decode document: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, collection string, filter docstore.Filter, limit uint64) ([]bson.Raw, error) {
	where, err := compileFilter("doc", filter)
	if err != nil {
		return nil, err
	}

	q := s.sb.Select("doc::text").From(table(collection)).Where(where).OrderBy("seq")
	if limit > 0 {
		q = q.Limit(limit)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build select: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error executing find query")
		return nil, fmt.Errorf("pgstore: find in %s: %w", collection, err)
	}
	defer rows.Close()

	var raws []bson.Raw
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("pgstore: scan document: %w", err)
		}
		var raw bson.Raw
		if err := bson.UnmarshalExtJSON([]byte(body), false, &raw); err != nil {
			return nil, fmt.Errorf("pgstore: decode document: %w", err)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: find in %s: %w", collection, err)
	}
	return raws, nil
}

// Count returns the number of matching documents
func (s *Store) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	where, err := compileFilter("doc", filter)
	if err != nil {
		return 0, err
	}

	sql, args, err := s.sb.Select("count(*)").From(table(collection)).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("pgstore: build count: %w", err)
	}

	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error executing count query")
		return 0, fmt.Errorf("pgstore: count in %s: %w", collection, err)
	}
	return n, nil
}

// listExpr reads the array at a top-level field, treating anything else as empty
const listExpr = "CASE jsonb_typeof(doc #> CAST(? AS text[])) WHEN 'array' THEN doc #> CAST(? AS text[]) ELSE '[]'::jsonb END"

// Push appends value to the list at field
func (s *Store) Push(ctx context.Context, collection string, id primitive.ObjectID, field string, value interface{}) error {
	body, err := bson.MarshalExtJSON(bson.M{"v": value}, false, false)
	if err != nil {
		return fmt.Errorf("pgstore: encode value: %w", err)
	}
	path := strings.Split(field, ".")

	return s.update(ctx, collection, id, squirrel.Expr(
		"jsonb_set(doc, CAST(? AS text[]), ("+listExpr+") || jsonb_build_array(CAST(? AS text)::jsonb -> 'v'))",
		path, path, path, string(body),
	))
}

// Pull removes the list elements at field that match the filter
func (s *Store) Pull(ctx context.Context, collection string, id primitive.ObjectID, field string, match docstore.Filter) error {
	pred, err := compileFilter("e", match)
	if err != nil {
		return err
	}
	path := strings.Split(field, ".")

	return s.update(ctx, collection, id, squirrel.Expr(
		"jsonb_set(doc, CAST(? AS text[]), COALESCE((SELECT jsonb_agg(e) FROM jsonb_array_elements("+listExpr+") AS e WHERE NOT ?), '[]'::jsonb))",
		path, path, path, pred,
	))
}

func (s *Store) update(ctx context.Context, collection string, id primitive.ObjectID, doc squirrel.Sqlizer) error {
	sql, args, err := s.sb.Update(table(collection)).
		Set("doc", doc).
		Where(squirrel.Eq{"id": id.Hex()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("pgstore: build update: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return s.translate(err, collection)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNoDocuments
	}
	return nil
}

// DeleteOne removes the document with the given id
func (s *Store) DeleteOne(ctx context.Context, collection string, id primitive.ObjectID) error {
	sql, args, err := s.sb.Delete(table(collection)).Where(squirrel.Eq{"id": id.Hex()}).ToSql()
	if err != nil {
		return fmt.Errorf("pgstore: build delete: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error executing delete query")
		return fmt.Errorf("pgstore: delete from %s: %w", collection, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNoDocuments
	}
	return nil
}

// Indexes reads index metadata from the catalog. Key lists come from the
// comment written when the index was created.
func (s *Store) Indexes(ctx context.Context, collection string) ([]docstore.IndexSpec, error) {
	sql, args, err := s.sb.Select("i.relname", "ix.indisunique", "ix.indisprimary", "COALESCE(obj_description(i.oid, 'pg_class'), '')").
		From("pg_index ix").
		Join("pg_class i ON i.oid = ix.indexrelid").
		Join("pg_class t ON t.oid = ix.indrelid").
		Where(squirrel.Eq{"t.relname": collection}).
		OrderBy("ix.indisprimary DESC", "i.relname").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build index query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list indexes of %s: %w", collection, err)
	}
	defer rows.Close()

	var specs []docstore.IndexSpec
	for rows.Next() {
		var (
			spec    docstore.IndexSpec
			primary bool
			comment string
		)
		if err := rows.Scan(&spec.Name, &spec.Unique, &primary, &comment); err != nil {
			return nil, fmt.Errorf("pgstore: scan index: %w", err)
		}
		if primary {
			// The primary key carries the document _id
			specs = append(specs, docstore.IndexSpec{Name: "_id_", Keys: []string{docstore.IDField}})
			continue
		}
		if comment != "" {
			if err := json.Unmarshal([]byte(comment), &spec.Keys); err != nil {
				return nil, fmt.Errorf("pgstore: index %s has unreadable key list: %w", spec.Name, err)
			}
		}
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: list indexes of %s: %w", collection, err)
	}
	return specs, nil
}

// Close releases the pool
func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}

func (s *Store) translate(err error, collection string) error {
	translated := dberrors.FromPostgres(err, collection, s.keysOf)

	var dup *dberrors.DuplicateKeyError
	if errors.As(translated, &dup) {
		return dup
	}

	// Check constraints are reported by name; map them back to their rule
	var schemaErr *dberrors.SchemaError
	if errors.As(translated, &schemaErr) {
		s.mu.RLock()
		for i, v := range schemaErr.Violations {
			if known, ok := s.checks[v.Field]; ok {
				schemaErr.Violations[i] = known
			}
		}
		s.mu.RUnlock()
		return schemaErr
	}

	logger.Error().Err(err).Str("collection", collection).Msg("Error executing write")
	return fmt.Errorf("pgstore: write to %s: %w", collection, err)
}

func (s *Store) keysOf(index string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexKeys[index]
}

// literal quotes a string as an SQL literal for DDL, which cannot take parameters
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
