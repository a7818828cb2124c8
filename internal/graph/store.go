// Package graph is the Neo4j data-access layer. One Store method per
// operation; each opens its own session and reshapes the records into
// JSON-ready property maps.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/hoclieu/edugraph-api/internal/platform/logger"
	"github.com/hoclieu/edugraph-api/internal/platform/neo4jdb"
)

// Props is one node's (or relationship's) property map, returned verbatim
// to API clients.
type Props = map[string]any

type Store struct {
	db  *neo4jdb.Client
	log *logger.Logger
}

func NewStore(db *neo4jdb.Client, log *logger.Logger) *Store {
	return &Store{db: db, log: log.With("component", "graph")}
}

// Ping verifies the database answers a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	session := s.db.ReadSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `RETURN 1`, nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if _, err := res.Consume(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Store) readRecords(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.db.ReadSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*neo4j.Record), nil
}

func (s *Store) writeRecords(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*neo4j.Record), nil
}

func runCollect(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return res.Collect(ctx)
}

func runConsume(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// nowStamp is the timestamp format stored on every node and relationship.
func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func entityProps(rec *neo4j.Record, key string) Props {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	switch e := v.(type) {
	case neo4j.Node:
		return e.Props
	case neo4j.Relationship:
		return e.Props
	case map[string]any:
		return e
	default:
		return nil
	}
}

// nodeProps unwraps a node or relationship value that arrived inside a
// collect()ed map rather than as a top-level record column.
func nodeProps(v any) Props {
	switch e := v.(type) {
	case neo4j.Node:
		return e.Props
	case neo4j.Relationship:
		return e.Props
	case map[string]any:
		return e
	default:
		return nil
	}
}

func stringVal(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func anyVal(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

func boolVal(rec *neo4j.Record, key string) bool {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func intVal(rec *neo4j.Record, key string) int64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	i, _ := v.(int64)
	return i
}

func floatVal(rec *neo4j.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch f := v.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	default:
		return 0
	}
}

// recordToMap flattens a whole record into a map, used by analytics rows.
func recordToMap(rec *neo4j.Record) Props {
	out := make(Props, len(rec.Keys))
	for _, key := range rec.Keys {
		out[key] = anyVal(rec, key)
	}
	return out
}

// collectIDs reads a single-column id result into a membership set.
func collectIDs(records []*neo4j.Record) map[string]bool {
	out := make(map[string]bool, len(records))
	for _, rec := range records {
		if id := stringVal(rec, "id"); id != "" {
			out[id] = true
		}
	}
	return out
}

func boolProp(p Props, key string) bool {
	if p == nil {
		return false
	}
	b, _ := p[key].(bool)
	return b
}

func intProp(p Props, key string) int64 {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func stringProp(p Props, key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}
