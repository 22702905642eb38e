// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import (
	"context"
	"fmt"

	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
)

// graphRepository implements storage.GraphRepository.
type graphRepository struct {
	store *Store
}

var _ storage.GraphRepository = (*graphRepository)(nil)

// ApplyBatch persists a graph batch in a single transaction. Nodes and
// edges that already exist are left untouched, so re-applying the same
// batch is a no-op.
func (r *graphRepository) ApplyBatch(ctx context.Context, batch *storage.GraphBatch) error {
	if batch == nil || (len(batch.Nodes) == 0 && len(batch.Edges) == 0) {
		return nil
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning graph transaction: %w", storage.ErrRelationalStore, err)
	}
	defer tx.Rollback()

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO graph_nodes (id, label, type, summary) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparing node insert: %w", storage.ErrRelationalStore, err)
	}
	defer nodeStmt.Close()

	for _, node := range batch.Nodes {
		if err := core.ValidateGraphNode(&node); err != nil {
			return err
		}
		if _, err := nodeStmt.ExecContext(ctx, node.ID, node.Label, node.Type, node.Summary); err != nil {
			return fmt.Errorf("%w: inserting node %q: %w", storage.ErrRelationalStore, node.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO graph_edges (id, source, target, relation) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparing edge insert: %w", storage.ErrRelationalStore, err)
	}
	defer edgeStmt.Close()

	for _, edge := range batch.Edges {
		if err := core.ValidateGraphEdge(&edge); err != nil {
			return err
		}
		if _, err := edgeStmt.ExecContext(ctx, edge.ID, edge.Source, edge.Target, edge.Relation); err != nil {
			return fmt.Errorf("%w: inserting edge %q: %w", storage.ErrRelationalStore, edge.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing graph batch: %w", storage.ErrRelationalStore, err)
	}
	return nil
}

// ListNodes returns up to limit graph nodes.
func (r *graphRepository) ListNodes(ctx context.Context, limit int) ([]core.GraphNode, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, label, type, summary FROM graph_nodes ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing graph nodes: %w", storage.ErrRelationalStore, err)
	}
	defer rows.Close()

	var nodes []core.GraphNode
	for rows.Next() {
		var node core.GraphNode
		if err := rows.Scan(&node.ID, &node.Label, &node.Type, &node.Summary); err != nil {
			return nil, fmt.Errorf("%w: scanning graph node: %w", storage.ErrRelationalStore, err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing graph nodes: %w", storage.ErrRelationalStore, err)
	}
	return nodes, nil
}

// ListEdges returns up to limit graph edges.
func (r *graphRepository) ListEdges(ctx context.Context, limit int) ([]core.GraphEdge, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, source, target, relation FROM graph_edges ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing graph edges: %w", storage.ErrRelationalStore, err)
	}
	defer rows.Close()

	var edges []core.GraphEdge
	for rows.Next() {
		var edge core.GraphEdge
		if err := rows.Scan(&edge.ID, &edge.Source, &edge.Target, &edge.Relation); err != nil {
			return nil, fmt.Errorf("%w: scanning graph edge: %w", storage.ErrRelationalStore, err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing graph edges: %w", storage.ErrRelationalStore, err)
	}
	return edges, nil
}

// NodeCount returns the number of stored graph nodes.
func (r *graphRepository) NodeCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM graph_nodes`)
}

// EdgeCount returns the number of stored graph edges.
func (r *graphRepository) EdgeCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM graph_edges`)
}

func (r *graphRepository) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.store.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting: %w", storage.ErrRelationalStore, err)
	}
	return n, nil
}

// Close is a no-op; the underlying Store owns the connection.
func (r *graphRepository) Close() error {
	return nil
}
