package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/example/dispatch/internal/ports/secondary"
)

// InventoryRepository implements secondary.MaterialRepository with SQLite.
type InventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new SQLite inventory repository.
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ApplyRewards credits every delta of the grant in one transaction.
// A grant whose ID is already recorded is acknowledged without crediting again.
func (r *InventoryRepository) ApplyRewards(ctx context.Context, grant secondary.RewardGrant) error {
	if grant.GrantID == "" {
		return fmt.Errorf("reward grant requires an id")
	}

	return inTx(ctx, r.db, func(q queryer) error {
		res, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO reward_grants (grant_id, user_id) VALUES (?, ?)",
			grant.GrantID, grant.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to record grant %s: %w", grant.GrantID, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to record grant %s: %w", grant.GrantID, err)
		}
		if inserted == 0 {
			return nil
		}

		// Sorted for a stable write order.
		materials := make([]string, 0, len(grant.Deltas))
		for id := range grant.Deltas {
			materials = append(materials, id)
		}
		sort.Strings(materials)

		for _, materialID := range materials {
			_, err := q.ExecContext(ctx,
				`INSERT INTO materials (user_id, material_id, quantity) VALUES (?, ?, ?)
				ON CONFLICT(user_id, material_id) DO UPDATE SET
					quantity = quantity + excluded.quantity,
					updated_at = CURRENT_TIMESTAMP`,
				grant.UserID, materialID, grant.Deltas[materialID],
			)
			if err != nil {
				return fmt.Errorf("failed to credit %s: %w", materialID, err)
			}
		}
		return nil
	})
}

// ListMaterials returns the player's non-zero balances.
func (r *InventoryRepository) ListMaterials(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT material_id, quantity FROM materials WHERE user_id = ? AND quantity > 0",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]int)
	for rows.Next() {
		var (
			id  string
			qty int
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		balances[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate materials: %w", err)
	}
	return balances, nil
}

// Ensure InventoryRepository implements the interface
var _ secondary.MaterialRepository = (*InventoryRepository)(nil)
