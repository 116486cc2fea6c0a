package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mikatholic/dragonflight/internal/lock"
)

// LockRepository implements lock.Repository against instance2 and
// character_instance_lock.
type LockRepository struct {
	pool *pgxpool.Pool
}

// NewLockRepository creates a LockRepository.
func NewLockRepository(pool *pgxpool.Pool) *LockRepository {
	return &LockRepository{pool: pool}
}

// LoadAllSharedInstances loads every instance2 row.
func (r *LockRepository) LoadAllSharedInstances(ctx context.Context) ([]lock.SharedInstanceRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT instance_id, data, completed_encounters_mask, entrance_world_safe_loc_id FROM instance2`)
	if err != nil {
		return nil, fmt.Errorf("query instance2: %w", err)
	}
	defer rows.Close()

	var result []lock.SharedInstanceRow
	for rows.Next() {
		var row lock.SharedInstanceRow
		if err := rows.Scan(&row.InstanceID, &row.Data, &row.CompletedEncountersMask, &row.EntranceWorldSafeLocID); err != nil {
			return nil, fmt.Errorf("scan instance2: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// LoadAllBindings loads every character_instance_lock row. Per §9's
// open question, entrance_world_safe_loc_id is read back here even
// though the teacher this spec was built from never did — this is a
// deliberate correction, not a drift from spec.
func (r *LockRepository) LoadAllBindings(ctx context.Context) ([]lock.BindingRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT guid, map_id, lock_id, instance_id, difficulty, data,
		        completed_encounters_mask, entrance_world_safe_loc_id, expiry_time, extended
		 FROM character_instance_lock`)
	if err != nil {
		return nil, fmt.Errorf("query character_instance_lock: %w", err)
	}
	defer rows.Close()

	var result []lock.BindingRow
	for rows.Next() {
		var row lock.BindingRow
		if err := rows.Scan(
			&row.GUID, &row.MapID, &row.LockID, &row.InstanceID, &row.DifficultyID, &row.Data,
			&row.CompletedEncountersMask, &row.EntranceWorldSafeLocID, &row.ExpiryTime, &row.Extended,
		); err != nil {
			return nil, fmt.Errorf("scan character_instance_lock: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// DeleteOrphanedBinding removes a per-player row whose shared record
// is missing (§6 Load, §7 class 2).
func (r *LockRepository) DeleteOrphanedBinding(ctx context.Context, guid int64, mapID, lockID int32) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM character_instance_lock WHERE guid = $1 AND map_id = $2 AND lock_id = $3`,
		guid, mapID, lockID)
	if err != nil {
		return fmt.Errorf("deleting orphaned instance lock guid %d map %d lock %d: %w", guid, mapID, lockID, err)
	}
	return nil
}

// SetExtended is the fire-and-forget extension toggle (§6), executed
// outside any caller-supplied transaction.
func (r *LockRepository) SetExtended(ctx context.Context, guid int64, mapID, lockID int32, extended bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE character_instance_lock SET extended = $4 WHERE guid = $1 AND map_id = $2 AND lock_id = $3`,
		guid, mapID, lockID, extended)
	if err != nil {
		return fmt.Errorf("setting extended guid %d map %d lock %d: %w", guid, mapID, lockID, err)
	}
	return nil
}

// DeleteSharedInstance fires from the shared registry's deletion hook
// when the manager is not unloading (§4.3, §6).
func (r *LockRepository) DeleteSharedInstance(ctx context.Context, instanceID int32) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM instance2 WHERE instance_id = $1`, instanceID)
	if err != nil {
		return fmt.Errorf("deleting instance2 row %d: %w", instanceID, err)
	}
	return nil
}

// pgxTx adapts a pgx.Tx to lock.Tx, so the lock manager's persistence
// emitter stays decoupled from the pgx import.
type pgxTx struct {
	tx pgx.Tx
}

// WrapTx adapts a pgx transaction for use with lock.Manager's
// update methods.
func WrapTx(tx pgx.Tx) lock.Tx {
	return pgxTx{tx: tx}
}

func (t pgxTx) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.tx.Exec(ctx, sql, args...)
	return err
}
