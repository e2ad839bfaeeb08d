// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/dispatch/internal/ports/secondary"
)

// MissionRepository implements secondary.MissionRepository with SQLite.
type MissionRepository struct {
	db *sql.DB
}

// NewMissionRepository creates a new SQLite mission repository.
func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// WithinLock runs fn while holding the store's write lock.
// Missions read and written through the ctx passed to fn see no concurrent writer.
func (r *MissionRepository) WithinLock(ctx context.Context, fn func(ctx context.Context) error) error {
	return withinLock(ctx, r.db, fn)
}

// LoadActive returns the persisted active set in start order.
func (r *MissionRepository) LoadActive(ctx context.Context) ([]*secondary.MissionRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, region_id, unit_ids, start_time, duration, end_time, status, rewards, great_success
		FROM dispatch_missions ORDER BY position, start_time, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load active missions: %w", err)
	}
	defer rows.Close()

	var missions []*secondary.MissionRecord
	for rows.Next() {
		var (
			unitIDs string
			rewards sql.NullString
		)
		record := &secondary.MissionRecord{}
		if err := rows.Scan(&record.ID, &record.RegionID, &unitIDs, &record.StartTime, &record.Duration,
			&record.EndTime, &record.Status, &rewards, &record.GreatSuccess); err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		if err := decodeMissionColumns(record, unitIDs, rewards); err != nil {
			return nil, err
		}
		missions = append(missions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate missions: %w", err)
	}
	return missions, nil
}

// SaveActive makes the stored active set equal to missions. Rows whose content
// is unchanged are left alone; missing rows are deleted.
func (r *MissionRepository) SaveActive(ctx context.Context, missions []*secondary.MissionRecord) error {
	return inTx(ctx, r.db, func(q queryer) error {
		keep := make([]any, 0, len(missions))
		for _, m := range missions {
			keep = append(keep, m.ID)
		}
		del := "DELETE FROM dispatch_missions"
		if len(keep) > 0 {
			del += " WHERE id NOT IN (?" + strings.Repeat(", ?", len(keep)-1) + ")"
		}
		if _, err := q.ExecContext(ctx, del, keep...); err != nil {
			return fmt.Errorf("failed to remove finished missions: %w", err)
		}

		for i, m := range missions {
			unitIDs, rewards, err := encodeMissionColumns(m)
			if err != nil {
				return err
			}
			_, err = q.ExecContext(ctx,
				`INSERT INTO dispatch_missions
				(id, region_id, unit_ids, start_time, duration, end_time, status, rewards, great_success, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					region_id = excluded.region_id,
					unit_ids = excluded.unit_ids,
					start_time = excluded.start_time,
					duration = excluded.duration,
					end_time = excluded.end_time,
					status = excluded.status,
					rewards = excluded.rewards,
					great_success = excluded.great_success,
					position = excluded.position
				WHERE dispatch_missions.status IS NOT excluded.status
					OR dispatch_missions.rewards IS NOT excluded.rewards
					OR dispatch_missions.great_success IS NOT excluded.great_success
					OR dispatch_missions.unit_ids IS NOT excluded.unit_ids
					OR dispatch_missions.position IS NOT excluded.position`,
				m.ID, m.RegionID, unitIDs, m.StartTime, m.Duration, m.EndTime, m.Status, rewards, m.GreatSuccess, i,
			)
			if err != nil {
				return fmt.Errorf("failed to save mission %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

// AppendHistory records a claimed mission and keeps only the newest limit entries.
// A negative limit keeps everything.
func (r *MissionRepository) AppendHistory(ctx context.Context, m *secondary.MissionRecord, limit int) error {
	unitIDs, rewards, err := encodeMissionColumns(m)
	if err != nil {
		return err
	}
	if !rewards.Valid {
		rewards = sql.NullString{String: "{}", Valid: true}
	}

	return inTx(ctx, r.db, func(q queryer) error {
		_, err := q.ExecContext(ctx,
			`INSERT OR REPLACE INTO dispatch_history
			(id, region_id, unit_ids, start_time, duration, end_time, rewards, great_success, claimed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.RegionID, unitIDs, m.StartTime, m.Duration, m.EndTime, rewards, m.GreatSuccess, m.ClaimedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append history for mission %s: %w", m.ID, err)
		}

		if limit >= 0 {
			_, err = q.ExecContext(ctx,
				`DELETE FROM dispatch_history WHERE id NOT IN (
					SELECT id FROM dispatch_history ORDER BY claimed_at DESC, rowid DESC LIMIT ?
				)`, limit)
			if err != nil {
				return fmt.Errorf("failed to trim history: %w", err)
			}
		}
		return nil
	})
}

// LoadHistory returns up to limit claimed missions, most recent first.
// A negative limit returns everything.
func (r *MissionRepository) LoadHistory(ctx context.Context, limit int) ([]*secondary.MissionRecord, error) {
	query := `SELECT id, region_id, unit_ids, start_time, duration, end_time, rewards, great_success, claimed_at
		FROM dispatch_history ORDER BY claimed_at DESC, rowid DESC`
	args := []any{}
	if limit >= 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var missions []*secondary.MissionRecord
	for rows.Next() {
		var (
			unitIDs string
			rewards sql.NullString
		)
		record := &secondary.MissionRecord{Status: "claimed"}
		if err := rows.Scan(&record.ID, &record.RegionID, &unitIDs, &record.StartTime, &record.Duration,
			&record.EndTime, &rewards, &record.GreatSuccess, &record.ClaimedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		if err := decodeMissionColumns(record, unitIDs, rewards); err != nil {
			return nil, err
		}
		missions = append(missions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return missions, nil
}

func encodeMissionColumns(m *secondary.MissionRecord) (string, sql.NullString, error) {
	ids := m.UnitIDs
	if ids == nil {
		ids = []string{}
	}
	unitIDs, err := json.Marshal(ids)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("failed to encode unit ids for mission %s: %w", m.ID, err)
	}

	var rewards sql.NullString
	if m.Rewards != nil {
		data, err := json.Marshal(m.Rewards)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("failed to encode rewards for mission %s: %w", m.ID, err)
		}
		rewards = sql.NullString{String: string(data), Valid: true}
	}
	return string(unitIDs), rewards, nil
}

func decodeMissionColumns(record *secondary.MissionRecord, unitIDs string, rewards sql.NullString) error {
	if err := json.Unmarshal([]byte(unitIDs), &record.UnitIDs); err != nil {
		return fmt.Errorf("failed to decode unit ids for mission %s: %w", record.ID, err)
	}
	if rewards.Valid {
		if err := json.Unmarshal([]byte(rewards.String), &record.Rewards); err != nil {
			return fmt.Errorf("failed to decode rewards for mission %s: %w", record.ID, err)
		}
	}
	return nil
}

// Ensure MissionRepository implements the interface
var _ secondary.MissionRepository = (*MissionRepository)(nil)
