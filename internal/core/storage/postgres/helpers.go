package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	v1 "github.com/steamopera/steamsync/internal/api/v1"
	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/steamopera/steamsync/internal/core/storage"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// persistErr tags a storage failure so callers can tell it from a source miss.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, coreerrors.ErrPersistence, err)
}

// upsertAll writes every item through one prepared statement in a single
// transaction. Either all rows land or none do.
func upsertAll[T any](ctx context.Context, db *sql.DB, op, query string, items []T, args func(T) ([]interface{}, error)) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr(op+": begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return persistErr(op+": prepare", err)
	}
	defer stmt.Close()

	for _, item := range items {
		values, err := args(item)
		if err != nil {
			return persistErr(op, err)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return persistErr(op+": exec", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr(op+": commit", err)
	}
	return nil
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, op, query string, scan func(scanner) (T, error), args ...interface{}) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr(op, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, persistErr(op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(op+": iterate", err)
	}
	return out, nil
}

func scanID(row scanner) (string, error) {
	var id string
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("failed to scan id: %w", err)
	}
	return id, nil
}

// deleteQuery builds a DELETE scoped by the non-zero fields of filter.
// Callers validate the filter first.
func deleteQuery(table string, filter storage.DeleteFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SteamID != "" {
		args = append(args, filter.SteamID)
		conds = append(conds, fmt.Sprintf("steam_id = $%d", len(args)))
	}
	if filter.BucketYear != 0 {
		args = append(args, filter.BucketYear)
		conds = append(conds, fmt.Sprintf("bucket_year = $%d", len(args)))
	}
	if filter.BucketMonth != 0 {
		args = append(args, filter.BucketMonth)
		conds = append(conds, fmt.Sprintf("bucket_month = $%d", len(args)))
	}
	return "DELETE FROM " + table + " WHERE " + strings.Join(conds, " AND "), args
}

func deleteByFilter(ctx context.Context, db *sql.DB, table string, filter storage.DeleteFilter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}

	query, args := deleteQuery(table, filter)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, persistErr("delete "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, persistErr("delete "+table+": rows affected", err)
	}
	return n, nil
}

func scanProfile(row scanner) (v1.Profile, error) {
	var p v1.Profile
	err := row.Scan(
		&p.SteamID,
		&p.PersonaName,
		&p.ProfileURL,
		&p.Avatar,
		&p.AvatarMedium,
		&p.AvatarFull,
		&p.LastLogoff,
		&p.TimeCreated,
		&p.RealName,
		&p.CountryCode,
		&p.StateCode,
		&p.MissingInAction,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LastFailedUpdateAttempt,
	)
	if err != nil {
		return v1.Profile{}, fmt.Errorf("failed to scan profile row: %w", err)
	}
	return p, nil
}

func scanCatalogEntry(row scanner) (v1.CatalogEntry, error) {
	var c v1.CatalogEntry
	err := row.Scan(
		&c.AppID,
		&c.Name,
		&c.Type,
		&c.IsFree,
		&c.ShortDescription,
		pq.Array(&c.Developers),
		pq.Array(&c.Publishers),
		pq.Array(&c.Genres),
		&c.ReleaseDate,
		&c.HeaderImage,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.LastFailedUpdateAttempt,
	)
	if err != nil {
		return v1.CatalogEntry{}, fmt.Errorf("failed to scan catalog row: %w", err)
	}
	return c, nil
}

func scanFriendSnapshot(row scanner) (v1.FriendSnapshot, error) {
	var (
		s       v1.FriendSnapshot
		friends []byte
	)
	err := row.Scan(
		&s.SteamID,
		&s.Bucket.Year,
		&s.Bucket.Month,
		&friends,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.LastFailedUpdateAttempt,
	)
	if err != nil {
		return v1.FriendSnapshot{}, fmt.Errorf("failed to scan friend snapshot row: %w", err)
	}
	if err := json.Unmarshal(friends, &s.Friends); err != nil {
		return v1.FriendSnapshot{}, fmt.Errorf("failed to unmarshal friends: %w", err)
	}
	return s, nil
}

func scanPlaytimeSnapshot(row scanner) (v1.PlaytimeSnapshot, error) {
	var (
		s     v1.PlaytimeSnapshot
		items []byte
	)
	err := row.Scan(
		&s.SteamID,
		&s.Bucket.Year,
		&s.Bucket.Month,
		&items,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.LastFailedUpdateAttempt,
	)
	if err != nil {
		return v1.PlaytimeSnapshot{}, fmt.Errorf("failed to scan playtime snapshot row: %w", err)
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return v1.PlaytimeSnapshot{}, fmt.Errorf("failed to unmarshal playtime items: %w", err)
	}
	return s, nil
}

func scanPlaytimeDelta(row scanner) (v1.PlaytimeDelta, error) {
	var (
		d     v1.PlaytimeDelta
		items []byte
	)
	err := row.Scan(
		&d.SteamID,
		&d.Bucket.Year,
		&d.Bucket.Month,
		&items,
		&d.TotalDeltaMinutes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return v1.PlaytimeDelta{}, fmt.Errorf("failed to scan playtime delta row: %w", err)
	}
	if err := json.Unmarshal(items, &d.Items); err != nil {
		return v1.PlaytimeDelta{}, fmt.Errorf("failed to unmarshal delta items: %w", err)
	}
	return d, nil
}

// marshalList encodes a jsonb list column. A nil slice is stored as [].
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list: %w", err)
	}
	return b, nil
}
