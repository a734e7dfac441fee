package postgres

// SQL queries for the mirror tables.
// Upserts never touch created_at so the first-seen time survives every refresh.

const (
	tableProfiles          = "profiles"
	tableCatalogEntries    = "catalog_entries"
	tableFriendSnapshots   = "friend_snapshots"
	tablePlaytimeSnapshots = "playtime_snapshots"
	tablePlaytimeDeltas    = "playtime_deltas"
)

const (
	queryCountMirrorTables = `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
	`

	queryFindProfiles = `
		SELECT
			steam_id, persona_name, profile_url, avatar, avatar_medium, avatar_full,
			last_logoff, time_created, real_name, country_code, state_code,
			missing_in_action, created_at, updated_at, last_failed_update_attempt
		FROM profiles
		WHERE steam_id = ANY($1)
		ORDER BY steam_id
	`

	queryUpsertProfile = `
		INSERT INTO profiles (
			steam_id, persona_name, profile_url, avatar, avatar_medium, avatar_full,
			last_logoff, time_created, real_name, country_code, state_code,
			missing_in_action, created_at, updated_at, last_failed_update_attempt
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (steam_id)
		DO UPDATE SET
			persona_name               = EXCLUDED.persona_name,
			profile_url                = EXCLUDED.profile_url,
			avatar                     = EXCLUDED.avatar,
			avatar_medium              = EXCLUDED.avatar_medium,
			avatar_full                = EXCLUDED.avatar_full,
			last_logoff                = EXCLUDED.last_logoff,
			time_created               = EXCLUDED.time_created,
			real_name                  = EXCLUDED.real_name,
			country_code               = EXCLUDED.country_code,
			state_code                 = EXCLUDED.state_code,
			missing_in_action          = EXCLUDED.missing_in_action,
			updated_at                 = EXCLUDED.updated_at,
			last_failed_update_attempt = EXCLUDED.last_failed_update_attempt
	`

	queryFindCatalogEntries = `
		SELECT
			app_id, name, type, is_free, short_description,
			developers, publishers, genres, release_date, header_image,
			created_at, updated_at, last_failed_update_attempt
		FROM catalog_entries
		WHERE app_id = ANY($1)
		ORDER BY app_id
	`

	queryUpsertCatalogEntry = `
		INSERT INTO catalog_entries (
			app_id, name, type, is_free, short_description,
			developers, publishers, genres, release_date, header_image,
			created_at, updated_at, last_failed_update_attempt
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (app_id)
		DO UPDATE SET
			name                       = EXCLUDED.name,
			type                       = EXCLUDED.type,
			is_free                    = EXCLUDED.is_free,
			short_description          = EXCLUDED.short_description,
			developers                 = EXCLUDED.developers,
			publishers                 = EXCLUDED.publishers,
			genres                     = EXCLUDED.genres,
			release_date               = EXCLUDED.release_date,
			header_image               = EXCLUDED.header_image,
			updated_at                 = EXCLUDED.updated_at,
			last_failed_update_attempt = EXCLUDED.last_failed_update_attempt
	`

	queryFindFriendSnapshots = `
		SELECT steam_id, bucket_year, bucket_month, friends, created_at, updated_at, last_failed_update_attempt
		FROM friend_snapshots
		WHERE steam_id = ANY($1)
		  AND bucket_year = $2
		  AND bucket_month = $3
		ORDER BY steam_id
	`

	queryLatestFriendSnapshot = `
		SELECT steam_id, bucket_year, bucket_month, friends, created_at, updated_at, last_failed_update_attempt
		FROM friend_snapshots
		WHERE steam_id = $1
		ORDER BY bucket_year DESC, bucket_month DESC
		LIMIT 1
	`

	queryExistingFriendSnapshotIDs = `
		SELECT steam_id
		FROM friend_snapshots
		WHERE steam_id = ANY($1)
		  AND bucket_year = $2
		  AND bucket_month = $3
	`

	queryUpsertFriendSnapshot = `
		INSERT INTO friend_snapshots (
			steam_id, bucket_year, bucket_month, friends,
			created_at, updated_at, last_failed_update_attempt
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (steam_id, bucket_year, bucket_month)
		DO UPDATE SET
			friends                    = EXCLUDED.friends,
			updated_at                 = EXCLUDED.updated_at,
			last_failed_update_attempt = EXCLUDED.last_failed_update_attempt
	`

	queryFindPlaytimeSnapshots = `
		SELECT steam_id, bucket_year, bucket_month, items, created_at, updated_at, last_failed_update_attempt
		FROM playtime_snapshots
		WHERE steam_id = ANY($1)
		  AND bucket_year = $2
		  AND bucket_month = $3
		ORDER BY steam_id
	`

	queryExistingPlaytimeSnapshotIDs = `
		SELECT steam_id
		FROM playtime_snapshots
		WHERE steam_id = ANY($1)
		  AND bucket_year = $2
		  AND bucket_month = $3
	`

	queryPlaytimeSnapshotIDsInBucket = `
		SELECT steam_id
		FROM playtime_snapshots
		WHERE bucket_year = $1
		  AND bucket_month = $2
		ORDER BY steam_id
	`

	queryUpsertPlaytimeSnapshot = `
		INSERT INTO playtime_snapshots (
			steam_id, bucket_year, bucket_month, items,
			created_at, updated_at, last_failed_update_attempt
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (steam_id, bucket_year, bucket_month)
		DO UPDATE SET
			items                      = EXCLUDED.items,
			updated_at                 = EXCLUDED.updated_at,
			last_failed_update_attempt = EXCLUDED.last_failed_update_attempt
	`

	queryFindPlaytimeDeltas = `
		SELECT steam_id, bucket_year, bucket_month, items, total_delta_minutes, created_at, updated_at
		FROM playtime_deltas
		WHERE steam_id = $1
		ORDER BY bucket_year DESC, bucket_month DESC
	`

	// Recomputing a delta for the same bucket replaces it.
	queryUpsertPlaytimeDelta = `
		INSERT INTO playtime_deltas (
			steam_id, bucket_year, bucket_month, items, total_delta_minutes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (steam_id, bucket_year, bucket_month)
		DO UPDATE SET
			items               = EXCLUDED.items,
			total_delta_minutes = EXCLUDED.total_delta_minutes,
			updated_at          = EXCLUDED.updated_at
	`
)
