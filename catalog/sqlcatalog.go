package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqlCatalog struct {
	db *sql.DB
}

func (c *sqlCatalog) initialize() error {
	var maxApplied int64
	err := c.db.QueryRow("select max(version) from schema_migrations").Scan(&maxApplied)
	if err == nil && maxApplied == 1 {
		return nil
	}
	if _, err := c.db.Exec(`
	create table if not exists catalog (
		class text not null,
		profile text not null,
		object_id text not null,
		timestamp text not null default current_timestamp,
		primary key (class, profile)
	);

	create table schema_migrations(
		version bigint not null,
		timestamp text not null default current_timestamp
	);

	insert into schema_migrations(version) values (1);
	`); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (c *sqlCatalog) Put(ctx context.Context, class, profile, objectID string) error {
	class, profile = normalize(class, profile)
	_, err := c.db.ExecContext(ctx, `
	insert into catalog (class, profile, object_id) values ($1, $2, $3)
	on conflict (class, profile) do update set
		object_id = excluded.object_id,
		timestamp = current_timestamp`,
		class, profile, objectID,
	)
	if err != nil {
		return fmt.Errorf("failed to store to catalog: %w", err)
	}
	return nil
}

func (c *sqlCatalog) Get(ctx context.Context, class, profile string) (string, error) {
	class, profile = normalize(class, profile)
	var objectID string
	err := c.db.QueryRowContext(ctx, `
	select object_id from catalog where class = $1 and profile = $2`,
		class, profile,
	).Scan(&objectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ProfileNotFoundError{class, profile}
		}
		return "", fmt.Errorf("failed to read from catalog: %w", err)
	}
	return objectID, nil
}

func (c *sqlCatalog) Next(ctx context.Context, class, profile string) (Entry, error) {
	class, profile = normalize(class, profile)
	entry := Entry{Class: class}
	err := c.db.QueryRowContext(ctx, `
	select profile, object_id, timestamp from catalog
	where class = $1 and profile > $2 order by profile limit 1`,
		class, profile,
	).Scan(&entry.Profile, &entry.ObjectID, &entry.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ProfileNotFoundError{class, profile}
		}
		return Entry{}, fmt.Errorf("failed to read from catalog: %w", err)
	}
	return entry, nil
}

func (c *sqlCatalog) List(ctx context.Context, class string) ([]Entry, error) {
	class, _ = normalize(class, "")
	rows, err := c.db.QueryContext(ctx, `
	select profile, object_id, timestamp from catalog where class = $1 order by profile`,
		class,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	defer rows.Close()
	entries := []Entry{}
	for rows.Next() {
		entry := Entry{Class: class}
		if err := rows.Scan(&entry.Profile, &entry.ObjectID, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return entries, nil
}

func NewSQLCatalog(db *sql.DB) (Catalog, error) {
	c := &sqlCatalog{
		db: db,
	}
	err := c.initialize()
	if err != nil {
		return nil, err
	}
	return c, nil
}
