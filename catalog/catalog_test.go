package catalog_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/catalog"
)

func TestCatalogs(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	cases := []struct {
		assertion string
		f         func(*testing.T) catalog.Catalog
	}{
		{
			"mem",
			func(t *testing.T) catalog.Catalog {
				t.Helper()
				return catalog.NewMemCatalog()
			},
		},
		{
			"sql",
			func(t *testing.T) catalog.Catalog {
				t.Helper()
				c, err := catalog.NewSQLCatalog(db)
				require.NoError(t, err)
				return c
			},
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			cat := c.f(t)
			t.Run("put and get", func(t *testing.T) {
				id := uuid.NewString()
				require.NoError(t, cat.Put(ctx, "USER", "BOB1", id))
				found, err := cat.Get(ctx, "USER", "BOB1")
				require.NoError(t, err)
				require.Equal(t, id, found)
			})

			t.Run("names are case-insensitive", func(t *testing.T) {
				id := uuid.NewString()
				require.NoError(t, cat.Put(ctx, "group", "sys1", id))
				found, err := cat.Get(ctx, "GROUP", "Sys1")
				require.NoError(t, err)
				require.Equal(t, id, found)
			})

			t.Run("put replaces", func(t *testing.T) {
				require.NoError(t, cat.Put(ctx, "USER", "ALICE", "first"))
				require.NoError(t, cat.Put(ctx, "USER", "ALICE", "second"))
				found, err := cat.Get(ctx, "USER", "ALICE")
				require.NoError(t, err)
				require.Equal(t, "second", found)
			})

			t.Run("missing profile", func(t *testing.T) {
				_, err := cat.Get(ctx, "USER", "NOBODY")
				require.ErrorIs(t, err, catalog.ProfileNotFoundError{})
				_, err = cat.Get(ctx, "FACILITY", "BOB1")
				require.ErrorIs(t, err, catalog.ProfileNotFoundError{})
			})

			t.Run("next walks profiles in order", func(t *testing.T) {
				require.NoError(t, cat.Put(ctx, "USER", "CAROL", "c"))
				var names []string
				profile := ""
				for {
					entry, err := cat.Next(ctx, "user", profile)
					if err != nil {
						require.ErrorIs(t, err, catalog.ProfileNotFoundError{})
						break
					}
					require.Equal(t, "USER", entry.Class)
					require.NotEmpty(t, entry.Timestamp)
					names = append(names, entry.Profile)
					profile = entry.Profile
				}
				require.Equal(t, []string{"ALICE", "BOB1", "CAROL"}, names)
			})

			t.Run("next from an uncatalogued name", func(t *testing.T) {
				entry, err := cat.Next(ctx, "USER", "B")
				require.NoError(t, err)
				require.Equal(t, "BOB1", entry.Profile)
			})

			t.Run("list", func(t *testing.T) {
				entries, err := cat.List(ctx, "USER")
				require.NoError(t, err)
				require.Len(t, entries, 3)
				require.Equal(t, "ALICE", entries[0].Profile)
				require.Equal(t, "second", entries[0].ObjectID)

				entries, err = cat.List(ctx, "DATASET")
				require.NoError(t, err)
				require.Empty(t, entries)
			})
		})
	}
}

func TestSQLCatalogReopen(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", t.TempDir()+"/catalog.db")
	require.NoError(t, err)
	defer db.Close()

	first, err := catalog.NewSQLCatalog(db)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "USER", "BOB1", "id1"))

	second, err := catalog.NewSQLCatalog(db)
	require.NoError(t, err)
	found, err := second.Get(ctx, "USER", "BOB1")
	require.NoError(t, err)
	require.Equal(t, "id1", found)
}
