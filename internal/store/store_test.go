package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/checkers/apps/go-server/internal/game"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	lite, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "checkers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": lite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New()
			require.True(t, g.MovePiece(game.Cell{Row: 0, Col: 1}, game.Cell{Row: 0, Col: 2}, time.Now().UTC()))

			require.NoError(t, st.Save(ctx, "s1", g))

			got, err := st.Get(ctx, "s1")
			require.NoError(t, err)
			require.Equal(t, g.Board().Grid(), got.Board().Grid())
			require.Equal(t, game.PlayerTwo, got.CurrentPlayer())
			require.Len(t, got.History(), 1)
		})
	}
}

func TestStoreMissingSession(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), "nope")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreOverwriteAndDelete(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New()
			require.NoError(t, st.Save(ctx, "s1", g))

			require.True(t, g.MovePiece(game.Cell{Row: 4, Col: 1}, game.Cell{Row: 4, Col: 2}, time.Now().UTC()))
			require.NoError(t, st.Save(ctx, "s1", g))

			got, err := st.Get(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, got.History(), 1)

			require.NoError(t, st.Delete(ctx, "s1"))
			require.NoError(t, st.Delete(ctx, "s1"))
			_, err = st.Get(ctx, "s1")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreIsolatesSnapshots(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New()
			require.NoError(t, st.Save(ctx, "s1", g))

			// Mutating the caller's game after Save must not leak into the store.
			require.True(t, g.MovePiece(game.Cell{Row: 0, Col: 1}, game.Cell{Row: 0, Col: 2}, time.Now()))

			got, err := st.Get(ctx, "s1")
			require.NoError(t, err)
			require.Empty(t, got.History())
			require.Equal(t, game.PlayerOne, got.CurrentPlayer())
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkers.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	g := game.New()
	require.True(t, g.MovePiece(game.Cell{Row: 0, Col: 1}, game.Cell{Row: 1, Col: 2}, time.Now().UTC()))
	require.NoError(t, first.Save(ctx, "keep", g))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "keep")
	require.NoError(t, err)
	require.Equal(t, game.PlayerOne, got.Board().At(1, 2))
}

func TestSQLiteCorruptRow(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "checkers.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state, created_at, updated_at) VALUES (?,?,?,?)`,
		"bad", `{"board":[],"currentPlayer":"player1","moveHistory":[]}`, "x", "x")
	require.NoError(t, err)

	_, err = st.Get(ctx, "bad")
	require.ErrorIs(t, err, game.ErrBadDimensions)
}
