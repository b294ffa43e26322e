package state

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

func TestRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test: requires docker")
	}

	pool := testhelper.SetupTestDB(t)
	repo := &Repo{pool: pool, q: pool}
	ctx := context.Background()

	key := testhelper.UniqueKey(t)

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Put(ctx, key, []byte(`["學"]`)))
	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `["學"]`, string(got))

	require.NoError(t, repo.Put(ctx, key, []byte(`["學","山"]`)))
	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `["學","山"]`, string(got))

	require.NoError(t, repo.Put(ctx, key, nil))
	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, repo.Ping(ctx))
}

func TestSQL_Shapes(t *testing.T) {
	t.Parallel()

	query, args, err := psql.Select("value").From(table).Where(sq.Eq{"key": "settings"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT value FROM plugin_state WHERE key = $1", query)
	assert.Equal(t, []any{"settings"}, args)
}
