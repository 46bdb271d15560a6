package cache

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err := New(context.Background(), Options{Addr: addr})
	require.Error(t, err)
}

func TestOptionsShareOneInstance(t *testing.T) {
	opts := Options{Addr: "redis:6379", Password: "pw", DB: 2}
	ro := opts.RedisOptions()
	ao := opts.AsynqOptions()
	require.Equal(t, ro.Addr, ao.Addr)
	require.Equal(t, ro.Password, ao.Password)
	require.Equal(t, ro.DB, ao.DB)
}
