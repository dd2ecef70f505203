package redislock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data    map[string]string
	setErr  error
	delErr  error
	deletes int
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if m.setErr != nil {
		return false, m.setErr
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memStore) DeleteIfOwner(_ context.Context, key, owner string) (bool, error) {
	m.deletes++
	if m.delErr != nil {
		return false, m.delErr
	}
	if m.data[key] != owner {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

func TestLock_SoloUnDuenoALaVez(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	a, err := New(store, "reconcile", time.Minute)
	require.NoError(t, err)
	b, err := New(store, "reconcile", time.Minute)
	require.NoError(t, err)

	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Release(ctx))
	assert.Contains(t, store.data, "reconcile")

	require.NoError(t, a.Release(ctx))
	assert.NotContains(t, store.data, "reconcile")

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLock_NoBorraCandadoAjeno(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	l, _ := New(store, "k", 0)
	ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// el TTL venció y otra réplica tomó el candado antes de liberar
	delete(store.data, "k")
	other, _ := New(store, "k", 0)
	ok, err = other.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	otherOwner := store.data["k"]

	require.NoError(t, l.Release(ctx))
	assert.Equal(t, otherOwner, store.data["k"])
	assert.Equal(t, 1, store.deletes, "comparar y borrar es una sola operación")

	require.NoError(t, other.Release(ctx))
	assert.NotContains(t, store.data, "k")
}

func TestLock_ReleaseSinAdquirirNoLlamaARedis(t *testing.T) {
	store := newMemStore()
	l, _ := New(store, "k", 0)
	require.NoError(t, l.Release(context.Background()))
	assert.Zero(t, store.deletes)
}

func TestLock_ErrorAlLiberar(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	l, _ := New(store, "k", 0)
	ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	store.delErr = errors.New("conn reset")
	assert.ErrorContains(t, l.Release(ctx), "conn reset")
}

func TestLock_ErrorDeRedis(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("conn refused")
	l, _ := New(store, "k", time.Second)
	_, err := l.Acquire(context.Background())
	assert.ErrorContains(t, err, "conn refused")
}

func TestNew_Validaciones(t *testing.T) {
	_, err := New(nil, "k", 0)
	assert.Error(t, err)
	_, err = New(newMemStore(), "", 0)
	assert.Error(t, err)
}
