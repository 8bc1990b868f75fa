package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLoader 内存版 Loader
type mapLoader struct {
	data  map[string][]byte
	loads int
}

func (m *mapLoader) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := m.data[key]; ok {
		return b, nil
	}
	m.loads++
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	m.data[key] = b
	return b, nil
}

type doc struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSONCachesValue(t *testing.T) {
	l := &mapLoader{data: map[string][]byte{}}
	load := func(context.Context) (*doc, error) { return &doc{Name: "alice"}, nil }

	for i := 0; i < 3; i++ {
		got, err := GetOrLoadJSON[doc](l, context.Background(), "k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)
	}
	assert.Equal(t, 1, l.loads)
	assert.JSONEq(t, `{"name":"alice"}`, string(l.data["k"]))
}

func TestGetOrLoadJSONPropagatesLoadError(t *testing.T) {
	l := &mapLoader{data: map[string][]byte{}}
	boom := errors.New("boom")
	_, err := GetOrLoadJSON[doc](l, context.Background(), "k", time.Minute, func(context.Context) (*doc, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, l.data)
}

func TestGetOrLoadJSONNull(t *testing.T) {
	l := &mapLoader{data: map[string][]byte{"k": []byte("null")}}
	got, err := GetOrLoadJSON[doc](l, context.Background(), "k", time.Minute, func(context.Context) (*doc, error) {
		t.Fatal("must not load")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetOrLoadJSONStaleEntryFallsBack(t *testing.T) {
	l := &mapLoader{data: map[string][]byte{"k": []byte(`{"name":42}`)}}
	calls := 0
	got, err := GetOrLoadJSON[doc](l, context.Background(), "k", time.Minute, func(context.Context) (*doc, error) {
		calls++
		return &doc{Name: "bob"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Name)
	assert.Equal(t, 1, calls)
}
