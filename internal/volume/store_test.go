package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStoreClampsInitialLevel(t *testing.T) {
	assert.Equal(t, 0.7, NewStore(0.7).Level())
	assert.Equal(t, 1.0, NewStore(3).Level())
	assert.Equal(t, 0.0, NewStore(-1).Level())
}

func TestSetNotifiesSubscribers(t *testing.T) {
	store := NewStore(0.5)

	var got []float64
	cancel := store.Subscribe(func(level float64) {
		got = append(got, level)
	})
	defer cancel()

	store.Set(0.8)
	store.Set(2.0)

	assert.Equal(t, []float64{0.8, 1.0}, got)
	assert.Equal(t, 1.0, store.Level())
}

func TestCancelStopsNotifications(t *testing.T) {
	store := NewStore(0.5)

	calls := 0
	cancel := store.Subscribe(func(float64) { calls++ })

	store.Set(0.6)
	cancel()
	store.Set(0.4)

	assert.Equal(t, 1, calls)
}

func TestSubscriberMayReadBackIntoStore(t *testing.T) {
	store := NewStore(0.5)

	var observed float64
	cancel := store.Subscribe(func(float64) {
		observed = store.Level()
	})
	defer cancel()

	store.Set(0.9)
	assert.Equal(t, 0.9, observed)
}
