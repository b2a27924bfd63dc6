package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStreakStore struct {
	streak     int
	lastActive time.Time
	exists     bool
	failPut    bool
}

func (f *fakeStreakStore) Get(userID uint) (int, time.Time, bool, error) {
	return f.streak, f.lastActive, f.exists, nil
}

func (f *fakeStreakStore) Put(userID uint, streak int, lastActive time.Time) error {
	if f.failPut {
		return ErrStoreUnavailable
	}
	f.streak = streak
	f.lastActive = lastActive
	f.exists = true
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var noon = time.Date(2026, time.September, 1, 12, 30, 0, 0, time.Local)

func newTestCalculator(store *fakeStreakStore) *StreakCalculator {
	calc := NewStreakCalculator(store, nil)
	calc.Now = fixedClock(noon)
	return calc
}

func TestFirstActivityStartsStreak(t *testing.T) {
	store := &fakeStreakStore{}
	calc := newTestCalculator(store)

	result, err := calc.RegisterActivity(7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local), store.lastActive)
}

func TestYesterdayContinuesStreak(t *testing.T) {
	store := &fakeStreakStore{
		streak:     4,
		lastActive: noon.AddDate(0, 0, -1),
		exists:     true,
	}
	calc := newTestCalculator(store)

	result, err := calc.RegisterActivity(7)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Streak)
}

func TestSameDayIsIdempotent(t *testing.T) {
	store := &fakeStreakStore{}
	calc := newTestCalculator(store)

	first, err := calc.RegisterActivity(7)
	require.NoError(t, err)
	second, err := calc.RegisterActivity(7)
	require.NoError(t, err)

	assert.Equal(t, first.Streak, second.Streak)
}

func TestGapResetsStreak(t *testing.T) {
	for _, daysAgo := range []int{2, 3, 30} {
		store := &fakeStreakStore{
			streak:     9,
			lastActive: noon.AddDate(0, 0, -daysAgo),
			exists:     true,
		}
		calc := newTestCalculator(store)

		result, err := calc.RegisterActivity(7)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Streak, "gap of %d days", daysAgo)
	}
}

func TestContinuationIgnoresTimeOfDay(t *testing.T) {
	// Active late yesterday evening, back just after midnight: still a
	// continuation, not a reset.
	store := &fakeStreakStore{
		streak:     2,
		lastActive: time.Date(2026, time.August, 31, 23, 50, 0, 0, time.Local),
		exists:     true,
	}
	calc := NewStreakCalculator(store, nil)
	calc.Now = fixedClock(time.Date(2026, time.September, 1, 0, 10, 0, 0, time.Local))

	result, err := calc.RegisterActivity(7)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Streak)
}

func TestZeroStreakRowCountsAsFirstActivity(t *testing.T) {
	// A row can hold streak 0 with today's date (e.g. seeded externally);
	// registering activity must still start the streak at 1.
	store := &fakeStreakStore{
		streak:     0,
		lastActive: noon,
		exists:     true,
	}
	calc := newTestCalculator(store)

	result, err := calc.RegisterActivity(7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
}

func TestRegisterActivityUnauthenticated(t *testing.T) {
	calc := newTestCalculator(&fakeStreakStore{})

	_, err := calc.RegisterActivity(0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegisterActivityStoreFailure(t *testing.T) {
	store := &fakeStreakStore{failPut: true}
	calc := newTestCalculator(store)

	_, err := calc.RegisterActivity(7)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestProgressFraction(t *testing.T) {
	cases := []struct {
		streak   int
		fraction float64
	}{
		{0, 0.0},
		{5, 0.5},
		{10, 1.0},
		{11, 1.0},
		{50, 1.0},
	}
	for _, tc := range cases {
		result := BuildStreakResult(tc.streak)
		assert.Equal(t, tc.fraction, result.ProgressFraction, "streak %d", tc.streak)
	}
}

func TestStreakMessages(t *testing.T) {
	below := BuildStreakResult(7)
	assert.Contains(t, below.Message, "3 more days")

	reached := BuildStreakResult(10)
	assert.Contains(t, reached.Message, "10 days in a row")

	beyond := BuildStreakResult(23)
	assert.Contains(t, beyond.Message, "23 days in a row")
}

func TestRegisterActivityPublishes(t *testing.T) {
	broadcaster := NewBroadcaster()
	calc := NewStreakCalculator(&fakeStreakStore{}, broadcaster)
	calc.Now = fixedClock(noon)

	events, cancel := broadcaster.Subscribe(7)
	defer cancel()

	_, err := calc.RegisterActivity(7)
	require.NoError(t, err)

	select {
	case ev := <-events:
		require.NotNil(t, ev.Streak)
		assert.Equal(t, 1, ev.Streak.Streak)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestCurrentWithoutRecord(t *testing.T) {
	calc := newTestCalculator(&fakeStreakStore{})

	result, err := calc.Current(7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Streak)
	assert.Equal(t, 0.0, result.ProgressFraction)
}
