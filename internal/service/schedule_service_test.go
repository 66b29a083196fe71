package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhtran/scorekeeper-api/internal/models"
	"github.com/vhtran/scorekeeper-api/internal/store/memory"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

var scheduleEpoch = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

func newScheduleService(store *memory.ScheduleStore, now time.Time) *ScheduleService {
	return NewScheduleService(store, nil, nil, func() time.Time { return now })
}

func seedWindow(t *testing.T, store *memory.ScheduleStore, w models.ScheduleWindow) models.ScheduleWindow {
	t.Helper()
	w.Active = true
	require.NoError(t, store.Create(context.Background(), &w))
	return w
}

func TestIsEntryAllowedWindowStates(t *testing.T) {
	store := memory.NewScheduleStore()
	seedWindow(t, store, models.ScheduleWindow{
		Name: "S1 entry", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", scheduleEpoch.Add(-time.Hour), false},
		{"at start", scheduleEpoch, true},
		{"inside", scheduleEpoch.Add(24 * time.Hour), true},
		{"after end", scheduleEpoch.Add(49 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newScheduleService(store, tc.now)
			open, err := svc.IsEntryAllowed(context.Background(), "10A2", 2024, models.SemesterFirst)
			require.NoError(t, err)
			assert.Equal(t, tc.want, open)
		})
	}
}

func TestIsEntryAllowedNoWindow(t *testing.T) {
	svc := newScheduleService(memory.NewScheduleStore(), scheduleEpoch)
	open, err := svc.IsEntryAllowed(context.Background(), "10A2", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.False(t, open, "absence of a window means entry is closed")
}

func TestIsEntryAllowedLockedWindow(t *testing.T) {
	store := memory.NewScheduleStore()
	seedWindow(t, store, models.ScheduleWindow{
		Name: "S1 entry", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour), Locked: true,
	})
	svc := newScheduleService(store, scheduleEpoch.Add(time.Hour))
	open, err := svc.IsEntryAllowed(context.Background(), "10A2", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.False(t, open, "a locked window never allows entry, even inside its range")
}

func TestCreateWindowRejectsOverlap(t *testing.T) {
	store := memory.NewScheduleStore()
	svc := newScheduleService(store, scheduleEpoch)

	_, err := svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "first", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "second", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch.Add(24 * time.Hour), EndAt: scheduleEpoch.Add(72 * time.Hour),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrOverlap)
}

func TestCreateWindowAllowsTouchingRanges(t *testing.T) {
	store := memory.NewScheduleStore()
	svc := newScheduleService(store, scheduleEpoch)

	_, err := svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "first", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "second", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch.Add(24 * time.Hour), EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	assert.NoError(t, err, "end-meets-start is not an overlap")
}

func TestCreateWindowOverlapIsPerTuple(t *testing.T) {
	store := memory.NewScheduleStore()
	svc := newScheduleService(store, scheduleEpoch)

	_, err := svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "10A2 S1", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "11B1 S1", ClassName: "11B1", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	assert.NoError(t, err, "windows for different classes never conflict")

	_, err = svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "10A2 S2", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterSecond,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	assert.NoError(t, err, "windows for different semesters never conflict")
}

func TestCreateWindowValidation(t *testing.T) {
	svc := newScheduleService(memory.NewScheduleStore(), scheduleEpoch)

	_, err := svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "bad", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterBoth,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(time.Hour),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation, "windows carry concrete semesters only")

	_, err = svc.CreateWindow(context.Background(), CreateWindowRequest{
		Name: "bad", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch.Add(time.Hour), EndAt: scheduleEpoch,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUpdateWindowLockedIsImmutable(t *testing.T) {
	store := memory.NewScheduleStore()
	window := seedWindow(t, store, models.ScheduleWindow{
		Name: "S1 entry", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour), Locked: true,
	})
	svc := newScheduleService(store, scheduleEpoch)

	_, err := svc.UpdateWindow(context.Background(), window.ID, UpdateWindowRequest{
		Name: "renamed", StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestLockWindowIsIdempotent(t *testing.T) {
	store := memory.NewScheduleStore()
	window := seedWindow(t, store, models.ScheduleWindow{
		Name: "S1 entry", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	svc := newScheduleService(store, scheduleEpoch)

	locked, err := svc.LockWindow(context.Background(), window.ID)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	again, err := svc.LockWindow(context.Background(), window.ID)
	require.NoError(t, err)
	assert.True(t, again.Locked)
}

func TestSweepAndLockExpiredWindows(t *testing.T) {
	store := memory.NewScheduleStore()
	expired := seedWindow(t, store, models.ScheduleWindow{
		Name: "expired", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch.Add(-48 * time.Hour), EndAt: scheduleEpoch.Add(-time.Hour),
	})
	running := seedWindow(t, store, models.ScheduleWindow{
		Name: "running", ClassName: "11B1", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch.Add(-time.Hour), EndAt: scheduleEpoch.Add(time.Hour),
	})
	svc := newScheduleService(store, scheduleEpoch)

	locked := svc.SweepAndLock(context.Background(), scheduleEpoch)
	assert.Equal(t, 1, locked)

	reloaded, err := store.FindByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Locked)

	still, err := store.FindByID(context.Background(), running.ID)
	require.NoError(t, err)
	assert.False(t, still.Locked, "a window still in range must stay open")

	// Second pass finds nothing new to lock.
	assert.Equal(t, 0, svc.SweepAndLock(context.Background(), scheduleEpoch))
}

func TestSweepNeverUnlocks(t *testing.T) {
	store := memory.NewScheduleStore()
	window := seedWindow(t, store, models.ScheduleWindow{
		Name: "manual lock", ClassName: "10A2", AcademicYear: 2024, Semester: models.SemesterFirst,
		StartAt: scheduleEpoch, EndAt: scheduleEpoch.Add(48 * time.Hour),
	})
	svc := newScheduleService(store, scheduleEpoch.Add(time.Hour))

	_, err := svc.LockWindow(context.Background(), window.ID)
	require.NoError(t, err)

	svc.SweepAndLock(context.Background(), scheduleEpoch.Add(time.Hour))

	reloaded, err := store.FindByID(context.Background(), window.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Locked)
}
