package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/interaction"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())
	return db
}

func TestStateFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "state.json")

	sf, err := NewStateFile(path)
	require.NoError(t, err)
	assert.Empty(t, sf.LastDeviceID())

	require.NoError(t, sf.SetLastDevice("AA:BB", "GoCube_1"))

	reloaded, err := NewStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AA:BB", reloaded.LastDeviceID())
	assert.Equal(t, "GoCube_1", reloaded.State().LastDeviceName)
}

func TestSession_RecordsSettledTwists(t *testing.T) {
	db := openDB(t)
	sf, err := NewStateFile(StatePath(t.TempDir()))
	require.NoError(t, err)

	s, err := NewSession(db, sf, storage.ModePlay, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, s.ID().String(), sf.State().LastSessionID)

	s.Record(interaction.Settled{
		Face:         cubetwist.Front,
		QuarterTurns: 1,
		Source:       interaction.SourcePointer,
		Duration:     640 * time.Millisecond,
	})
	s.Record(interaction.Settled{
		Face:         cubetwist.Bottom,
		QuarterTurns: -1,
		Source:       interaction.SourceDevice,
	})

	require.NoError(t, s.Err())
	assert.Equal(t, 2, s.Count())

	twists, err := storage.NewTwistRepository(db).BySession(s.ID())
	require.NoError(t, err)
	require.Len(t, twists, 2)
	assert.Equal(t, cubetwist.Front, twists[0].Face)
	assert.Equal(t, 640*time.Millisecond, twists[0].Drag)
	assert.Equal(t, "device", twists[1].Source)
}

func TestSession_RecordErrorIsKept(t *testing.T) {
	db := openDB(t)
	s, err := NewSession(db, nil, storage.ModePlay, zerolog.Nop())
	require.NoError(t, err)

	// Zero turns violate the schema.
	s.Record(interaction.Settled{Face: cubetwist.Top, Source: interaction.SourcePointer})

	assert.Error(t, s.Err())
	assert.Equal(t, 0, s.Count())
}

func TestSession_SetDevice(t *testing.T) {
	db := openDB(t)
	sf, err := NewStateFile(StatePath(t.TempDir()))
	require.NoError(t, err)

	s, err := NewSession(db, sf, storage.ModeMirror, zerolog.Nop())
	require.NoError(t, err)
	s.SetDevice("AA:BB", "GoCube_X", 55)

	got, err := storage.NewSessionRepository(db).Get(s.ID())
	require.NoError(t, err)
	require.NotNil(t, got.DeviceName)
	assert.Equal(t, "GoCube_X", *got.DeviceName)
	assert.Equal(t, "AA:BB", sf.LastDeviceID())
}

func TestSession_Elapsed(t *testing.T) {
	db := openDB(t)
	s, err := NewSession(db, nil, storage.ModeMirror, zerolog.Nop())
	require.NoError(t, err)

	clock := s.startTime.Add(90 * time.Second)
	s.now = func() time.Time { return clock }
	assert.Equal(t, 90*time.Second, s.Elapsed())
}
