package measure

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingMeasurement struct {
	calls    []string
	startErr error
	endErr   error
	closed   bool
}

func (m *recordingMeasurement) Info() Info {
	return Info{ID: "recording", Name: "Recording", Unit: "N"}
}

func (m *recordingMeasurement) Start() (int, error) {
	m.calls = append(m.calls, "start")
	return 40, m.startErr
}

func (m *recordingMeasurement) End(token int) (uint64, error) {
	m.calls = append(m.calls, "end")
	return uint64(token + 2), m.endErr
}

func (m *recordingMeasurement) Close() error {
	m.closed = true
	return nil
}

func TestBindBracketsFunction(t *testing.T) {
	m := &recordingMeasurement{}
	meter := Bind[int](m)

	v, err := meter.Measure(func() error {
		m.calls = append(m.calls, "fn")
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)
	require.Equal(t, []string{"start", "fn", "end"}, m.calls)
	require.Equal(t, "recording", meter.Info().ID)

	require.NoError(t, meter.Close())
	require.True(t, m.closed)
}

func TestBindEndsAfterFunctionError(t *testing.T) {
	m := &recordingMeasurement{}
	boom := errors.New("boom")

	_, err := Bind[int](m).Measure(func() error { return boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"start", "end"}, m.calls)
}

func TestBindStartError(t *testing.T) {
	m := &recordingMeasurement{startErr: errors.New("no counter")}
	called := false

	_, err := Bind[int](m).Measure(func() error {
		called = true
		return nil
	})
	require.ErrorContains(t, err, "start recording")
	require.False(t, called)
}

func TestBindEndError(t *testing.T) {
	m := &recordingMeasurement{endErr: errors.New("read failed")}

	_, err := Bind[int](m).Measure(func() error { return nil })
	require.ErrorContains(t, err, "end recording")
}

func TestBindCloseWithoutCloser(t *testing.T) {
	require.NoError(t, Bind[time.Time](WallTime{}).Close())
}

func TestWallTime(t *testing.T) {
	meter := Bind[time.Time](WallTime{})
	require.Equal(t, "wall_time", meter.Info().ID)
	require.Equal(t, "ns", meter.Info().Unit)

	v, err := meter.Measure(func() error {
		time.Sleep(time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, v, uint64(time.Millisecond))
}

func TestCycles(t *testing.T) {
	meter := Bind[uint64](Cycles{})
	require.Equal(t, "cpu_cycles", meter.Info().ID)
	require.Equal(t, "N", meter.Info().Unit)

	for i := 0; i < 3; i++ {
		v, err := meter.Measure(func() error {
			time.Sleep(time.Millisecond)
			return nil
		})
		require.NoError(t, err)
		require.Greater(t, v, uint64(0))
	}
}
