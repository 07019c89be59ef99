package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickwake/internal/platform"
)

const msNS = platform.Interval(1_000_000)

func TestRun_PeriodicBlink(t *testing.T) {
	res := RunWithGolden(t, &Scenario{
		Name:    "periodic-blink",
		Timeout: 50 * msNS,
		Timers: []TimerSpec{
			{Name: "blink", Offset: 10 * msNS, Period: 20 * msNS},
		},
	})

	require.Len(t, res.Snapshot.Trace, 6)
	assert.Equal(t, "wake", res.Snapshot.Trace[0].Kind)
	assert.Equal(t, "run-0001", res.Snapshot.RunToken)
}

func TestRun_CascadeMicrostep(t *testing.T) {
	res := RunWithGolden(t, &Scenario{
		Name: "cascade-microstep",
		Timers: []TimerSpec{
			{Name: "tick", Offset: 10 * msNS, Cascade: "follow"},
		},
	})

	require.Len(t, res.Snapshot.Trace, 3)
	follow := res.Snapshot.Trace[2]
	assert.Equal(t, "follow", follow.Name)
	assert.Equal(t, res.Snapshot.Trace[1].TagNS, follow.TagNS,
		"cascade fires at the same instant as its trigger")
	assert.Equal(t, uint32(1), follow.Microstep)
}

func TestRun_NotifyInterruptsWait(t *testing.T) {
	res := RunWithGolden(t, &Scenario{
		Name: "notify-interrupts-wait",
		Timers: []TimerSpec{
			{Name: "alarm", Offset: 20 * msNS},
		},
		Inject: []InjectSpec{{AtWake: 1, Name: "intruder"}},
	})

	require.Len(t, res.Snapshot.Trace, 3)
	assert.Equal(t, "interrupted", res.Snapshot.Trace[0].Status)
	assert.Equal(t, "intruder", res.Snapshot.Trace[1].Name,
		"injected event is processed before the original timer")
	assert.Equal(t, "alarm", res.Snapshot.Trace[2].Name)
}
