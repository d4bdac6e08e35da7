package junction_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/demand"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction/trafficlight"
)

// scriptedSensor 按脚本返回来车事件，脚本结束后不再来车
type scriptedSensor struct {
	edges []bool
}

func (s *scriptedSensor) PollArrivalEdge() bool {
	if len(s.edges) == 0 {
		return false
	}
	e := s.edges[0]
	s.edges = s.edges[1:]
	return e
}

// scriptedChooser 按脚本依次给出来车车流
type scriptedChooser struct {
	movements []entity.Movement
}

func (c *scriptedChooser) ChooseMovement() entity.Movement {
	m := c.movements[0]
	c.movements = c.movements[1:]
	return m
}

type recordingLamps struct {
	applied []entity.LampVector
}

func (l *recordingLamps) ApplyLampVector(v entity.LampVector) {
	l.applied = append(l.applied, v)
}

func newTestController(t *testing.T, edges []bool, movements ...entity.Movement) (*junction.Controller, *recordingLamps, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	lamps := &recordingLamps{}
	c := junction.NewController(
		1, 1,
		&scriptedSensor{edges: edges},
		&scriptedChooser{movements: movements},
		lamps,
		logrus.NewEntry(logger),
	)
	return c, lamps, hook
}

func messages(hook *test.Hook) []string {
	msgs := make([]string, 0)
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func TestControllerIdle(t *testing.T) {
	c, lamps, _ := newTestController(t, nil)
	for i := 0; i < 20; i++ {
		r := c.Tick()
		assert.Equal(t, entity.S0, r.Phase)
		assert.Equal(t, entity.S0, r.Next)
		assert.False(t, r.HasCandidate)
		assert.Equal(t, 0, r.Dwell)
	}
	require.Len(t, lamps.applied, 20)
	for _, v := range lamps.applied {
		assert.Equal(t, trafficlight.OutputsFor(entity.S0), v)
	}
}

func TestControllerArrival(t *testing.T) {
	c, _, hook := newTestController(t, []bool{true, false, true}, entity.NorthLeft, entity.WestThrough)

	r := c.Tick()
	assert.True(t, r.Admitted())
	assert.Equal(t, entity.NorthLeft, r.Arrival)
	assert.Contains(t, messages(hook), "New car added: NL (Total: 1 cars)")

	r = c.Tick()
	assert.False(t, r.Arrived)

	r = c.Tick()
	assert.True(t, r.Admitted())
	assert.Equal(t, entity.WestThrough, r.Arrival)
}

func TestControllerRefusal(t *testing.T) {
	c, _, hook := newTestController(t, []bool{true, true, true},
		entity.NorthRight, entity.NorthRight, entity.NorthRight)
	// 前两个周期处于S0、S1，均不放行NR
	c.Tick()
	c.Tick()
	hook.Reset()
	r := c.Tick()
	assert.True(t, r.Arrived)
	assert.False(t, r.Admitted())
	assert.ErrorIs(t, r.AdmitErr, demand.ErrMovementFull)
	assert.Equal(t, 2, c.Queue().CountFor(entity.NorthRight))
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, messages(hook), "Cannot add car: Direction NR is full (max 2 cars)")
	for _, e := range hook.AllEntries() {
		if e.Message == "Cannot add car: Direction NR is full (max 2 cars)" {
			assert.Equal(t, logrus.WarnLevel, e.Level)
		}
	}
}

func TestControllerDwellExtension(t *testing.T) {
	c, _, hook := newTestController(t, nil)
	require.True(t, c.Queue().Admit(entity.NorthRight))

	r := c.Tick()
	assert.True(t, r.HasCandidate)
	assert.Equal(t, entity.S1, r.Candidate)
	assert.Equal(t, entity.S0, r.Next)
	assert.Equal(t, 1, r.Dwell)
	assert.Contains(t, messages(hook), "Green wait: 1/2")

	r = c.Tick()
	assert.Equal(t, entity.S0, r.Phase)
	assert.Equal(t, entity.S1, r.Next)
	assert.Equal(t, 0, r.Dwell)
	assert.Equal(t, entity.S1, c.Phase())
	assert.Equal(t, 0, c.Dwell())

	// 清空相位不等待
	r = c.Tick()
	assert.Equal(t, entity.S2, r.Next)
	assert.Equal(t, 0, r.Dwell)
}

func TestControllerDwellResetWithoutDemand(t *testing.T) {
	c, _, _ := newTestController(t, nil)
	require.True(t, c.Queue().Admit(entity.NorthRight))
	c.Tick()
	require.Equal(t, 1, c.Dwell())

	// 需求消失（此处直接取走），等待计数清零
	_, ok := c.Queue().RemoveHead()
	require.True(t, ok)
	r := c.Tick()
	assert.False(t, r.HasCandidate)
	assert.Equal(t, 0, r.Dwell)
	assert.Equal(t, entity.S0, c.Phase())
}

func TestControllerEndToEnd(t *testing.T) {
	c, lamps, _ := newTestController(t, nil)
	for i := 0; i < 3; i++ {
		r := c.Tick()
		assert.Equal(t, entity.S0, r.Next)
	}

	for _, m := range []entity.Movement{entity.EastThrough, entity.WestLeft, entity.NorthLeft} {
		require.True(t, c.Queue().Admit(m))
	}
	assert.Equal(t, 1, c.Queue().CountFor(entity.EastThrough))
	assert.Equal(t, 1, c.Queue().CountFor(entity.WestLeft))
	assert.Equal(t, 1, c.Queue().CountFor(entity.NorthLeft))

	r := c.Tick()
	assert.True(t, r.Served)
	assert.Equal(t, entity.EastThrough, r.ServedMovement)
	assert.True(t, r.HasCandidate)
	assert.Equal(t, entity.S4, r.Candidate)
	assert.Equal(t, 1, r.Dwell)
	assert.Equal(t, entity.S0, r.Next)
	assert.Equal(t, []entity.Movement{entity.WestLeft, entity.NorthLeft}, r.Queue)

	r = c.Tick()
	assert.False(t, r.Served)
	assert.Equal(t, entity.S4, r.Candidate)
	assert.Equal(t, entity.S4, r.Next)
	assert.Equal(t, 0, r.Dwell)
	assert.Equal(t, []entity.Movement{entity.WestLeft, entity.NorthLeft}, r.Queue)

	// S4 -> S5，S4不放行任何车流
	r = c.Tick()
	assert.False(t, r.Served)
	assert.Equal(t, entity.S5, r.Next)
	assert.Equal(t, trafficlight.OutputsFor(entity.S4), lamps.applied[len(lamps.applied)-1])

	// S5：队头WL不能通行；WL有需求 -> S7，需要等待一个周期
	r = c.Tick()
	assert.False(t, r.Served)
	assert.Equal(t, entity.S7, r.Candidate)
	assert.Equal(t, entity.S5, r.Next)
	r = c.Tick()
	assert.Equal(t, entity.S7, r.Next)

	// S7 -> S2，S2放行WL与NL
	r = c.Tick()
	assert.Equal(t, entity.S2, r.Next)
	r = c.Tick()
	assert.True(t, r.Served)
	assert.Equal(t, entity.WestLeft, r.ServedMovement)
	assert.Equal(t, entity.S3, r.Next)
	r = c.Tick()
	assert.False(t, r.Served) // S3只放行WS
	assert.Equal(t, entity.S0, r.Next)
	assert.Equal(t, []entity.Movement{entity.NorthLeft}, r.Queue)
}

func TestControllerSteps(t *testing.T) {
	c, _, _ := newTestController(t, nil)
	assert.Equal(t, int32(1), c.Tick().Step)
	assert.Equal(t, int32(2), c.Tick().Step)
	assert.Equal(t, int32(1), c.ID())
}
