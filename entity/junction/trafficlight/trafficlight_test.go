package trafficlight_test

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/demand"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction/trafficlight"
)

func queueOf(t *testing.T, movements ...entity.Movement) *demand.Queue {
	t.Helper()
	q := demand.New()
	for _, m := range movements {
		require.True(t, q.Admit(m))
	}
	return q
}

func TestNextPhaseUnconditional(t *testing.T) {
	empty := demand.New()
	cases := map[entity.Phase]entity.Phase{
		entity.S1: entity.S2,
		entity.S2: entity.S3,
		entity.S3: entity.S0,
		entity.S4: entity.S5,
		entity.S6: entity.S0,
		entity.S7: entity.S2,
	}
	for from, to := range cases {
		next, ok := trafficlight.NextPhase(from, empty)
		assert.True(t, ok, from.String())
		assert.Equal(t, to, next, from.String())
	}
}

func TestNextPhaseFromS0(t *testing.T) {
	next, ok := trafficlight.NextPhase(entity.S0, demand.New())
	assert.False(t, ok)
	assert.Equal(t, entity.S0, next)

	// 只有本相位放行的车流排队，不切换
	_, ok = trafficlight.NextPhase(entity.S0, queueOf(t, entity.EastThrough, entity.WestThrough))
	assert.False(t, ok)

	next, ok = trafficlight.NextPhase(entity.S0, queueOf(t, entity.NorthRight))
	assert.True(t, ok)
	assert.Equal(t, entity.S1, next)

	next, ok = trafficlight.NextPhase(entity.S0, queueOf(t, entity.WestLeft))
	assert.True(t, ok)
	assert.Equal(t, entity.S1, next)

	// 北左转优先，与到达顺序无关
	next, ok = trafficlight.NextPhase(entity.S0, queueOf(t, entity.NorthRight, entity.WestLeft, entity.NorthLeft))
	assert.True(t, ok)
	assert.Equal(t, entity.S4, next)
}

func TestNextPhaseFromS5(t *testing.T) {
	_, ok := trafficlight.NextPhase(entity.S5, demand.New())
	assert.False(t, ok)

	_, ok = trafficlight.NextPhase(entity.S5, queueOf(t, entity.NorthLeft, entity.NorthRight))
	assert.False(t, ok)

	next, ok := trafficlight.NextPhase(entity.S5, queueOf(t, entity.EastThrough))
	assert.True(t, ok)
	assert.Equal(t, entity.S6, next)

	next, ok = trafficlight.NextPhase(entity.S5, queueOf(t, entity.WestThrough))
	assert.True(t, ok)
	assert.Equal(t, entity.S6, next)

	next, ok = trafficlight.NextPhase(entity.S5, queueOf(t, entity.EastThrough, entity.WestLeft))
	assert.True(t, ok)
	assert.Equal(t, entity.S7, next)
}

func TestNextPhaseNeverLeavesDomain(t *testing.T) {
	full := queueOf(t, entity.EastThrough, entity.NorthLeft, entity.NorthRight, entity.WestThrough, entity.WestLeft)
	for _, q := range []*demand.Queue{demand.New(), full} {
		for p := entity.Phase(0); p < entity.PhaseCount; p++ {
			next, _ := trafficlight.NextPhase(p, q)
			assert.True(t, next.Valid())
		}
	}
}

func TestTryServeGating(t *testing.T) {
	q := queueOf(t, entity.EastThrough, entity.WestThrough)
	_, ok := trafficlight.TryServe(entity.S3, q)
	assert.False(t, ok)
	assert.Equal(t, []entity.Movement{entity.EastThrough, entity.WestThrough}, q.Snapshot())

	q = queueOf(t, entity.WestThrough, entity.EastThrough)
	served, ok := trafficlight.TryServe(entity.S3, q)
	assert.True(t, ok)
	assert.Equal(t, entity.WestThrough, served)
	assert.Equal(t, []entity.Movement{entity.EastThrough}, q.Snapshot())
	assert.Equal(t, 0, q.CountFor(entity.WestThrough))
}

func TestTryServeHeadOnly(t *testing.T) {
	// 队头NL在S0不能通行，即使后面的ES可以通行也不放行
	q := queueOf(t, entity.NorthLeft, entity.EastThrough)
	_, ok := trafficlight.TryServe(entity.S0, q)
	assert.False(t, ok)
	assert.Equal(t, 2, q.Len())

	_, ok = trafficlight.TryServe(entity.S0, demand.New())
	assert.False(t, ok)
}

func TestTryServeOnePerCall(t *testing.T) {
	q := queueOf(t, entity.NorthLeft, entity.NorthRight, entity.NorthLeft)
	served, ok := trafficlight.TryServe(entity.S5, q)
	assert.True(t, ok)
	assert.Equal(t, entity.NorthLeft, served)
	assert.Equal(t, []entity.Movement{entity.NorthRight, entity.NorthLeft}, q.Snapshot())
}

func TestServiceTable(t *testing.T) {
	want := map[entity.Phase][]entity.Movement{
		entity.S0: {entity.EastThrough, entity.WestThrough},
		entity.S2: {entity.NorthLeft, entity.WestLeft, entity.WestThrough},
		entity.S3: {entity.WestThrough},
		entity.S5: {entity.NorthLeft, entity.NorthRight},
	}
	for p := entity.Phase(0); p < entity.PhaseCount; p++ {
		assert.ElementsMatch(t, want[p], trafficlight.ServedMovements(p), p.String())
		for _, m := range entity.Movements {
			q := queueOf(t, m)
			_, ok := trafficlight.TryServe(p, q)
			assert.Equal(t, trafficlight.Serves(p, m), ok)
		}
	}
}

func TestOutputsFor(t *testing.T) {
	assert.Equal(t, "E:G N:R W:G", trafficlight.OutputsFor(entity.S0).String())
	assert.Equal(t, "E:Y N:R W:G", trafficlight.OutputsFor(entity.S1).String())
	assert.Equal(t, "E:R N:R+A W:G+A", trafficlight.OutputsFor(entity.S2).String())
	assert.Equal(t, "E:R N:R W:G", trafficlight.OutputsFor(entity.S3).String())
	assert.Equal(t, "E:Y N:R W:Y", trafficlight.OutputsFor(entity.S4).String())
	assert.Equal(t, "E:R N:G+A W:R", trafficlight.OutputsFor(entity.S5).String())
	assert.Equal(t, "E:R N:Y W:R", trafficlight.OutputsFor(entity.S6).String())
	assert.Equal(t, "E:R N:Y+A W:R", trafficlight.OutputsFor(entity.S7).String())

	// 每个进口同一时刻只亮一盏红黄绿灯
	for p := entity.Phase(0); p < entity.PhaseCount; p++ {
		v := trafficlight.OutputsFor(p)
		for _, group := range [][]bool{{v.ER, v.EY, v.EG}, {v.NR, v.NY, v.NG}, {v.WR, v.WY, v.WG}} {
			lit := 0
			for _, on := range group {
				if on {
					lit++
				}
			}
			assert.Equal(t, 1, lit, p.String())
		}
	}
}

func TestProgram(t *testing.T) {
	tl := trafficlight.Program(7, 1)
	assert.Equal(t, int32(7), tl.JunctionId)
	require.Len(t, tl.Phases, entity.PhaseCount)
	for _, p := range tl.Phases {
		assert.Equal(t, 1.0, p.Duration)
		assert.Len(t, p.States, entity.MovementCount)
	}
	green := mapv2.LightState_LIGHT_STATE_GREEN
	yellow := mapv2.LightState_LIGHT_STATE_YELLOW
	red := mapv2.LightState_LIGHT_STATE_RED
	// 顺序 ES NL NR WS WL
	assert.Equal(t, []mapv2.LightState{green, red, red, green, red}, tl.Phases[entity.S0].States)
	assert.Equal(t, []mapv2.LightState{red, green, red, green, green}, tl.Phases[entity.S2].States)
	assert.Equal(t, []mapv2.LightState{yellow, red, red, yellow, yellow}, tl.Phases[entity.S4].States)
	assert.Equal(t, []mapv2.LightState{red, green, green, red, red}, tl.Phases[entity.S5].States)
	assert.Equal(t, []mapv2.LightState{red, yellow, yellow, red, red}, tl.Phases[entity.S7].States)
}
