package trafficlight

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
)

// outputTable 相位 -> 灯色
// 每行顺序 { ER,EY,EG,NR,NY,NG,NA,WR,WY,WG,WA }
var outputTable = [entity.PhaseCount]entity.LampVector{
	entity.S0: {false, false, true, true, false, false, false, false, false, true, false}, // E:Green, N:Red, W:Green
	entity.S1: {false, true, false, true, false, false, false, false, false, true, false}, // E:Yellow, N:Red, W:Green
	entity.S2: {true, false, false, true, false, false, true, false, false, true, true},   // E:Red, N:Red+Arrow, W:Green+Arrow
	entity.S3: {true, false, false, true, false, false, false, false, false, true, false}, // E:Red, N:Red, W:Green
	entity.S4: {false, true, false, true, false, false, false, false, true, false, false}, // E:Yellow, N:Red, W:Yellow
	entity.S5: {true, false, false, false, false, true, true, true, false, false, false},  // E:Red, N:Green+Arrow, W:Red
	entity.S6: {true, false, false, false, true, false, false, true, false, false, false}, // E:Red, N:Yellow, W:Red
	entity.S7: {true, false, false, false, true, false, true, true, false, false, false},  // E:Red, N:Yellow+Arrow, W:Red
}

// serviceTable 相位 -> 可以放行的车流
var serviceTable = [entity.PhaseCount][]entity.Movement{
	entity.S0: {entity.EastThrough, entity.WestThrough},
	entity.S2: {entity.NorthLeft, entity.WestLeft, entity.WestThrough},
	entity.S3: {entity.WestThrough},
	entity.S5: {entity.NorthLeft, entity.NorthRight},
}

// OutputsFor 获取相位对应的灯色
// 说明：相位必须是合法枚举值，转移引擎不会产生越界相位
func OutputsFor(phase entity.Phase) entity.LampVector {
	return outputTable[phase]
}

// ServedMovements 获取相位放行的车流列表，未放行任何车流的相位返回nil
func ServedMovements(phase entity.Phase) []entity.Movement {
	return serviceTable[phase]
}

// Serves 判断相位是否放行指定车流
func Serves(phase entity.Phase, movement entity.Movement) bool {
	return lo.Contains(serviceTable[phase], movement)
}

// MovementLight 获取相位下某股车流的信号指示
// 功能：由灯色向量推导单股车流看到的红/黄/绿，用于对外输出信控程序
// 说明：直行看本进口的红黄绿灯；西左转看西箭头（西黄灯时为黄）；
// 北右转看北红黄绿灯；北左转在箭头亮且北黄灯未亮时为绿，北黄灯亮时为黄
func MovementLight(phase entity.Phase, movement entity.Movement) mapv2.LightState {
	v := outputTable[phase]
	light := func(green, yellow bool) mapv2.LightState {
		switch {
		case green:
			return mapv2.LightState_LIGHT_STATE_GREEN
		case yellow:
			return mapv2.LightState_LIGHT_STATE_YELLOW
		default:
			return mapv2.LightState_LIGHT_STATE_RED
		}
	}
	switch movement {
	case entity.EastThrough:
		return light(v.EG, v.EY)
	case entity.WestThrough:
		return light(v.WG, v.WY)
	case entity.WestLeft:
		return light(v.WA, v.WY)
	case entity.NorthRight:
		return light(v.NG, v.NY)
	case entity.NorthLeft:
		return light(v.NA && !v.NY, v.NY)
	default:
		return mapv2.LightState_LIGHT_STATE_UNSPECIFIED
	}
}

// Program 生成信控程序
// 功能：将8个相位转换为protobuf信控程序，每个相位按车流顺序给出信号指示
// 参数：junctionID-路口ID，interval-决策周期时长（秒），作为每个相位的最短持续时间
// 返回：信控程序
func Program(junctionID int32, interval float64) *mapv2.TrafficLight {
	phases := make([]*mapv2.Phase, entity.PhaseCount)
	for p := entity.Phase(0); p < entity.PhaseCount; p++ {
		phases[p] = &mapv2.Phase{
			Duration: interval,
			States: lo.Map(entity.Movements[:], func(m entity.Movement, _ int) mapv2.LightState {
				return MovementLight(p, m)
			}),
		}
	}
	return &mapv2.TrafficLight{
		JunctionId: junctionID,
		Phases:     phases,
	}
}
