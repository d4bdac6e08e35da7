package junction

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
)

// 依赖倒置，表达外部对信号控制器的接口需求

// 给外部查询提供的信控读取接口（可并发调用）
type ITrafficLightGetter interface {
	Get() *mapv2.TrafficLight // 信控程序
	PhaseIndex() int32        // 当前相位
	RemainingTime() float64   // 当前相位剩余时长
}

// 信号控制器接口
type ISignalController interface {
	ITrafficLightGetter
	Tick() TickReport // 执行一个决策周期，只能由控制协程调用

	Phase() entity.Phase              // 当前相位
	Queue() entity.IDemandQueue       // 需求队列
	Register(sidecar *syncer.Sidecar) // 注册到Sidecar
}

var _ ISignalController = (*Controller)(nil)
