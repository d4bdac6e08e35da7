package task

import (
	"fmt"
	"io"
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/agentsociety-signal/clock"
	"github.com/tsinghua-fib-lab/agentsociety-signal/device"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction"
	"github.com/tsinghua-fib-lab/agentsociety-signal/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-signal/utils/randengine"
)

const (
	SelfName = "signal" // 本程序在sidecar中注册的名字
)

// Context 控制任务上下文
// 功能：包含一次控制任务的所有组件和状态
// 说明：管理时钟、随机数引擎、来车检测、信号灯输出、信号控制器、统计与轨迹输出
type Context struct {
	// 任务名
	job string
	// 配置
	config config.Config
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 随机数引擎，负责来车车流选择与随机来车
	rand *randengine.Engine

	// 子循环采样的按键输入，非按键模式为nil
	latch *device.EdgeLatch
	// 来车检测
	sensor entity.IArrivalSensor
	// 灯色输出
	lamps device.Fanout
	// 信号控制器
	controller junction.ISignalController

	// 运行统计
	report *Report
	// 逐周期轨迹输出，未配置时为nil
	recorder *TraceRecorder

	// 辅助程序，提供状态查询RPC，为nil时不对外提供服务
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
}

// NewContext 创建新的控制任务上下文
// 功能：根据配置初始化控制器及其全部协作组件
// 参数：
//   - job: 任务名称
//   - c: 已校验的配置
//   - in: 按键模式下的输入流
//   - sidecar: 对外提供RPC的sidecar，nil表示不提供
//   - lamps: 除日志输出外额外的信号灯
//
// 返回：初始化完成的Context实例，错误信息
// 算法说明：
// 1. 创建时钟与随机数引擎
// 2. 按来车来源创建来车检测组件
// 3. 创建信号控制器与统计、轨迹输出
// 4. 注册RPC服务并启动sidecar
func NewContext(
	job string,
	c config.Config,
	in io.Reader,
	sidecar *syncer.Sidecar,
	lamps ...entity.ILampActuator,
) (*Context, error) {
	ctx := &Context{
		job:            job,
		config:         c,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		report:         NewReport(),
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.rand = randengine.New(c.Arrival.Seed).WithWeights(c.Arrival.Weights)

	switch c.Arrival.Source {
	case config.ArrivalRandom:
		ctx.sensor = device.NewRandomArrivals(ctx.rand, c.Arrival.Probability)
	case config.ArrivalStdin:
		if in == nil {
			return nil, fmt.Errorf("arrival source %s needs an input stream", c.Arrival.Source)
		}
		if !c.Control.Realtime {
			log.Warn("stdin arrivals without realtime control: presses land in whichever interval is running")
		}
		ctx.latch = device.NewEdgeLatch(device.NewLineButton(in, int(ctx.clock.SUBLOOP)))
		ctx.sensor = ctx.latch
	case config.ArrivalNone:
		ctx.sensor = device.NoArrivals{}
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrInvalidSource, c.Arrival.Source)
	}

	ctx.lamps = append(device.Fanout{device.NewLogLamps(nil)}, lamps...)
	ctx.controller = junction.NewController(
		c.JunctionID,
		c.Control.Step.Interval,
		ctx.sensor,
		ctx.rand,
		ctx.lamps,
		nil,
	)

	if c.Output.Trace != "" {
		recorder, err := NewTraceRecorder(c.Output.Trace)
		if err != nil {
			return nil, fmt.Errorf("trace file create err: %w", err)
		}
		ctx.recorder = recorder
	}

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		ctx.controller.Register(ctx.sidecar)
		// sidecar协程，用于提供RPC服务
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}

	log.Infof("job %s: junction %d, arrival source %s", job, c.JunctionID, c.Arrival.Source)
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Controller() junction.ISignalController {
	return ctx.controller
}

func (ctx *Context) Report() *Report {
	return ctx.report
}

// Close 关闭轨迹输出与sidecar，可重复调用
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	if ctx.recorder != nil {
		if err := ctx.recorder.Close(); err != nil {
			log.Errorf("trace file close err: %v", err)
		}
	}
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
}
