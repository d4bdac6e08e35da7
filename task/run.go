package task

import (
	"context"
	"flag"
	"time"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔决策周期数")
)

// prepare 子循环准备阶段，每个子循环执行一次
// 功能：推进时钟并采样按键输入
func (ctx *Context) prepare() {
	ctx.clock.Advance()
	if ctx.latch != nil {
		ctx.latch.Sample()
	}
}

// update 决策阶段，每个决策周期执行一次
// 功能：执行一次控制器决策并记录统计与轨迹
func (ctx *Context) update() {
	r := ctx.controller.Tick()
	ctx.report.Add(r)
	if ctx.recorder != nil {
		if err := ctx.recorder.Record(r); err != nil {
			log.Errorf("trace record err: %v", err)
		}
	}
	if *heartBeatInterval > 0 && r.Step%int32(*heartBeatInterval) == 0 {
		log.Infof(
			"STEP: %d(%v) phase %v queue %d",
			r.Step, ctx.clock, r.Next, len(r.Queue),
		)
	}
}

// Run 运行
// 功能：按子循环推进时钟，在决策周期边界执行控制器决策，直到运行结束或上下文取消
// 参数：c-用于取消运行的上下文
// 返回：运行统计汇总
// 算法说明：
// 1. 实时模式按子循环时长等待，否则尽快运行
// 2. 每个子循环采样输入；决策周期边界执行决策
// 3. 达到配置的决策周期数、上下文取消或sidecar要求关闭时结束
func (ctx *Context) Run(c context.Context) Summary {
	ctx.clock.Init()
	if ctx.sidecar != nil {
		ctx.sidecar.Step(false)
	}
	var tick <-chan time.Time
	if ctx.config.Control.Realtime {
		ticker := time.NewTicker(time.Duration(ctx.clock.DT * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}
loop:
	for {
		if tick != nil {
			select {
			case <-c.Done():
				break loop
			case <-tick:
			}
		} else if c.Err() != nil {
			break
		}
		ctx.prepare()
		if !ctx.clock.NoInSubloop() {
			continue
		}
		if ctx.sidecar != nil {
			ctx.sidecar.NotifyStepReady()
		}
		ctx.update()
		finished := ctx.clock.Finished()
		if ctx.sidecar != nil && ctx.sidecar.Step(finished) {
			break
		}
		if finished || ctx.closed.Load() {
			break
		}
	}
	log.Infof("controller stopped at %v", ctx.clock)
	ctx.Close()
	summary := ctx.report.Summary()
	log.Infof("summary: %v", summary)
	return summary
}
