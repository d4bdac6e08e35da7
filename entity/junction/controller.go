package junction

import (
	"errors"
	"sync/atomic"

	"git.fiblab.net/general/common/v2/mathutil"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/demand"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction/trafficlight"
)

// 绿灯相位在切换条件满足后需要连续满足的决策周期数
const greenWaitTicks = 2

// TickReport 单个决策周期的执行结果
type TickReport struct {
	Step  int32        // 决策周期序号（从1开始）
	Phase entity.Phase // 本周期生效的相位
	Next  entity.Phase // 本周期结束后的相位

	Arrived  bool            // 是否检测到来车
	Arrival  entity.Movement // 来车车流
	AdmitErr error           // 来车被拒绝的原因，nil表示已入队

	Served         bool            // 是否放行了车辆
	ServedMovement entity.Movement // 被放行车辆的车流

	HasCandidate bool         // 本周期是否有待切换的相位
	Candidate    entity.Phase // 待切换的相位
	Dwell        int          // 周期结束时的绿灯等待计数

	Queue []entity.Movement // 周期结束时的队列快照
}

// Admitted 来车是否成功入队
func (r TickReport) Admitted() bool {
	return r.Arrived && r.AdmitErr == nil
}

// 对外读取的状态快照
type controllerSnapshot struct {
	phase      entity.Phase
	remainingT float64
}

// Controller 单路口信号控制器
// 功能：独占需求队列与相位状态，每个决策周期依次完成来车入队、灯色输出、队头放行与相位切换
// 说明：Tick只能由一个控制协程顺序调用；RPC只读取发布出去的快照
type Controller struct {
	mapv2connect.UnimplementedTrafficLightServiceHandler

	junctionID int32
	interval   float64 // 决策周期时长（秒）
	program    *mapv2.TrafficLight

	queue   *demand.Queue
	sensor  entity.IArrivalSensor
	chooser entity.IMovementChooser
	lamps   entity.ILampActuator
	log     *logrus.Entry

	phase entity.Phase // 当前相位
	dwell int          // 绿灯等待计数
	step  int32        // 已执行的决策周期数

	snapshot atomic.Pointer[controllerSnapshot]
}

// NewController 创建信号控制器
// 参数：junctionID-路口ID，interval-决策周期时长（秒），sensor-来车检测，
// chooser-来车车流选择，lamps-灯色输出，logger-诊断日志（nil时使用模块日志）
// 返回：初始相位为S0、队列为空的控制器
func NewController(
	junctionID int32,
	interval float64,
	sensor entity.IArrivalSensor,
	chooser entity.IMovementChooser,
	lamps entity.ILampActuator,
	logger *logrus.Entry,
) *Controller {
	if logger == nil {
		logger = log
	}
	c := &Controller{
		junctionID: junctionID,
		interval:   interval,
		program:    trafficlight.Program(junctionID, interval),
		queue:      demand.New(),
		sensor:     sensor,
		chooser:    chooser,
		lamps:      lamps,
		log:        logger.WithField("junction", junctionID),
		phase:      entity.S0,
	}
	c.publish()
	return c
}

// Tick 执行一个决策周期
// 功能：完成一个决策周期的全部控制逻辑
// 返回：本周期的执行结果
// 算法说明：
// 1. 查询来车检测，有来车时随机选择车流并尝试入队，拒绝只记录日志
// 2. 输出当前相位的灯色，记录相位与队列
// 3. 尝试放行队头车辆（最多一辆）
// 4. 计算候选相位
// 5. 绿灯相位有候选相位时累加等待计数，达到2才切换；其他情况清零等待计数并立即切换
func (c *Controller) Tick() TickReport {
	c.step++
	r := TickReport{Step: c.step, Phase: c.phase}

	if c.sensor.PollArrivalEdge() {
		m := c.chooser.ChooseMovement()
		r.Arrived = true
		r.Arrival = m
		r.AdmitErr = c.admit(m)
	}

	c.lamps.ApplyLampVector(trafficlight.OutputsFor(c.phase))
	c.log.Infof("State: %v, %v", c.phase, c.queue)

	if m, ok := trafficlight.TryServe(c.phase, c.queue); ok {
		r.Served = true
		r.ServedMovement = m
		c.log.Infof("Car passed: %v", m)
	}

	next, ok := trafficlight.NextPhase(c.phase, c.queue)
	r.HasCandidate = ok
	r.Candidate = next
	c.advance(next, ok)

	r.Next = c.phase
	r.Dwell = c.dwell
	r.Queue = c.queue.Snapshot()
	c.publish()
	return r
}

// admit 来车入队并记录诊断信息
func (c *Controller) admit(m entity.Movement) error {
	err := c.queue.TryAdmit(m)
	switch {
	case err == nil:
		c.log.Infof("New car added: %v (Total: %d cars)", m, c.queue.Len())
	case errors.Is(err, demand.ErrMovementFull):
		c.log.Warnf("Cannot add car: Direction %v is full (max %d cars)", m, demand.PerMovementCap)
	case errors.Is(err, demand.ErrQueueFull):
		c.log.Warn("Cannot add car: Queue is full")
	default:
		c.log.Warnf("Cannot add car: %v", err)
	}
	return err
}

// advance 应用绿灯等待规则并切换相位
func (c *Controller) advance(next entity.Phase, ok bool) {
	if c.phase.IsGreen() && ok {
		c.dwell++
		if c.dwell < greenWaitTicks {
			c.log.Infof("Green wait: %d/%d", c.dwell, greenWaitTicks)
			return
		}
	}
	c.dwell = 0
	if ok {
		c.log.Debugf("phase %v -> %v", c.phase, next)
		c.phase = next
	}
}

// publish 发布状态快照
// 说明：绿灯相位没有待切换需求时保持时间不确定，剩余时间记为INF
func (c *Controller) publish() {
	remainingT := c.interval
	if c.phase.IsGreen() && c.dwell == 0 {
		remainingT = mathutil.INF
	}
	c.snapshot.Store(&controllerSnapshot{phase: c.phase, remainingT: remainingT})
}

// ID 获取路口ID
func (c *Controller) ID() int32 {
	return c.junctionID
}

// Phase 获取当前相位
func (c *Controller) Phase() entity.Phase {
	return c.phase
}

// Dwell 获取绿灯等待计数
func (c *Controller) Dwell() int {
	return c.dwell
}

// Queue 获取需求队列
func (c *Controller) Queue() entity.IDemandQueue {
	return c.queue
}
