package clock

import (
	"fmt"

	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"github.com/tsinghua-fib-lab/agentsociety-signal/utils/config"
)

// Clock 控制器时钟
// 功能：管理决策周期与子循环的时间推进
// 说明：每个决策周期被拆分为SUBLOOP个子循环，子循环只用于来车检测采样，决策只在周期边界进行
type Clock struct {
	clockv1connect.UnimplementedClockServiceHandler

	DT       float64 // 每个子循环的时间间隔（秒）
	SUBLOOP  int32   // 每个决策周期内部子循环次数
	END_STEP int32   // 结束决策周期数，0表示不结束

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前子循环步数
}

// New 根据配置创建新的时钟实例
// 功能：根据决策周期时长与子循环数初始化时钟
// 参数：stepConfig-控制步配置
// 返回：初始化完成的时钟实例
// 说明：子循环数小于1时按1处理
func New(stepConfig config.ControlStep) *Clock {
	subloop := stepConfig.SubLoop
	if subloop < 1 {
		subloop = 1
	}
	c := &Clock{
		DT:       stepConfig.Interval / float64(subloop),
		SUBLOOP:  subloop,
		END_STEP: stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.InternalStep = 0
	c.T = 0
}

// Advance 推进一个子循环
func (c *Clock) Advance() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// ExternalStep 获取已完成的决策周期数
func (c *Clock) ExternalStep() int32 {
	return c.InternalStep / c.SUBLOOP
}

// NoInSubloop 检查是否不在子循环内
// 功能：判断当前是否为决策周期边界
// 返回：true表示一个完整决策周期内的所有子循环都已完成
func (c *Clock) NoInSubloop() bool {
	return c.InternalStep%c.SUBLOOP == 0
}

// Finished 是否已到达结束决策周期
func (c *Clock) Finished() bool {
	return c.END_STEP > 0 && c.ExternalStep() >= c.END_STEP
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
