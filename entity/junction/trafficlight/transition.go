// 提供固定相位序列的需求驱动信号控制
// 绿灯相位（S0、S5）只有在下一段有排队需求时才切换，其余相位为必经的清空相位，无条件推进
package trafficlight

import (
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
)

// NextPhase 计算下一相位
// 功能：根据当前相位与排队需求给出候选相位
// 参数：current-当前相位，queue-需求队列只读视图
// 返回：候选相位；ok为false表示本周期不切换，保持当前相位
// 算法说明：
// 1. S0：北左转有需求 -> S4；否则北右转或西左转有需求 -> S1；否则保持
// 2. S5：西左转有需求 -> S7；否则西直行或东直行有需求 -> S6；否则保持
// 3. 其余相位按 S1->S2->S3->S0、S4->S5、S6->S0、S7->S2 无条件推进
// 说明：左转需求固定优先于直行/右转，不按到达先后
func NextPhase(current entity.Phase, queue entity.IDemandView) (next entity.Phase, ok bool) {
	switch current {
	case entity.S0:
		if queue.IsEmpty() {
			return current, false
		}
		if queue.CountFor(entity.NorthLeft) > 0 {
			return entity.S4, true
		}
		if queue.CountFor(entity.NorthRight) > 0 || queue.CountFor(entity.WestLeft) > 0 {
			return entity.S1, true
		}
		return current, false
	case entity.S1:
		return entity.S2, true
	case entity.S2:
		return entity.S3, true
	case entity.S3:
		return entity.S0, true
	case entity.S4:
		return entity.S5, true
	case entity.S5:
		if queue.IsEmpty() {
			return current, false
		}
		if queue.CountFor(entity.WestLeft) > 0 {
			return entity.S7, true
		}
		if queue.CountFor(entity.WestThrough) > 0 || queue.CountFor(entity.EastThrough) > 0 {
			return entity.S6, true
		}
		return current, false
	case entity.S6:
		return entity.S0, true
	case entity.S7:
		return entity.S2, true
	default:
		return current, false
	}
}
