package trafficlight

import (
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
)

// TryServe 尝试放行队头车辆
// 功能：只检查等待最久的车辆，若当前相位放行其车流则将其移出队列
// 参数：phase-当前相位，queue-需求队列
// 返回：被放行车辆的车流；ok为false表示队列为空或队头车辆不能通行，队列不变
// 说明：每个决策周期最多放行一辆车，不会越过队头查看后面的车辆
func TryServe(phase entity.Phase, queue entity.IDemandQueue) (entity.Movement, bool) {
	head, ok := queue.PeekHead()
	if !ok || !Serves(phase, head) {
		return 0, false
	}
	v, ok := queue.RemoveHead()
	return v.Movement, ok
}
