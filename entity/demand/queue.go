// 需求队列：记录尚未放行的来车，每股车流最多排队两辆
package demand

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/utils/container"
)

const (
	Capacity       = 10 // 队列总容量
	PerMovementCap = 2  // 每股车流的排队上限
)

var (
	ErrQueueFull       = errors.New("demand: queue is full")
	ErrMovementFull    = fmt.Errorf("demand: movement already has %d cars queued", PerMovementCap)
	ErrInvalidMovement = errors.New("demand: invalid movement")
)

// Queue 有界FIFO需求队列
// 功能：按到达顺序记录等待车辆，同时维护每股车流的排队计数
// 说明：size与各车流计数只在Admit/RemoveHead内同步修改，二者之和始终一致；
// 队列由控制器独占，不做并发保护
type Queue struct {
	cars  *container.Ring[entity.Vehicle]
	count [entity.MovementCount]int
}

// New 创建空的需求队列
func New() *Queue {
	return &Queue{cars: container.NewRing[entity.Vehicle](Capacity)}
}

// TryAdmit 车辆入队
// 功能：检查准入条件，通过后将车辆追加到队尾
// 参数：movement-来车车流
// 返回：nil表示入队成功；否则返回拒绝原因，队列不做任何修改
// 说明：先检查车流上限，再检查总容量
func (q *Queue) TryAdmit(movement entity.Movement) error {
	if !movement.Valid() {
		return ErrInvalidMovement
	}
	if q.count[movement] >= PerMovementCap {
		return ErrMovementFull
	}
	if q.cars.Full() {
		return ErrQueueFull
	}
	q.cars.PushBack(entity.Vehicle{Movement: movement})
	q.count[movement]++
	return nil
}

// Admit 车辆入队，失败时返回false
func (q *Queue) Admit(movement entity.Movement) bool {
	return q.TryAdmit(movement) == nil
}

// PeekHead 查看等待最久车辆的车流
func (q *Queue) PeekHead() (entity.Movement, bool) {
	v, ok := q.cars.Front()
	return v.Movement, ok
}

// RemoveHead 移除等待最久的车辆
// 返回：被移除的车辆，队列为空时ok为false
func (q *Queue) RemoveHead() (entity.Vehicle, bool) {
	v, ok := q.cars.PopFront()
	if !ok {
		return v, false
	}
	q.count[v.Movement]--
	return v, true
}

func (q *Queue) IsEmpty() bool {
	return q.cars.Len() == 0
}

func (q *Queue) IsFull() bool {
	return q.cars.Full()
}

func (q *Queue) Len() int {
	return q.cars.Len()
}

// CountFor 指定车流当前排队数量（0..2），非法车流返回0
func (q *Queue) CountFor(movement entity.Movement) int {
	if !movement.Valid() {
		return 0
	}
	return q.count[movement]
}

// Snapshot 从队头到队尾的车流列表
func (q *Queue) Snapshot() []entity.Movement {
	return lo.Map(q.cars.Values(), func(v entity.Vehicle, _ int) entity.Movement {
		return v.Movement
	})
}

// String 获取队列的可读表示，如 "Queue: ES WL NL"，空队列为 "Queue: 0"
func (q *Queue) String() string {
	if q.IsEmpty() {
		return "Queue: 0"
	}
	names := lo.Map(q.Snapshot(), func(m entity.Movement, _ int) string {
		return m.String()
	})
	return "Queue: " + strings.Join(names, " ")
}
