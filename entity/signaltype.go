package entity

// 依赖倒置，表达信号控制核心对需求队列与外部设备的接口需求

// 需求队列的只读视图，供相位转移判断使用
type IDemandView interface {
	IsEmpty() bool                  // 队列是否为空
	CountFor(movement Movement) int // 指定车流当前排队数量
}

// 需求队列
type IDemandQueue interface {
	IDemandView
	IsFull() bool                     // 队列是否已满
	Len() int                         // 当前排队车辆总数
	Admit(movement Movement) bool     // 车辆入队，失败时不修改队列
	TryAdmit(movement Movement) error // 车辆入队，失败时返回原因
	PeekHead() (Movement, bool)       // 查看等待最久车辆的车流
	RemoveHead() (Vehicle, bool)      // 移除等待最久的车辆
	Snapshot() []Movement             // 从队头到队尾的车流列表
}

// 来车检测（已去抖动，每次物理下降沿最多产生一次true）
type IArrivalSensor interface {
	PollArrivalEdge() bool
}

// 来车车流的随机选择
type IMovementChooser interface {
	ChooseMovement() Movement
}

// 灯色输出，每个决策周期调用一次，无需应答
type ILampActuator interface {
	ApplyLampVector(v LampVector)
}
