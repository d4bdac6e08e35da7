package entity

import "fmt"

// Movement 路口车流（行驶方向）
// 功能：标识五股可以独立获得通行权的车流
// 说明：固定集合，运行时不会新增
type Movement int8

const (
	EastThrough Movement = iota // 东进口直行
	NorthLeft                   // 北进口左转
	NorthRight                  // 北进口右转
	WestThrough                 // 西进口直行
	WestLeft                    // 西进口左转

	MovementCount = 5 // 车流总数
)

var movementNames = [MovementCount]string{"ES", "NL", "NR", "WS", "WL"}

// Movements 全部车流，按枚举顺序
var Movements = [MovementCount]Movement{EastThrough, NorthLeft, NorthRight, WestThrough, WestLeft}

// Valid 判断车流取值是否在枚举范围内
func (m Movement) Valid() bool {
	return m >= 0 && m < MovementCount
}

func (m Movement) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Movement(%d)", int8(m))
	}
	return movementNames[m]
}

// ParseMovement 将简写（ES/NL/NR/WS/WL）解析为车流
func ParseMovement(s string) (Movement, error) {
	for i, name := range movementNames {
		if name == s {
			return Movement(i), nil
		}
	}
	return 0, fmt.Errorf("unknown movement %q", s)
}

// Vehicle 一辆等待中的车辆
// 说明：除车流与队列位置外没有其他身份信息，入队时创建，放行时销毁
type Vehicle struct {
	Movement Movement
}
