package entity

import (
	"fmt"
	"strings"
)

// Phase 信号相位
// 功能：固定8相位循环中的一个灯色配置
type Phase int8

const (
	S0 Phase = iota // 东西直行绿灯
	S1              // 东黄灯，西绿灯
	S2              // 北左转箭头 + 西绿灯及左转箭头
	S3              // 西绿灯（S2的清空尾段）
	S4              // 北向相位前的过渡黄灯
	S5              // 北绿灯及左转箭头
	S6              // 北黄灯
	S7              // 北黄灯及左转箭头

	PhaseCount = 8 // 相位总数
)

// Valid 判断相位取值是否在枚举范围内
func (p Phase) Valid() bool {
	return p >= 0 && p < PhaseCount
}

// IsGreen 判断是否为需求驱动的绿灯相位（S0、S5）
// 说明：只有绿灯相位会在有待切换需求时额外保持一个决策周期
func (p Phase) IsGreen() bool {
	return p == S0 || p == S5
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int8(p))
	}
	return fmt.Sprintf("S%d", int8(p))
}

// LampVector 一个相位下11盏灯的亮灭状态
// 顺序：东(红黄绿) 北(红黄绿箭头) 西(红黄绿箭头)
type LampVector struct {
	ER, EY, EG     bool // East
	NR, NY, NG, NA bool // North
	WR, WY, WG, WA bool // West
}

// Bools 按固定顺序 { ER,EY,EG,NR,NY,NG,NA,WR,WY,WG,WA } 展开
func (v LampVector) Bools() [11]bool {
	return [11]bool{v.ER, v.EY, v.EG, v.NR, v.NY, v.NG, v.NA, v.WR, v.WY, v.WG, v.WA}
}

// String 获取灯色的可读表示，如 "E:G N:R+A W:G+A"
func (v LampVector) String() string {
	approach := func(r, y, g, a bool) string {
		var b strings.Builder
		switch {
		case g:
			b.WriteString("G")
		case y:
			b.WriteString("Y")
		case r:
			b.WriteString("R")
		default:
			b.WriteString("-")
		}
		if a {
			b.WriteString("+A")
		}
		return b.String()
	}
	return fmt.Sprintf(
		"E:%s N:%s W:%s",
		approach(v.ER, v.EY, v.EG, false),
		approach(v.NR, v.NY, v.NG, v.NA),
		approach(v.WR, v.WY, v.WG, v.WA),
	)
}
