// 外部设备：来车检测输入与信号灯输出的实现
package device

import (
	"bufio"
	"io"

	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/utils/randengine"
)

// ILevelSource 原始电平输入
// 说明：上拉输入，true表示按键松开，false表示按下
type ILevelSource interface {
	Level() bool
}

// EdgeLatch 下降沿锁存器
// 功能：在每个子循环采样原始电平，锁存下降沿，供控制器每个决策周期读取一次
// 说明：一个决策周期内的多次按下只产生一次来车
type EdgeLatch struct {
	src     ILevelSource
	prev    bool // 上一次采样的电平
	latched bool // 自上次读取以来是否出现下降沿
}

func NewEdgeLatch(src ILevelSource) *EdgeLatch {
	return &EdgeLatch{src: src, prev: true}
}

// Sample 采样一次电平
// 功能：检测由松开到按下的跳变并锁存
func (l *EdgeLatch) Sample() {
	cur := l.src.Level()
	if l.prev && !cur {
		l.latched = true
	}
	l.prev = cur
}

// PollArrivalEdge 读取并清除锁存的下降沿
func (l *EdgeLatch) PollArrivalEdge() bool {
	edge := l.latched
	l.latched = false
	return edge
}

// LineButton 以文本行模拟的按键
// 功能：从io.Reader按行读取，每一行表示一次按下
// 说明：读取在独立协程中进行，每次按下在随后一次Level采样中表现为低电平，且两次按下之间至少有一次松开
type LineButton struct {
	presses chan struct{}
	done    chan struct{}
	held    bool // 上一次采样为按下
}

// NewLineButton 创建按键并启动读取协程
// 参数：r-输入流（通常为标准输入），buffer-尚未被采样的按下次数上限，超出的按下被丢弃
func NewLineButton(r io.Reader, buffer int) *LineButton {
	if buffer < 1 {
		buffer = 1
	}
	b := &LineButton{
		presses: make(chan struct{}, buffer),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case b.presses <- struct{}{}:
			default:
				log.Warn("button press dropped")
			}
		}
		if err := scanner.Err(); err != nil {
			log.Errorf("button input err: %v", err)
		}
	}()
	return b
}

// Level 采样按键电平
func (b *LineButton) Level() bool {
	if b.held {
		b.held = false
		return true
	}
	select {
	case <-b.presses:
		b.held = true
		return false
	default:
		return true
	}
}

// Done 输入流结束后关闭
func (b *LineButton) Done() <-chan struct{} {
	return b.done
}

// RandomArrivals 随机来车
// 功能：每个决策周期以给定概率产生一次来车
type RandomArrivals struct {
	engine *randengine.Engine
	p      float64
}

func NewRandomArrivals(engine *randengine.Engine, p float64) *RandomArrivals {
	return &RandomArrivals{engine: engine, p: p}
}

func (r *RandomArrivals) PollArrivalEdge() bool {
	return r.engine.PTrueSafe(r.p)
}

// NoArrivals 无来车输入
type NoArrivals struct{}

func (NoArrivals) PollArrivalEdge() bool {
	return false
}

var (
	_ entity.IArrivalSensor = (*EdgeLatch)(nil)
	_ entity.IArrivalSensor = (*RandomArrivals)(nil)
	_ entity.IArrivalSensor = NoArrivals{}
)
