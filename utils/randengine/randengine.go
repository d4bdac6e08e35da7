// 随机数引擎，包装了golang.org/x/exp/rand，提供来车车流选择与来车概率等随机数生成方法
package randengine

import (
	"flag"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成

	log = logrus.WithField("module", "randengine")
)

// Engine 随机数引擎
// 功能：提供来车车流选择与伯努利事件等随机数生成，支持线程安全操作
// 说明：基于golang.org/x/exp/rand库
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作

	weights []float64 // 车流选择权重，为空表示均匀选择
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子，0表示使用当前时间
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		log.Debugf("seed derived from time: %d", seed)
	}
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// WithWeights 设置车流选择权重
// 参数：weights-按ES NL NR WS WL顺序的权重，长度不为entity.MovementCount或总和不为正时退化为均匀选择
func (e *Engine) WithWeights(weights []float64) *Engine {
	if len(weights) != entity.MovementCount {
		e.weights = nil
		return e
	}
	sum := 0.
	for _, w := range weights {
		if w < 0 {
			e.weights = nil
			return e
		}
		sum += w
	}
	if sum <= 0 {
		e.weights = nil
		return e
	}
	e.weights = append([]float64(nil), weights...)
	return e
}

// ChooseMovement 为新来车选择车流（线程安全）
// 功能：实现来车车流选择，供信号控制器在检测到来车时调用
// 返回：五个车流之一
// 算法说明：
// 1. 未配置权重时在五个车流中均匀选择
// 2. 配置权重时按DiscreteDistribution选择
func (e *Engine) ChooseMovement() entity.Movement {
	if e.weights == nil {
		return entity.Movements[e.IntnSafe(entity.MovementCount)]
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return entity.Movements[e.DiscreteDistribution(e.weights)]
}

// DiscreteDistribution 按给定概率分布生成随机数（非线程安全）
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：
// 1. 计算总权重：遍历权重数组计算总和
// 2. 生成随机数：在[0, 总权重)范围内生成随机数
// 3. 累积概率：遍历权重数组，累积概率直到超过随机数
// 4. 返回索引：返回第一个累积概率超过随机数的索引
// 5. 错误处理：如果算法异常则panic
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// PTrueSafe 以指定概率返回true（线程安全）
func (e *Engine) PTrueSafe(p float64) bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64() < p
}

// IntnSafe 随机生成[0, n)范围内的整数（线程安全）
func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}
