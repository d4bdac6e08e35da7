package task

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction"
	"gonum.org/v1/gonum/stat"
)

// Report 运行统计
// 功能：按决策周期累计来车、入队、拒绝、放行与相位占用情况
type Report struct {
	queueLen  []float64                 // 每个周期结束时的队列长度
	arrivals  [entity.MovementCount]int // 来车数
	admitted  [entity.MovementCount]int // 入队数
	refused   [entity.MovementCount]int // 拒绝数
	served    [entity.MovementCount]int // 放行数
	occupancy [entity.PhaseCount]int    // 各相位生效的周期数
}

// Summary 运行统计汇总
type Summary struct {
	Intervals int
	Arrivals  int
	Admitted  int
	Refused   int
	Served    int

	ServedBy   [entity.MovementCount]int
	RefusedBy  [entity.MovementCount]int
	PhaseShare [entity.PhaseCount]float64 // 各相位生效周期占比

	QueueMean float64
	QueueStd  float64
	QueueMax  int
}

func NewReport() *Report {
	return &Report{queueLen: make([]float64, 0)}
}

// Add 记录一个决策周期
func (r *Report) Add(t junction.TickReport) {
	r.queueLen = append(r.queueLen, float64(len(t.Queue)))
	if t.Phase.Valid() {
		r.occupancy[t.Phase]++
	}
	if t.Arrived && t.Arrival.Valid() {
		r.arrivals[t.Arrival]++
		if t.Admitted() {
			r.admitted[t.Arrival]++
		} else {
			r.refused[t.Arrival]++
		}
	}
	if t.Served && t.ServedMovement.Valid() {
		r.served[t.ServedMovement]++
	}
}

// Summary 汇总统计
// 算法说明：
// 1. 各计数按车流求和
// 2. 队列长度序列用gonum计算均值与样本标准差，少于两个样本时标准差为0
// 3. 相位占比为相位生效周期数除以总周期数
func (r *Report) Summary() Summary {
	s := Summary{
		Intervals: len(r.queueLen),
		Arrivals:  lo.Sum(r.arrivals[:]),
		Admitted:  lo.Sum(r.admitted[:]),
		Refused:   lo.Sum(r.refused[:]),
		Served:    lo.Sum(r.served[:]),
		ServedBy:  r.served,
		RefusedBy: r.refused,
	}
	if s.Intervals == 0 {
		return s
	}
	if s.Intervals == 1 {
		s.QueueMean = r.queueLen[0]
	} else {
		s.QueueMean, s.QueueStd = stat.MeanStdDev(r.queueLen, nil)
	}
	s.QueueMax = int(lo.Max(r.queueLen))
	for i, n := range r.occupancy {
		s.PhaseShare[i] = float64(n) / float64(s.Intervals)
	}
	return s
}

func (s Summary) String() string {
	served := lo.Map(entity.Movements[:], func(m entity.Movement, _ int) string {
		return fmt.Sprintf("%v=%d", m, s.ServedBy[m])
	})
	return fmt.Sprintf(
		"intervals=%d arrivals=%d admitted=%d refused=%d served=%d (%s) queue mean=%.2f std=%.2f max=%d",
		s.Intervals, s.Arrivals, s.Admitted, s.Refused, s.Served,
		strings.Join(served, " "),
		s.QueueMean, s.QueueStd, s.QueueMax,
	)
}
