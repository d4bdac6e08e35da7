package device

import (
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
)

// LogLamps 以日志形式输出的信号灯
// 功能：灯组状态变化时输出一条日志
type LogLamps struct {
	log     *logrus.Entry
	last    entity.LampVector
	applied bool
}

// NewLogLamps 创建日志信号灯，logger为nil时使用包日志
func NewLogLamps(logger *logrus.Entry) *LogLamps {
	if logger == nil {
		logger = log
	}
	return &LogLamps{log: logger}
}

func (l *LogLamps) ApplyLampVector(v entity.LampVector) {
	if l.applied && v == l.last {
		return
	}
	l.log.Infof("Lamps: %v", v)
	l.last = v
	l.applied = true
}

// Last 最近一次输出的灯组状态
func (l *LogLamps) Last() (entity.LampVector, bool) {
	return l.last, l.applied
}

// Fanout 将同一灯组状态输出到多个信号灯
type Fanout []entity.ILampActuator

func (f Fanout) ApplyLampVector(v entity.LampVector) {
	for _, a := range f {
		a.ApplyLampVector(v)
	}
}

var (
	_ entity.ILampActuator = (*LogLamps)(nil)
	_ entity.ILampActuator = Fanout(nil)
)
