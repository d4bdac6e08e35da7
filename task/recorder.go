package task

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity/junction"
)

var traceHeader = []string{"step", "phase", "next", "arrival", "admit", "served", "dwell", "queue"}

// TraceRecorder 逐决策周期的CSV轨迹输出
type TraceRecorder struct {
	w      *csv.Writer
	closer io.Closer
}

// NewTraceRecorder 创建轨迹文件并写入表头
// 参数：filename-输出文件路径，所在目录不存在时自动创建
func NewTraceRecorder(filename string) (*TraceRecorder, error) {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	r, err := NewTraceWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file
	return r, nil
}

// NewTraceWriter 在任意输出流上创建轨迹输出并写入表头
func NewTraceWriter(w io.Writer) (*TraceRecorder, error) {
	r := &TraceRecorder{w: csv.NewWriter(w)}
	if err := r.w.Write(traceHeader); err != nil {
		return nil, err
	}
	return r, nil
}

// Record 写入一个决策周期
// 说明：arrival为空表示未来车；admit为ok或拒绝原因；served为空表示未放行
func (r *TraceRecorder) Record(t junction.TickReport) error {
	arrival, admit := "", ""
	if t.Arrived {
		arrival = t.Arrival.String()
		admit = "ok"
		if t.AdmitErr != nil {
			admit = t.AdmitErr.Error()
		}
	}
	served := ""
	if t.Served {
		served = t.ServedMovement.String()
	}
	queue := strings.Join(lo.Map(t.Queue, func(m entity.Movement, _ int) string {
		return m.String()
	}), " ")
	return r.w.Write([]string{
		strconv.Itoa(int(t.Step)),
		t.Phase.String(),
		t.Next.String(),
		arrival,
		admit,
		served,
		strconv.Itoa(t.Dwell),
		queue,
	})
}

// Close 刷新缓冲并关闭文件
func (r *TraceRecorder) Close() error {
	r.w.Flush()
	err := r.w.Error()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
