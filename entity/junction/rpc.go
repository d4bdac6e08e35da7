package junction

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"git.fiblab.net/sim/syncer/v3"
)

var (
	ErrWrongJunction = errors.New("junction id does not exist")
)

// Register 将信控查询服务注册到sidecar
// 功能：以TrafficLightService对外提供当前信控程序、相位与剩余时间
// 参数：sidecar-同步器侧车实例
// 说明：只实现GetTrafficLight，其余修改类接口保持未实现；读取的是发布出去的快照，无需与控制循环加锁同步
func (c *Controller) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		mapv2connect.TrafficLightServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return mapv2connect.NewTrafficLightServiceHandler(c, opts...)
		},
		syncer.WithNoLock(),
	)
}

// GetTrafficLight RPC接口：获取路口的信号灯状态
// 功能：返回8相位信控程序、当前相位索引和当前相位剩余时间
// 参数：ctx-上下文，in-包含Junction ID的请求
// 返回：信号灯状态响应；Junction ID不匹配时返回InvalidArgument
func (c *Controller) GetTrafficLight(
	ctx context.Context, in *connect.Request[mapv2.GetTrafficLightRequest],
) (*connect.Response[mapv2.GetTrafficLightResponse], error) {
	if in.Msg.JunctionId != c.junctionID {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrWrongJunction)
	}
	s := c.snapshot.Load()
	return connect.NewResponse(&mapv2.GetTrafficLightResponse{
		TrafficLight:  c.program,
		PhaseIndex:    int32(s.phase),
		TimeRemaining: s.remainingT,
	}), nil
}

// Get 获取信控程序
func (c *Controller) Get() *mapv2.TrafficLight {
	return c.program
}

// PhaseIndex 获取已发布的当前相位
func (c *Controller) PhaseIndex() int32 {
	return int32(c.snapshot.Load().phase)
}

// RemainingTime 获取已发布的当前相位剩余时长
func (c *Controller) RemainingTime() float64 {
	return c.snapshot.Load().remainingT
}
