package config

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal/entity"
	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidInterval    = errors.New("control.step.interval must be positive")
	ErrInvalidSubLoop     = errors.New("control.step.subloop must not be negative")
	ErrInvalidTotal       = errors.New("control.step.total must not be negative")
	ErrInvalidSource      = errors.New("arrival.source must be one of random stdin none")
	ErrInvalidProbability = errors.New("arrival.probability must be in [0, 1]")
	ErrInvalidWeights     = errors.New("arrival.weights must hold one non-negative weight per movement")
)

// Default 默认配置
// 功能：未指定配置文件时使用的配置
// 返回：1秒决策周期、每周期10次来车检测、一直运行、每周期30%概率随机来车
func Default() Config {
	return Config{
		JunctionID: 0,
		Control: Control{
			Step: ControlStep{
				Interval: 1,
				SubLoop:  10,
			},
			Realtime: true,
		},
		Arrival: Arrival{
			Source:      ArrivalRandom,
			Probability: 0.3,
		},
	}
}

// Parse 解析YAML配置
// 功能：在默认配置的基础上严格解析YAML数据并校验
// 参数：data-YAML数据
// 返回：配置对象，错误信息
// 说明：YAML中出现未定义字段时返回错误
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config unmarshal err: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 检查配置项取值范围
func (c Config) Validate() error {
	if c.Control.Step.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.Control.Step.SubLoop < 0 {
		return ErrInvalidSubLoop
	}
	if c.Control.Step.Total < 0 {
		return ErrInvalidTotal
	}
	if !lo.Contains([]string{ArrivalRandom, ArrivalStdin, ArrivalNone}, c.Arrival.Source) {
		return fmt.Errorf("%w: got %q", ErrInvalidSource, c.Arrival.Source)
	}
	if c.Arrival.Probability < 0 || c.Arrival.Probability > 1 {
		return ErrInvalidProbability
	}
	if len(c.Arrival.Weights) != 0 {
		if len(c.Arrival.Weights) != entity.MovementCount ||
			lo.SomeBy(c.Arrival.Weights, func(w float64) bool { return w < 0 }) ||
			lo.Sum(c.Arrival.Weights) <= 0 {
			return ErrInvalidWeights
		}
	}
	return nil
}
