package config

// ControlStep 指定控制器决策周期的配置项
// 功能：定义决策周期时长、子循环数与运行周期数
type ControlStep struct {
	Interval float64 `yaml:"interval"`          // 每个决策周期的时长（秒）
	SubLoop  int32   `yaml:"subloop,omitempty"` // 每个决策周期内的来车检测子循环数
	Total    int32   `yaml:"total,omitempty"`   // 运行的决策周期数，0表示一直运行
}

// Control 控制器运行配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	Realtime bool        `yaml:"realtime,omitempty"` // 是否按墙钟时间运行，否则尽快运行
}

// 来车输入来源
const (
	ArrivalRandom = "random" // 每个决策周期以指定概率来车
	ArrivalStdin  = "stdin"  // 标准输入每行一次按键
	ArrivalNone   = "none"   // 无来车
)

// Arrival 来车输入配置
// 功能：定义来车检测来源与来车车流的随机选择方式
// 说明：weights为空时在五个车流中均匀选择，否则按ES NL NR WS WL顺序加权
type Arrival struct {
	Source      string    `yaml:"source"`                // 来车来源：random stdin none
	Probability float64   `yaml:"probability,omitempty"` // random模式下每个决策周期来车概率
	Seed        uint64    `yaml:"seed,omitempty"`        // 随机数种子，0表示使用当前时间
	Weights     []float64 `yaml:"weights,omitempty"`     // 车流选择权重
}

// Output 输出配置
type Output struct {
	Trace string `yaml:"trace,omitempty"` // 逐周期CSV轨迹文件路径，为空则不输出
}

// Config YAML配置文件的根结构
// 功能：定义信号控制器的全部配置项
type Config struct {
	JunctionID int32   `yaml:"junction_id"` // 路口ID
	Control    Control `yaml:"control"`     // 运行过程控制
	Arrival    Arrival `yaml:"arrival"`     // 来车输入
	Output     Output  `yaml:"output"`      // 输出
}
