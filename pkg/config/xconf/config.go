package xconf

import "github.com/knadh/koanf/v2"

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 定义配置接口。
// 基础操作请直接使用 Client() 返回的 koanf 实例。
type Config interface {
	// Client 返回底层的 koanf 实例（快照，Reload 后指向旧配置）。
	Client() *koanf.Koanf

	// Unmarshal 将 path 下的配置解码到 target，path 为空时解码整个配置。
	// 字段实现 encoding.TextUnmarshaler 时使用它解码（如 xlog.Level）。
	Unmarshal(path string, target any) error

	// Reload 重新读取配置文件，仅对 New 创建的 Config 有效。
	Reload() error

	// Path 返回配置文件路径，NewFromBytes 创建的 Config 返回空字符串。
	Path() string

	Format() Format
}
