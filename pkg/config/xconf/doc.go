// Package xconf 基于 koanf 的最小化配置加载器。
//
// 负责 YAML/JSON 文件或字节数据的加载与反序列化，不负责校验和默认值注入：
// 调用方先填好默认值，再用 Unmarshal 覆盖配置文件中出现的字段。
//
//	cfg, err := xconf.New("xlogfilectl.yaml")
//	if err != nil {
//		return err
//	}
//	opts := defaultOptions()
//	if err := cfg.Unmarshal("logfile", &opts); err != nil {
//		return err
//	}
//
// 格式由扩展名决定：.yaml/.yml 为 YAML，.json 为 JSON。
// Reload 并发安全，成功后原子替换内部 koanf 实例；解析失败时保留旧配置。
package xconf
