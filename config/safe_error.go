package config

// SafeErrorMessage 根据运行模式决定是否向客户端暴露错误详情
// release 模式只返回兜底文案；debug 模式（或配置未加载时，视为开发环境）返回 err.Error()
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
