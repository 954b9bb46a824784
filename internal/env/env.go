package env

// 版本信息，编译时通过 -ldflags 注入
var Version string = "dev"

// 当前进程是否以 server 模式运行
var Daemon bool = false
