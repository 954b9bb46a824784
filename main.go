package main

import (
	_ "echo-server/cmd"
	"echo-server/cmd/root"
	"echo-server/internal/env"
	"echo-server/internal/logger"
	"os"
)

func main() {
	// 检查是否是服务器模式
	env.Daemon = len(os.Args) > 1 && os.Args[1] == "server"

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
