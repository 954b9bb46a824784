package root

import (
	"echo-server/internal/config"
	"echo-server/internal/env"
	"echo-server/internal/logger"

	"github.com/spf13/cobra"
)

var configFile string

// AppConfig 在命令执行前加载
var AppConfig *config.AppConfig

var RootCmd = &cobra.Command{
	Use:   "echo-server",
	Short: "多服务HTTP回显/模拟服务器",
	Long:  `echo-server按配置启动多个独立的HTTP监听，记录或落盘收到的请求，并可提供静态文件`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		AppConfig = cfg
		logger.InitLogger(cfg.Log.Path, cfg.Log.Level, env.Daemon)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (默认 ./config.yaml)")
}
