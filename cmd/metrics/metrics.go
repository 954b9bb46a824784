package metrics

import (
	"fmt"

	"echo-server/cmd/root"
	"echo-server/internal/rpc"

	"github.com/spf13/cobra"
)

func init() {
	root.RootCmd.AddCommand(Cmd)
}

var Cmd = &cobra.Command{
	Use:   "metrics",
	Short: "打印运行中服务的Prometheus指标",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rpc.NewHTTPClient(rpc.DefaultHTTPConfig(root.AppConfig))
		defer client.Close()

		resp, err := client.Get("/metrics", nil)
		if err != nil {
			return fmt.Errorf("获取指标失败: %w", err)
		}
		if resp.Error != "" {
			return fmt.Errorf("获取指标失败: %s", resp.Error)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(resp.Body))
		return nil
	},
}
