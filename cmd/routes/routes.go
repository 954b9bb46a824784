package routes

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"echo-server/cmd/root"
	"echo-server/internal/config"
	"echo-server/services"

	"github.com/spf13/cobra"
)

var profiles []string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "列出激活的服务及其路由",
	Long:  "按当前激活的标签过滤服务注册表，打印每个服务的端口、路由和静态目录，不会绑定端口",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.AppConfig
		if cmd.Flags().Changed("profile") {
			cfg.Profiles = profiles
		}
		return printRoutes(os.Stdout, cfg)
	},
}

/**
 * Print the route table of every active service
 * @param {io.Writer} out - Destination
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {error} Registry validation errors
 */
func printRoutes(out io.Writer, cfg *config.AppConfig) error {
	registry, err := services.NewRegistry(cfg.Services)
	if err != nil {
		return err
	}
	active := services.ActiveServices(registry, services.ParseProfiles(cfg.Profiles))
	if len(active) == 0 {
		fmt.Fprintln(out, "没有匹配当前标签的服务")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tPORT\tMETHOD\tROUTE\tACTION")
	for _, def := range active {
		for _, ep := range def.Endpoints {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", def.Name, def.Port, ep.Method, def.FullRoute(ep.Route), ep.Action)
		}
		for _, st := range def.Static {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", def.Name, def.Port, "Static", def.FullRoute(st.Route), st.Path)
		}
	}
	return w.Flush()
}

func init() {
	routesCmd.Flags().StringSliceVarP(&profiles, "profile", "p", nil, "激活的标签，覆盖配置文件中的 profiles")
	root.RootCmd.AddCommand(routesCmd)
}
