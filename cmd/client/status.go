package client

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"echo-server/cmd/root"
	"echo-server/internal/models"
	"echo-server/internal/rpc"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查询运行中服务的监听状态",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rpc.NewHTTPClient(rpc.DefaultHTTPConfig(root.AppConfig))
		defer client.Close()
		return showStatus(os.Stdout, client)
	},
}

/**
 * Query listener status through the admin API
 * @param {io.Writer} out - Destination
 * @param {rpc.HTTPClient} client - Admin API client
 * @returns {error} Connection or decode errors
 */
func showStatus(out io.Writer, client rpc.HTTPClient) error {
	var health models.HealthResponse
	if err := client.GetJSON("/healthz", &health); err != nil {
		return fmt.Errorf("echo-server is not reachable: %w", err)
	}
	var listeners []models.ListenerDetail
	if err := client.GetJSON("/echo/api/v1/services", &listeners); err != nil {
		return err
	}

	fmt.Fprintf(out, "Status: %s, Version: %s, Uptime: %s, Requests: %d (errors %d)\n\n",
		health.Status, health.Version, health.Uptime, health.Metrics.TotalRequests, health.Metrics.ErrorRequests)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tADDRESS\tSTATUS\tROUTES\tSTATIC\tERROR")
	for _, l := range listeners {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", l.Name, l.Address, l.Status, len(l.Routes), len(l.Static), l.LastError)
	}
	return w.Flush()
}

func init() {
	root.RootCmd.AddCommand(statusCmd)
}
