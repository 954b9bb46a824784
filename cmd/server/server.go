package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echo-server/cmd/root"
	"echo-server/controllers"
	"echo-server/internal/config"
	"echo-server/internal/logger"
	"echo-server/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	profiles  []string
	host      string
	adminAddr string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动所有激活的回显服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.AppConfig
		if cmd.Flags().Changed("profile") {
			cfg.Profiles = profiles
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = host
		}
		if cmd.Flags().Changed("admin") {
			cfg.Server.Address = adminAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return startServer(ctx, cfg)
	},
}

/**
 * Run the activation step and block until ctx is done
 * @param {context.Context} ctx - Cancelled on SIGINT/SIGTERM
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {error} Invalid registry, or no echo service could start
 * @description
 * - Starts every service whose profiles are active
 * - A service failing to bind is logged, the others keep running
 * - Starts the admin API when an address or socket is configured
 * - Shuts listeners down gracefully on exit
 */
func startServer(ctx context.Context, cfg *config.AppConfig) error {
	mode := cfg.Server.Mode
	if mode != gin.DebugMode && mode != gin.TestMode {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	registry, err := services.NewRegistry(cfg.Services)
	if err != nil {
		return err
	}
	active := services.ParseProfiles(cfg.Profiles)
	logger.Infof("Active profiles: %v", active)

	svcManager := services.NewServiceManager(cfg)
	if err := svcManager.StartAll(ctx, registry, active); err != nil {
		if svcManager.RunningCount() == 0 {
			return fmt.Errorf("no echo service started: %w", err)
		}
		logger.Errorf("Some echo services failed to start: %v", err)
	}
	if len(svcManager.GetInstances()) == 0 {
		logger.Warn("No service matches the active profiles")
	}

	admin := startAdmin(cfg, svcManager)

	<-ctx.Done()
	logger.Info("Shutting down echo services")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if admin != nil {
		if err := admin.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Stop admin API failed: %v", err)
		}
	}
	return svcManager.StopAll(shutdownCtx)
}

func startAdmin(cfg *config.AppConfig, sm *services.ServiceManager) *http.Server {
	addrs := AdminAddrs(cfg)
	if len(addrs) == 0 {
		return nil
	}
	listeners, err := CreateListeners(addrs)
	if len(listeners) == 0 {
		logger.Errorf("Admin API unavailable: %v", err)
		return nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	controllers.NewAPIController(services.NewServer(cfg, sm)).RegisterRoutes(router)
	controllers.NewServiceController(sm).RegisterRoutes(router)

	srv := &http.Server{Handler: router}
	for _, ln := range listeners {
		logger.Infof("Admin API listening on %s://%s", ln.Addr().Network(), ln.Addr().String())
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Admin API stopped: %v", err)
			}
		}()
	}
	return srv
}

func init() {
	serverCmd.Flags().StringSliceVarP(&profiles, "profile", "p", nil, "激活的标签，覆盖配置文件中的 profiles")
	serverCmd.Flags().StringVar(&host, "host", config.DefaultHost, "回显服务绑定的地址")
	serverCmd.Flags().StringVar(&adminAddr, "admin", config.DefaultAdminAddress, "管理接口地址，为空时关闭")
	root.RootCmd.AddCommand(serverCmd)
}
