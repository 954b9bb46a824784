package server

import (
	"net"
	"os"
	"path/filepath"

	"echo-server/internal/config"
	"echo-server/internal/logger"
)

type ListenAddr struct {
	Network string
	Address string
}

/**
 * Collect admin API listen addresses from configuration
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {[]ListenAddr} TCP address and/or unix socket, empty when admin API is disabled
 */
func AdminAddrs(cfg *config.AppConfig) []ListenAddr {
	var addrs []ListenAddr
	if cfg.Server.Address != "" {
		addrs = append(addrs, ListenAddr{Network: "tcp", Address: cfg.Server.Address})
	}
	if cfg.Server.Socket != "" {
		addrs = append(addrs, ListenAddr{Network: "unix", Address: cfg.Server.Socket})
	}
	return addrs
}

/**
 * Create TCP and Unix socket listeners
 * @param {[]ListenAddr} addrs - Listener Address
 * @returns {[]net.Listener} Array of created listeners
 * @returns {error} Last error met, listeners that succeeded are still returned
 * @description
 * - Removes a stale socket file before binding a unix address
 * - Creates the socket directory when missing
 */
func CreateListeners(addrs []ListenAddr) ([]net.Listener, error) {
	var listeners []net.Listener

	var lastErr error
	for _, addr := range addrs {
		if addr.Network == "unix" {
			if err := os.MkdirAll(filepath.Dir(addr.Address), 0755); err != nil {
				logger.Errorf("Failed to create socket directory: %v", err)
				lastErr = err
				continue
			}
			if err := os.Remove(addr.Address); err != nil && !os.IsNotExist(err) {
				logger.Errorf("Failed to remove existing socket file: %v", err)
				lastErr = err
				continue
			}
		}
		ln, err := net.Listen(addr.Network, addr.Address)
		if err != nil {
			logger.Errorf("Failed to create listener on %s://%s: %v", addr.Network, addr.Address, err)
			lastErr = err
			continue
		}
		listeners = append(listeners, ln)
	}
	return listeners, lastErr
}
