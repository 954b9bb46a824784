package services

import (
	"fmt"
	"strings"

	"echo-server/internal/config"
	"echo-server/internal/models"
)

/**
 * Build the immutable service registry from configuration
 * @param {[]config.ServiceConfig} cfgs - Declared services
 * @returns {[]models.ServiceDefinition} Definitions in declaration order
 * @returns {error} config.ErrInvalidService wrapped with the offending entry
 * @description
 * - Methods are upper-cased and must be GET/POST/PUT/DELETE
 * - An empty action means echo
 * - Unnamed services are named after their port
 */
func NewRegistry(cfgs []config.ServiceConfig) ([]models.ServiceDefinition, error) {
	registry := make([]models.ServiceDefinition, 0, len(cfgs))
	for i, cfg := range cfgs {
		def, err := newDefinition(cfg)
		if err != nil {
			return nil, fmt.Errorf("service #%d (%s): %w", i, cfg.Name, err)
		}
		registry = append(registry, def)
	}
	return registry, nil
}

func newDefinition(cfg config.ServiceConfig) (models.ServiceDefinition, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return models.ServiceDefinition{}, fmt.Errorf("%w: port %d out of range", config.ErrInvalidService, cfg.Port)
	}
	def := models.ServiceDefinition{
		Name:     cfg.Name,
		Port:     cfg.Port,
		BasePath: cfg.BasePath,
	}
	if def.Name == "" {
		def.Name = fmt.Sprintf("service-%d", cfg.Port)
	}
	if def.BasePath == "" {
		def.BasePath = "/"
	}
	for _, p := range cfg.Profiles {
		def.Profiles = append(def.Profiles, models.Profile(p))
	}
	for _, ep := range cfg.Endpoints {
		method := strings.ToUpper(ep.Method)
		if !isSupportedMethod(method) {
			return models.ServiceDefinition{}, fmt.Errorf("%w: unsupported method %q", config.ErrInvalidService, ep.Method)
		}
		action, err := parseAction(ep.Action)
		if err != nil {
			return models.ServiceDefinition{}, err
		}
		def.Endpoints = append(def.Endpoints, models.EndpointDefinition{
			Method: method,
			Route:  ep.Route,
			Action: action,
		})
	}
	for _, st := range cfg.Static {
		if st.Path == "" {
			return models.ServiceDefinition{}, fmt.Errorf("%w: static mount %q has no path", config.ErrInvalidService, st.Route)
		}
		def.Static = append(def.Static, models.StaticMount{Route: st.Route, Path: st.Path})
	}
	return def, nil
}

func isSupportedMethod(method string) bool {
	for _, m := range models.SupportedMethods {
		if m == method {
			return true
		}
	}
	return false
}

func parseAction(s string) (models.Action, error) {
	switch models.Action(strings.ToLower(s)) {
	case "", models.ActionEcho:
		return models.ActionEcho, nil
	case models.ActionWrite:
		return models.ActionWrite, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", config.ErrInvalidService, s)
}

// ParseProfiles 将字符串标签转换为 Profile 列表
func ParseProfiles(names []string) []models.Profile {
	profiles := make([]models.Profile, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			profiles = append(profiles, models.Profile(n))
		}
	}
	return profiles
}

/**
 * Filter the registry by active profiles
 * @param {[]models.ServiceDefinition} registry - All declared services
 * @param {[]models.Profile} active - Currently active profiles
 * @returns {[]models.ServiceDefinition} Services whose profiles are all active, in registry order
 * @description
 * - A service without profiles is always activated
 */
func ActiveServices(registry []models.ServiceDefinition, active []models.Profile) []models.ServiceDefinition {
	var result []models.ServiceDefinition
	for _, def := range registry {
		if def.ActivatedBy(active) {
			result = append(result, def)
		}
	}
	return result
}
