package config

/**
 * Service configuration
 * @property {string} name - Service name
 * @property {[]string} profiles - Profiles that must all be active for the service to start
 * @property {int} port - Listening port
 * @property {string} base_path - Prefix prepended to every route
 * @property {[]EndpointConfig} endpoints - Routes in declaration order
 * @property {[]StaticConfig} static - Static directory mounts
 */
type ServiceConfig struct {
	Name      string           `mapstructure:"name" json:"name"`
	Profiles  []string         `mapstructure:"profiles" json:"profiles"`
	Port      int              `mapstructure:"port" json:"port"`
	BasePath  string           `mapstructure:"base_path" json:"base_path"`
	Endpoints []EndpointConfig `mapstructure:"endpoints" json:"endpoints"`
	Static    []StaticConfig   `mapstructure:"static" json:"static"`
}

type EndpointConfig struct {
	Method string `mapstructure:"method" json:"method"`
	Route  string `mapstructure:"route" json:"route"`
	Action string `mapstructure:"action" json:"action,omitempty"`
}

type StaticConfig struct {
	Route string `mapstructure:"route" json:"route"`
	Path  string `mapstructure:"path" json:"path"`
}

// DefaultServices 内置的服务注册表
func DefaultServices() []ServiceConfig {
	return []ServiceConfig{
		{
			Name:     "a-echo",
			Profiles: []string{"a"},
			Port:     8100,
			BasePath: "/api/v1/",
			Endpoints: []EndpointConfig{
				{Method: "POST", Route: "do/something", Action: "echo"},
			},
		},
		{
			Name:     "b-echo",
			Profiles: []string{"b"},
			Port:     8101,
			BasePath: "/api/v1/",
			Endpoints: []EndpointConfig{
				// Inference progress
				{Method: "POST", Route: "do/something", Action: "echo"},
				{Method: "POST", Route: "do/something/:iid", Action: "echo"},
				{Method: "PUT", Route: "update/something", Action: "echo"},
				{Method: "PUT", Route: "update/something/:iid", Action: "echo"},
				{Method: "POST", Route: "write/something", Action: "write"},
			},
		},
		{
			Name:     "b-static",
			Profiles: []string{"b"},
			Port:     8102,
			BasePath: "/api/v1/",
			Static: []StaticConfig{
				{Route: "files", Path: "static/files"},
				{Route: "images", Path: "static/images"},
			},
		},
		{
			Name:     "catch-all",
			Profiles: []string{},
			Port:     3000,
			BasePath: "/",
			Endpoints: []EndpointConfig{
				{Method: "POST", Route: "", Action: "echo"},
			},
		},
	}
}
