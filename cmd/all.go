package cmd

import (
	_ "echo-server/cmd/client"
	_ "echo-server/cmd/metrics"
	_ "echo-server/cmd/root"
	_ "echo-server/cmd/routes"
	_ "echo-server/cmd/server"
)
