package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"f1score/pkg/server"
)

const serverPortDefault = 8080

var (
	portFlag = &cli.IntFlag{
		Name:     "port",
		Usage:    "Port on which the server will listen",
		Value:    serverPortDefault,
		Required: false,
	}

	serverCmd = &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start the scoring HTTP server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	cfg := getConfig(c)

	if c.IsSet(portFlag.Name) {
		cfg.Config.Addr = fmt.Sprintf(":%d", c.Int(portFlag.Name))
	}

	s := server.New(cfg.Config, cfg.Store, version)
	return s.Start()
}
