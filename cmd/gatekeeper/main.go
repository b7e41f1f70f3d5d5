package main

import (
	"os"

	"github.com/starshine-sys/gatekeeper/cmd/gatekeeper/bot"
	"github.com/starshine-sys/gatekeeper/cmd/gatekeeper/migrate"
	"github.com/starshine-sys/gatekeeper/common"
	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:    "Gatekeeper",
	Usage:   "Verification bot for Discord",
	Version: common.Version,

	Commands: []*cli.Command{
		bot.Command,
		migrate.Command,
	},
}

func main() {
	err := app.Run(os.Args)
	if err != nil {
		common.Log.Fatal(err)
	}
}
