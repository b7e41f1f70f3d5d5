package migrate

import (
	"os"

	"github.com/starshine-sys/gatekeeper/common"
	"github.com/starshine-sys/gatekeeper/db"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "migrate",
	Usage:  "Run migrations manually",
	Action: run,
}

func run(*cli.Context) error {
	if os.Getenv("DATABASE_URL") == "" {
		return cli.Exit("$DATABASE_URL is empty.", 1)
	}

	err := db.RunMigrations(os.Getenv("DATABASE_URL"))
	if err != nil {
		common.Log.Fatalf("Running migrations: %v", err)
	}

	common.Log.Info("Successfully ran migrations!")
	return nil
}
