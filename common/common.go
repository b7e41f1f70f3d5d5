package common

import (
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
)

var Version = "[unknown]"

func init() {
	// .env is optional, ignore a missing file
	_ = godotenv.Load()

	InitLog()

	if Version != "[unknown]" {
		return
	}

	git := exec.Command("git", "rev-parse", "--short", "HEAD")
	b, _ := git.Output()
	Version = strings.TrimSpace(string(b))
	if Version == "" {
		Version = "[unknown]"
	}
}
