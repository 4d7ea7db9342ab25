package main

import (
	"os"

	"github.com/codeguard-dev/codeguard/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
