// Command habits is the local habit-tracker CLI.
package main

import (
	"os"

	"github.com/mmynk/habitkit/internal/cli"
	"github.com/mmynk/habitkit/pkg/logging"
)

func main() {
	logging.Setup()
	os.Exit(cli.Execute())
}
