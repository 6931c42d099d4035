package main

import (
	"os"

	"work_hours_logger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
