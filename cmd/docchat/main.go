package main

import (
	"os"

	"github.com/olivestory-corp/docchat/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
