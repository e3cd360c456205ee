package main

import (
	"context"
	"os"

	"laborpay/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		(&cli.OutputFormatter{Format: "text", Writer: os.Stderr}).Error(err)
		os.Exit(cli.GetExitCode(err))
	}
}
