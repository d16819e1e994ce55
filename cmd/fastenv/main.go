package main

import (
	"github.com/speechlab/fastenv/pkg/cli"
	"github.com/speechlab/fastenv/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
