package main

import (
	"github.com/larsks/joyled/internal/cli"
	"github.com/larsks/joyled/internal/hostmon"
	_ "github.com/larsks/joyled/internal/logsetup"
)

func main() {
	cli.StandardMain(
		func() cli.Configurable { return hostmon.NewConfig() },
		hostmon.NewHandler(),
	)
}
