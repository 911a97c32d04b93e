package main

import (
	"github.com/larsks/joyled/internal/cli"
	"github.com/larsks/joyled/internal/joyled"
	_ "github.com/larsks/joyled/internal/logsetup"
)

func main() {
	cli.StandardMain(
		func() cli.Configurable { return joyled.NewConfig() },
		joyled.NewHandler(),
	)
}
