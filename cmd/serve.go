package cmd

import (
	"github.com/df07/go-stochastic-raytracer/web/server"
	"github.com/urfave/cli"
)

// Serve starts the web interface
func Serve(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	srv := server.NewServer(ctx.Int("port"), ctx.String("static"))
	return srv.Start()
}
