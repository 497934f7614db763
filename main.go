package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/df07/go-stochastic-raytracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	if err := cmd.LoadEnv(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raytracer"
	app.Usage = "render sphere scenes with progressive path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "RAYTRACER_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:  "env-file",
			Value: cmd.DefaultEnvFile,
			Usage: "file of RAYTRACER_* variables loaded before flags are read",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Render a built-in scene or a JSON scene file progressively. Each pass adds samples
to every pixel until the requested samples per pixel are reached. Flags left unset
keep the scene's own settings.

Interrupting a render stops it after the current pass and saves the last image.`,
			ArgsUsage: "[scene]",
			Action:    cmd.RenderScene,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "scene, s",
					Value:  "default",
					Usage:  "built-in scene name or path to a .json scene file",
					EnvVar: "RAYTRACER_SCENE",
				},
				cli.IntFlag{
					Name:   "width",
					Usage:  "image width (default: scene setting)",
					EnvVar: "RAYTRACER_WIDTH",
				},
				cli.IntFlag{
					Name:   "height",
					Usage:  "image height (default: scene setting)",
					EnvVar: "RAYTRACER_HEIGHT",
				},
				cli.IntFlag{
					Name:   "spp",
					Usage:  "samples per pixel (default: scene setting)",
					EnvVar: "RAYTRACER_SPP",
				},
				cli.IntFlag{
					Name:   "depth",
					Usage:  "maximum bounces per path (default: scene setting)",
					EnvVar: "RAYTRACER_DEPTH",
				},
				cli.IntFlag{
					Name:   "passes",
					Value:  7,
					Usage:  "number of progressive passes",
					EnvVar: "RAYTRACER_PASSES",
				},
				cli.IntFlag{
					Name:   "workers",
					Value:  runtime.NumCPU(),
					Usage:  "number of render workers",
					EnvVar: "RAYTRACER_WORKERS",
				},
				cli.IntFlag{
					Name:   "tile-size",
					Value:  64,
					Usage:  "tile edge in pixels",
					EnvVar: "RAYTRACER_TILE_SIZE",
				},
				cli.StringFlag{
					Name:   "jitter",
					Usage:  "sub-pixel jitter: independent or shared",
					EnvVar: "RAYTRACER_JITTER",
				},
				cli.Float64Flag{
					Name:   "gamma",
					Usage:  "gamma correction exponent, 1 disables (default: scene setting)",
					EnvVar: "RAYTRACER_GAMMA",
				},
				cli.StringFlag{
					Name:   "out, o",
					Usage:  "output image path (default: output/<scene>/render_<timestamp>.<format>)",
					EnvVar: "RAYTRACER_OUT",
				},
				cli.StringFlag{
					Name:   "format, f",
					Usage:  "image format: png or ppm (default: from --out extension)",
					EnvVar: "RAYTRACER_FORMAT",
				},
				cli.IntFlag{
					Name:   "thumbnail",
					Usage:  "also write a thumbnail no larger than this many pixels",
					EnvVar: "RAYTRACER_THUMBNAIL",
				},
				cli.StringFlag{
					Name:   "s3-bucket",
					Usage:  "upload the image to this S3 bucket",
					EnvVar: "RAYTRACER_S3_BUCKET",
				},
				cli.StringFlag{
					Name:   "s3-prefix",
					Usage:  "key prefix for uploaded images",
					EnvVar: "RAYTRACER_S3_PREFIX",
				},
				cli.StringFlag{
					Name:   "s3-region",
					Value:  "us-east-1",
					Usage:  "S3 region",
					EnvVar: "RAYTRACER_S3_REGION",
				},
				cli.StringFlag{
					Name:   "s3-endpoint",
					Usage:  "endpoint of an S3-compatible store",
					EnvVar: "RAYTRACER_S3_ENDPOINT",
				},
				cli.StringFlag{
					Name:   "s3-access-key",
					Usage:  "S3 access key (default: AWS credential chain)",
					EnvVar: "RAYTRACER_S3_ACCESS_KEY",
				},
				cli.StringFlag{
					Name:   "s3-secret-key",
					Usage:  "S3 secret key",
					EnvVar: "RAYTRACER_S3_SECRET_KEY",
				},
			},
		},
		{
			Name:   "scenes",
			Usage:  "list scenes that can be rendered by name",
			Action: cmd.ListScenes,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "dir",
					Usage:  "directory of .json scene files (default: scenes)",
					EnvVar: "RAYTRACER_SCENE_DIR",
				},
			},
		},
		{
			Name:   "serve",
			Usage:  "start the web interface",
			Action: cmd.Serve,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "port, p",
					Value:  8080,
					Usage:  "port to listen on",
					EnvVar: "RAYTRACER_PORT",
				},
				cli.StringFlag{
					Name:   "static",
					Value:  "web/static",
					Usage:  "directory of static web files",
					EnvVar: "RAYTRACER_STATIC_DIR",
				},
			},
		},
	}

	return app
}
