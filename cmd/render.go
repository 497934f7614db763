package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/imageio"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderScene renders a scene progressively and writes the final image.
// Interrupting the process stops after the current pass and still saves the last image.
func RenderScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sceneName := ctx.String("scene")
	if ctx.NArg() > 0 {
		sceneName = ctx.Args().First()
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		return err
	}

	jitter, err := renderer.ParseJitterMode(ctx.String("jitter"))
	if err != nil {
		return err
	}

	sceneObj.ApplyOverrides(renderer.SamplingConfig{
		Width:           ctx.Int("width"),
		Height:          ctx.Int("height"),
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("depth"),
		Jitter:          jitter,
		Gamma:           ctx.Float64("gamma"),
	}, renderer.CameraConfig{})
	if err := sceneObj.Validate(); err != nil {
		return err
	}
	sampling := sceneObj.GetSamplingConfig()

	config := renderer.DefaultProgressiveConfig()
	config.TileSize = ctx.Int("tile-size")
	config.MaxPasses = min(ctx.Int("passes"), sampling.SamplesPerPixel)
	config.MaxSamplesPerPixel = sampling.SamplesPerPixel
	config.NumWorkers = ctx.Int("workers")

	format, out, err := outputTarget(ctx.String("format"), ctx.String("out"), sceneObj.Name, time.Now())
	if err != nil {
		return err
	}

	pr, err := renderer.NewProgressiveRaytracer(sceneObj, sampling.Width, sampling.Height, config, logger)
	if err != nil {
		return err
	}
	defer pr.Close()

	logger.Noticef("rendering %s at %dx%d with %d samples per pixel in %d passes",
		sceneObj.Name, sampling.Width, sampling.Height, sampling.SamplesPerPixel, config.MaxPasses)

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, passes, renderErr := collectPasses(renderCtx, pr)
	if renderErr != nil && !errors.Is(renderErr, renderer.ErrInterrupted) {
		return renderErr
	}
	if img == nil {
		return renderErr
	}
	displayPassStats(passes)

	if err := imageio.Save(out, img, format); err != nil {
		return err
	}
	logger.Noticef("saved %s", out)

	if size := ctx.Int("thumbnail"); size > 0 {
		thumbPath := thumbnailPath(out)
		if err := imageio.Save(thumbPath, imageio.Thumbnail(img, uint(size)), format); err != nil {
			return err
		}
		logger.Noticef("saved thumbnail %s", thumbPath)
	}

	if bucket := ctx.String("s3-bucket"); bucket != "" {
		uploader, err := imageio.NewS3Uploader(imageio.S3Config{
			Bucket:    bucket,
			Prefix:    ctx.String("s3-prefix"),
			Region:    ctx.String("s3-region"),
			Endpoint:  ctx.String("s3-endpoint"),
			AccessKey: ctx.String("s3-access-key"),
			SecretKey: ctx.String("s3-secret-key"),
		})
		if err != nil {
			return err
		}
		location, err := uploadImage(context.Background(), uploader, filepath.Base(out), img, format)
		if err != nil {
			return err
		}
		logger.Noticef("uploaded %s", location)
	}

	return renderErr
}

// collectPasses drains a progressive render, returning the last image and every pass result
func collectPasses(ctx context.Context, pr *renderer.ProgressiveRaytracer) (*image.RGBA, []renderer.PassResult, error) {
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var (
		last   *image.RGBA
		passes []renderer.PassResult
	)
	for pass := range passChan {
		logger.Infof("pass %d: %.1f samples/pixel in %s", pass.PassNumber, pass.Stats.AverageSamples, pass.Duration)
		last = pass.Image
		passes = append(passes, pass)
	}

	if err := <-errChan; err != nil {
		if errors.Is(err, renderer.ErrInterrupted) && last != nil {
			logger.Warningf("render interrupted, keeping pass %d", passes[len(passes)-1].PassNumber)
		}
		return last, passes, err
	}
	return last, passes, nil
}

type imageUploader interface {
	Upload(ctx context.Context, name string, data []byte, format imageio.Format) (string, error)
}

func uploadImage(ctx context.Context, uploader imageUploader, name string, img image.Image, format imageio.Format) (string, error) {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format); err != nil {
		return "", err
	}
	return uploader.Upload(ctx, name, buf.Bytes(), format)
}

// outputTarget resolves the image format and path. Without --out the image goes to
// output/<scene>/render_<timestamp>.<format>.
func outputTarget(formatName, out, sceneName string, now time.Time) (imageio.Format, string, error) {
	var format imageio.Format
	switch {
	case formatName != "":
		f, err := imageio.ParseFormat(formatName)
		if err != nil {
			return "", "", err
		}
		format = f
	case out != "":
		format = imageio.FormatFromPath(out)
	default:
		format = imageio.FormatPNG
	}

	if out == "" {
		dir := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
		out = filepath.Join("output", dir, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format))
	}
	return format, out, nil
}

func thumbnailPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_thumb" + ext
}

func displayPassStats(passes []renderer.PassResult) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Samples/pixel", "Min", "Max", "Mean variance", "Render time"})

	var total time.Duration
	for _, pass := range passes {
		total += pass.Duration
		table.Append([]string{
			fmt.Sprintf("%d", pass.PassNumber),
			fmt.Sprintf("%.1f", pass.Stats.AverageSamples),
			fmt.Sprintf("%d", pass.Stats.MinSamples),
			fmt.Sprintf("%d", pass.Stats.MaxSamplesUsed),
			fmt.Sprintf("%.3g", pass.Stats.MeanVariance),
			pass.Duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", total.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("pass statistics\n%s", buf.String())
}
