package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/log"
)

// NewDefaultLogger returns the module logger used when none is supplied
func NewDefaultLogger() core.Logger {
	return log.New("renderer")
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each square tile in pixels
	InitialSamples     int // Samples per pixel after the first pass
	MaxSamplesPerPixel int // Samples per pixel after the final pass
	MaxPasses          int // Number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 100,
		MaxPasses:          7,
		NumWorkers:         0,
	}
}

// Validate reports settings that cannot produce an image
func (c ProgressiveConfig) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	case c.MaxPasses <= 0:
		return fmt.Errorf("%w: pass count must be positive, got %d", ErrInvalidConfig, c.MaxPasses)
	case c.MaxSamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.MaxSamplesPerPixel)
	case c.InitialSamples <= 0 || c.InitialSamples > c.MaxSamplesPerPixel:
		return fmt.Errorf("%w: initial samples must be in [1, %d], got %d",
			ErrInvalidConfig, c.MaxSamplesPerPixel, c.InitialSamples)
	}
	return nil
}

// ProgressiveRaytracer renders an image in passes of increasing sample count
type ProgressiveRaytracer struct {
	scene         Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	raytracer     *Raytracer     // Used for color conversion of assembled images
	workerPool    *WorkerPool
	logger        core.Logger

	mu     sync.Mutex
	cancel context.CancelFunc // Stops the RenderProgressive goroutine
	done   chan struct{}      // Closed once that goroutine has stopped the pool
}

// NewProgressiveRaytracer creates a new progressive raytracer. A zero MaxSamplesPerPixel
// takes the scene's SamplesPerPixel and a nil logger uses the renderer module logger.
func NewProgressiveRaytracer(scene Scene, width, height int, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if config.MaxSamplesPerPixel == 0 {
		config.MaxSamplesPerPixel = scene.GetSamplingConfig().SamplesPerPixel
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	tiles := NewTileGrid(width, height, config.TileSize)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: pixelStats,
		raytracer:  NewRaytracer(scene, width, height),
		workerPool: NewWorkerPool(scene, width, height, len(tiles), config.NumWorkers),
		logger:     logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	samplesPerPass := remainingSamples / (pr.config.MaxPasses - 1)

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass across the worker pool
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	return pr.renderPass(context.Background(), passNumber, tileCallback)
}

// renderPass stops submitting tiles once ctx is done. Workers skip queued tiles of a
// cancelled pass, and the pass then fails with ErrInterrupted.
func (pr *ProgressiveRaytracer) renderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Infof("Pass %d: target %d samples per pixel (using %d workers)",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	submitted := 0
	for taskID, tile := range pr.tiles {
		if ctx.Err() != nil {
			break
		}
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
			Done:          ctx.Done(),
		})
		submitted++
	}

	// Drain every result before returning so no worker still writes to pixelStats
	var passStats RenderStats
	passStats.MinSamples = targetSamples
	passStats.MaxSamples = targetSamples
	var firstErr error
	for i := 0; i < submitted; i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, errors.New("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		passStats.combine(result.Stats)

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("%w during pass %d: %w", ErrInterrupted, passNumber, err)
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}
	passStats.finalizeCombined()

	img, stats := pr.assembleCurrentImage(targetSamples)
	stats.MeanVariance = passStats.MeanVariance
	pr.logger.Debugf("Pass %d took %d new samples", passNumber, passStats.TotalSamples)

	return img, stats, nil
}

// Close stops the worker pool. A running RenderProgressive is cancelled first and Close
// waits for it to finish, so the pool is never stopped under a pass in progress.
func (pr *ProgressiveRaytracer) Close() {
	pr.mu.Lock()
	cancel, done := pr.cancel, pr.done
	pr.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	pr.workerPool.Stop()
}

// extractTileImage converts one tile of the shared pixel stats to an image
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, pr.raytracer.vec3ToColor(stats.GetColor()))
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Duration   time.Duration
	IsLast     bool
}

// TileCompletionResult describes a tile finished during a pass
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int

	TileNumber  int // Completion order within the pass (1-based)
	TotalTiles  int
	TotalPasses int
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass on a background goroutine and streams the results.
// Cancelling ctx, or calling Close, abandons the running pass and reports an error wrapping
// ErrInterrupted. All three channels are closed when rendering ends.
// If options.TileUpdates is false the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	pr.mu.Lock()
	pr.cancel, pr.done = cancel, done
	pr.mu.Unlock()

	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(done)
		defer cancel()
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Infof("Starting progressive rendering with %d passes", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Noticef("Rendering cancelled before pass %d", pass)
				errChan <- fmt.Errorf("%w before pass %d: %w", ErrInterrupted, pass, ctx.Err())
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumers miss tile previews; the pass image still carries them
					}
				}
			}

			img, stats, err := pr.renderPass(ctx, pass, tileCallback)
			if err != nil {
				if errors.Is(err, ErrInterrupted) {
					pr.logger.Noticef("Rendering cancelled during pass %d", pass)
				}
				errChan <- err
				return
			}

			passTime := time.Since(startTime)
			pr.logger.Infof("Pass %d completed in %v (%.1f samples/pixel)", pass, passTime, stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses
			select {
			case passChan <- PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				Duration:   passTime,
				IsLast:     isLast,
			}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage builds the image and sample statistics from the shared pixel stats
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := newRenderStats(pr.width*pr.height, targetSamples)
	stats.MinSamples = pr.config.MaxSamplesPerPixel

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, pr.raytracer.vec3ToColor(pixel.GetColor()))
			stats.update(pixel.SampleCount, nil)
		}
	}

	stats.finalize()
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int
	Random          *rand.Rand // Tile-owned stream, so results do not depend on scheduling
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(int64(id + 42))), // +42 to avoid seed 0
	}
}

// NewTileGrid creates a grid of tiles covering the entire image in row-major order
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(len(tiles), image.Rect(x0, y0, x1, y1)))
		}
	}

	return tiles
}
