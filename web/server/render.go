package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/imageio"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

var renderCounter atomic.Int64

// RenderRequest holds the parameters of a streamed render
type RenderRequest struct {
	SceneParams
	MaxSamples  int
	MaxPasses   int
	MaxDepth    int
	Jitter      renderer.JitterMode
	Gamma       float64
	TileUpdates bool
	PreviewSize int // Longest edge of pass images sent to the client, 0 = full size
}

// TileUpdate represents a tile completion event
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // base64 encoded PNG
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
}

// PassUpdate represents a pass completion event
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ImageData      string  `json:"imageData"` // base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MeanVariance   float64 `json:"meanVariance"`
	ElapsedMs      int64   `json:"elapsedMs"`
	IsLast         bool    `json:"isLast"`
}

// SSEEvent is one server-sent event
type SSEEvent struct {
	Type string
	Data interface{}
}

// sseWriter writes events to a streaming response. It is used from the handler goroutine only.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (sw *sseWriter) send(event SSEEvent) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// handleRender streams a progressive render as server-sent events.
// Events: console, tile, passComplete, error and complete.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	sse := &sseWriter{w: w, flusher: flusher}

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, 100)
	webLogger := NewWebLogger(renderID, consoleChan)

	if err := s.streamRender(r.Context(), sse, req, webLogger, consoleChan); err != nil {
		logger.Warningf("[%s] %v", renderID, err)
		_ = sse.send(SSEEvent{Type: "error", Data: map[string]string{"error": err.Error()}})
	}
}

// streamRender runs the render and forwards its output until it finishes or ctx ends
func (s *Server) streamRender(ctx context.Context, sse *sseWriter, req RenderRequest, webLogger *WebLogger, consoleChan <-chan ConsoleMessage) error {
	sceneObj, err := s.sizedScene(req.SceneParams)
	if err != nil {
		return err
	}
	sceneObj.ApplyOverrides(renderer.SamplingConfig{
		MaxDepth: req.MaxDepth,
		Jitter:   req.Jitter,
		Gamma:    req.Gamma,
	}, renderer.CameraConfig{})
	sampling := sceneObj.GetSamplingConfig()

	config := renderer.DefaultProgressiveConfig()
	config.TileSize = DefaultTileSize
	config.MaxPasses = req.MaxPasses
	config.MaxSamplesPerPixel = req.MaxSamples
	if config.MaxSamplesPerPixel == 0 {
		config.MaxSamplesPerPixel = sampling.SamplesPerPixel
	}
	if config.MaxPasses > config.MaxSamplesPerPixel {
		config.MaxPasses = config.MaxSamplesPerPixel
	}

	pr, err := renderer.NewProgressiveRaytracer(sceneObj, sampling.Width, sampling.Height, config, webLogger)
	if err != nil {
		return err
	}
	defer pr.Close()

	webLogger.Noticef("Rendering %s at %dx%d, %d samples in %d passes",
		sceneObj.Name, sampling.Width, sampling.Height, config.MaxSamplesPerPixel, config.MaxPasses)

	start := time.Now()
	passChan, tileChan, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: req.TileUpdates})

	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case <-ctx.Done():
			return nil // client went away

		case msg := <-consoleChan:
			if err := sse.send(SSEEvent{Type: "console", Data: msg}); err != nil {
				return err
			}

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			if err := s.handleTileUpdate(sse, tile); err != nil {
				return err
			}

		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := s.handlePassComplete(sse, pass, config.MaxPasses, req.PreviewSize, start); err != nil {
				return err
			}

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			return err
		}
	}

	s.drainConsole(sse, consoleChan)
	return sse.send(SSEEvent{Type: "complete", Data: map[string]interface{}{
		"elapsedMs": time.Since(start).Milliseconds(),
	}})
}

// drainConsole forwards console messages logged after the last pass
func (s *Server) drainConsole(sse *sseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if err := sse.send(SSEEvent{Type: "console", Data: msg}); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Server) handlePassComplete(sse *sseWriter, pass renderer.PassResult, totalPasses, previewSize int, start time.Time) error {
	var img image.Image = pass.Image
	if previewSize > 0 {
		img = imageio.Thumbnail(img, uint(previewSize))
	}

	data, err := imageToBase64PNG(img)
	if err != nil {
		return fmt.Errorf("encoding pass %d: %w", pass.PassNumber, err)
	}

	bounds := img.Bounds()
	return sse.send(SSEEvent{Type: "passComplete", Data: PassUpdate{
		PassNumber:     pass.PassNumber,
		TotalPasses:    totalPasses,
		ImageData:      data,
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		AverageSamples: pass.Stats.AverageSamples,
		MinSamples:     pass.Stats.MinSamples,
		MaxSamples:     pass.Stats.MaxSamplesUsed,
		MeanVariance:   pass.Stats.MeanVariance,
		ElapsedMs:      time.Since(start).Milliseconds(),
		IsLast:         pass.IsLast,
	}})
}

func (s *Server) handleTileUpdate(sse *sseWriter, tile renderer.TileCompletionResult) error {
	data, err := imageToBase64PNG(tile.TileImage)
	if err != nil {
		return fmt.Errorf("encoding tile (%d,%d): %w", tile.TileX, tile.TileY, err)
	}
	return sse.send(SSEEvent{Type: "tile", Data: TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		ImageData:   data,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
	}})
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	data, err := imageio.PNGBytes(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// parseRenderRequest parses and validates the render query parameters
func parseRenderRequest(values url.Values) (RenderRequest, error) {
	params, err := parseSceneParams(values)
	if err != nil {
		return RenderRequest{}, err
	}
	req := RenderRequest{SceneParams: params}

	if req.MaxSamples, err = parseIntParam(values, "maxSamples", 0, 1, maxSamples); err != nil {
		return req, err
	}
	if req.MaxPasses, err = parseIntParam(values, "maxPasses", 7, 1, maxPasses); err != nil {
		return req, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 0, 1, maxDepth); err != nil {
		return req, err
	}
	if req.PreviewSize, err = parseIntParam(values, "previewSize", 0, minImageSize, maxImageSize); err != nil {
		return req, err
	}
	if req.Gamma, err = parseFloatParam(values, "gamma", 0, 0.1, 10); err != nil {
		return req, err
	}

	if req.Jitter, err = renderer.ParseJitterMode(values.Get("jitter")); err != nil {
		return req, err
	}

	req.TileUpdates = values.Get("tileUpdates") == "true"
	return req, nil
}
