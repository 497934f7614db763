package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/log"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

var logger = log.New("web")

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 32

// Size limits accepted from clients
const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 10000
	maxPasses    = 1000
	maxDepth     = 1000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a web server. Static files are served from staticDir when it exists.
func NewServer(port int, staticDir string) *Server {
	return &Server{port: port, staticDir: staticDir}
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
		}
	}
	return mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Noticef("Starting web server on http://localhost%s", srv.Addr)
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("Error encoding response: %v", err)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// SceneConfigResponse describes the defaults a scene renders with
type SceneConfigResponse struct {
	Scene    string           `json:"scene"`
	Sampling SamplingDefaults `json:"defaults"`
	Camera   CameraDefaults   `json:"camera"`
	Limits   map[string][2]int `json:"limits"`
}

// SamplingDefaults mirrors renderer.SamplingConfig for clients
type SamplingDefaults struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
	Jitter          string  `json:"jitter"`
	Gamma           float64 `json:"gamma"`
}

// CameraDefaults mirrors renderer.CameraConfig for clients
type CameraDefaults struct {
	LookFrom    [3]float64 `json:"lookFrom"`
	LookAt      [3]float64 `json:"lookAt"`
	VFov        float64    `json:"vfov"`
	AspectRatio float64    `json:"aspectRatio"`
	LensRadius  float64    `json:"lensRadius"`
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := sceneObj.GetSamplingConfig()
	camera := sceneObj.CameraConfig
	writeJSON(w, http.StatusOK, SceneConfigResponse{
		Scene: sceneName,
		Sampling: SamplingDefaults{
			Width:           sampling.Width,
			Height:          sampling.Height,
			SamplesPerPixel: sampling.SamplesPerPixel,
			MaxDepth:        sampling.MaxDepth,
			Jitter:          sampling.Jitter.String(),
			Gamma:           sampling.Gamma,
		},
		Camera: CameraDefaults{
			LookFrom:    [3]float64{camera.LookFrom.X, camera.LookFrom.Y, camera.LookFrom.Z},
			LookAt:      [3]float64{camera.LookAt.X, camera.LookAt.Y, camera.LookAt.Z},
			VFov:        camera.VFov,
			AspectRatio: camera.AspectRatio,
			LensRadius:  camera.LensRadius,
		},
		Limits: map[string][2]int{
			"width":      {minImageSize, maxImageSize},
			"height":     {minImageSize, maxImageSize},
			"maxSamples": {1, maxSamples},
			"maxPasses":  {1, maxPasses},
			"maxDepth":   {1, maxDepth},
		},
	})
}

// SceneParams are the query parameters shared by render and inspect requests
type SceneParams struct {
	Scene  string
	Width  int
	Height int
}

// parseSceneParams reads the scene name and image size. A zero size means the scene's own.
func parseSceneParams(values url.Values) (SceneParams, error) {
	params := SceneParams{Scene: values.Get("scene")}
	if params.Scene == "" {
		params.Scene = "default"
	}

	var err error
	if params.Width, err = parseIntParam(values, "width", 0, minImageSize, maxImageSize); err != nil {
		return params, err
	}
	if params.Height, err = parseIntParam(values, "height", 0, minImageSize, maxImageSize); err != nil {
		return params, err
	}
	return params, nil
}

// createScene builds a scene by name. Scene file paths are not accepted from clients.
func (s *Server) createScene(name string) (*scene.Scene, error) {
	scenes, err := scene.ListScenes()
	if err != nil {
		return nil, err
	}
	for _, info := range scenes {
		if info.ID == name {
			return scene.Create(name)
		}
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, name)
}

// sizedScene creates the scene and applies the requested image size
func (s *Server) sizedScene(params SceneParams) (*scene.Scene, error) {
	sceneObj, err := s.createScene(params.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.ApplyOverrides(renderer.SamplingConfig{Width: params.Width, Height: params.Height}, renderer.CameraConfig{})
	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
