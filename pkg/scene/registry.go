package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RandomSpheresSeed fixes the layout of the random-spheres scene
const RandomSpheresSeed = 42

// SceneInfo describes a scene that can be rendered by name
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Scene file path (file type only)
}

const builtinGroup = "Built-in Scenes"

type builtin struct {
	info   SceneInfo
	create func() *Scene
}

var builtins = []builtin{
	{
		info: SceneInfo{ID: "default", DisplayName: "Default Scene",
			Description: "Diffuse sphere resting on a giant ground sphere"},
		create: func() *Scene { return NewDefaultScene() },
	},
	{
		info: SceneInfo{ID: "materials", DisplayName: "Materials",
			Description: "Hollow glass, diffuse and brushed metal spheres with depth of field"},
		create: func() *Scene { return NewMaterialsScene() },
	},
	{
		info: SceneInfo{ID: "random-spheres", DisplayName: "Random Spheres",
			Description: "Field of small random spheres around three large ones"},
		create: func() *Scene { return NewRandomSpheresScene(RandomSpheresSeed) },
	},
	{
		info: SceneInfo{ID: "sphere-grid", DisplayName: "Sphere Grid",
			Description: "10x10 grid of rainbow-colored metallic spheres"},
		create: func() *Scene { return NewSphereGridScene() },
	},
}

// SceneDirs are searched, in order, for JSON scene files
var SceneDirs = []string{"scenes", "../scenes"}

// ListScenes returns the built-in scenes followed by the scene files found in the first
// existing directory of SceneDirs
func ListScenes() ([]SceneInfo, error) {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.Group = builtinGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}

	for _, dir := range SceneDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		files, err := ListSceneFiles(dir)
		if err != nil {
			return nil, err
		}
		return append(scenes, files...), nil
	}
	return scenes, nil
}

// ListSceneFiles describes every *.json scene in dir, sorted by file name. Files that
// cannot be parsed are still listed under their file name.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}
	sort.Strings(files)

	scenes := make([]SceneInfo, 0, len(files))
	for _, path := range files {
		scenes = append(scenes, describeFile(path))
	}
	return scenes, nil
}

func describeFile(path string) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := SceneInfo{
		ID:          path,
		DisplayName: titleCase(base),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return info
	}
	cfg, err := Parse(data)
	if err != nil {
		return info
	}
	if cfg.Name != "" {
		info.DisplayName = cfg.Name
	}
	if cfg.Group != "" {
		info.Group = cfg.Group
	}
	info.Description = cfg.Description
	return info
}

// Create builds a scene by built-in name or from a path to a JSON scene file
func Create(name string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == name {
			return b.create(), nil
		}
	}
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadFile(name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// titleCase converts a file-style name to title case, e.g. "two-spheres" to "Two Spheres"
func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
