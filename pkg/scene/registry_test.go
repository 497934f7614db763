package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"two-spheres", "Two Spheres"},
		{"glass_shell", "Glass Shell"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	for _, name := range []string{"default", "materials", "random-spheres", "sphere-grid"} {
		s, err := Create(name)
		if err != nil {
			t.Errorf("Create(%q): %v", name, err)
			continue
		}
		if s.Name != name {
			t.Errorf("Create(%q) built scene %q", name, s.Name)
		}
	}

	if _, err := Create("cornell-box"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("unknown builtin error = %v, want ErrUnknownScene", err)
	}
	if _, err := Create("no/such/file.json"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("missing file error = %v, want ErrUnknownScene", err)
	}
}

func TestListScenes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "two-spheres.json"), []byte(validSceneJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken-file.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	saved := SceneDirs
	SceneDirs = []string{filepath.Join(dir, "absent"), dir}
	defer func() { SceneDirs = saved }()

	scenes, err := ListScenes()
	if err != nil {
		t.Fatalf("ListScenes: %v", err)
	}
	if len(scenes) != len(builtins)+2 {
		t.Fatalf("got %d scenes, want %d", len(scenes), len(builtins)+2)
	}

	if scenes[0].ID != "default" || scenes[0].Type != "builtin" || scenes[0].Group != builtinGroup {
		t.Errorf("first scene = %+v, want the default builtin", scenes[0])
	}

	broken := scenes[len(builtins)]
	if broken.DisplayName != "Broken File" || broken.Type != "file" {
		t.Errorf("unparsable file = %+v, want listing under its file name", broken)
	}
	parsed := scenes[len(builtins)+1]
	if parsed.DisplayName != "Two Spheres" || parsed.Description != "the classic pair" {
		t.Errorf("scene file = %+v, want metadata from the file", parsed)
	}

	if _, err := Create(parsed.ID); err != nil {
		t.Errorf("Create(%q): %v", parsed.ID, err)
	}
}
