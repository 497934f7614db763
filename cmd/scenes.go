package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes and the scene files that can be rendered by name.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if dir := ctx.String("dir"); dir != "" {
		scene.SceneDirs = []string{dir}
	}

	scenes, err := scene.ListScenes()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Title", "Group", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, info.DisplayName, info.Group, info.Description})
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", len(scenes))})
	table.Render()

	_, err = fmt.Fprint(ctx.App.Writer, buf.String())
	return err
}
