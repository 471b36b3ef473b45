// Command shadec is the shade HLSL front-end CLI.
//
// Usage:
//
//	shadec check shader.hlsl            # parse and report syntax errors
//	shadec check -manifest shaders.yaml # parse every shader in a manifest
//	shadec dump shader.hlsl             # print the AST
//	shadec dump -raw shader.hlsl        # print the AST as a Go value
//	shadec watch shader.hlsl            # re-check on every write
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/gogpu/shade"
)

// shaderManifest lists shader files to check as a batch.
type shaderManifest struct {
	Shaders []string `yaml:"shaders"`
}

func main() {
	app := &cli.App{
		Name:  "shadec",
		Usage: "HLSL shader front-end",
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "parse shaders and report the first syntax error of each",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "YAML manifest listing shader files",
					},
				},
				Action: checkAction,
			},
			{
				Name:      "dump",
				Usage:     "parse a shader and print its AST",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "print the tree as a Go value instead of the node listing",
					},
				},
				Action: dumpAction,
			},
			{
				Name:      "watch",
				Usage:     "watch shader files and re-check them on every write",
				ArgsUsage: "[files...]",
				Action:    watchAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		tracerr.PrintSourceColor(err)
		os.Exit(1)
	}
}

func checkAction(c *cli.Context) error {
	files := c.Args().Slice()

	if manifestPath := c.String("manifest"); manifestPath != "" {
		manifestFiles, err := loadManifest(manifestPath)
		if err != nil {
			return err
		}
		files = append(files, manifestFiles...)
	}

	if len(files) == 0 {
		return cli.Exit("no input files", 1)
	}

	failed := 0
	for _, file := range files {
		if err := checkFile(file); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed++
		} else {
			fmt.Printf("ok %s\n", file)
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d shaders failed", failed, len(files)), 1)
	}
	return nil
}

func dumpAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one input file", 1)
	}

	program, err := shade.ParseFile(c.Args().First())
	if err != nil {
		return err
	}

	if c.Bool("raw") {
		repr.Println(program)
		return nil
	}

	shade.Dump(program, os.Stdout)
	return nil
}

func watchAction(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("no input files", 1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer watcher.Close()

	for _, file := range files {
		if err := checkFile(file); err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Printf("ok %s\n", file)
		}
		if err := watcher.Add(file); err != nil {
			return tracerr.Wrap(err)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := checkFile(event.Name); err != nil {
				fmt.Fprintln(os.Stderr, err)
			} else {
				fmt.Printf("ok %s\n", event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func checkFile(path string) error {
	_, err := shade.ParseFile(path)
	return err
}

func loadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var manifest shaderManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, tracerr.Wrap(err)
	}
	return manifest.Shaders, nil
}
