// Command nglrender renders a built-in scene over one or more time ranges.
//
//	nglrender rtt-quad -s 640x360 -t 0:2:30 -o out.raw
//	nglrender nv12 -t 0:1:60 -o last.png
//
// Without an image extension the output receives the raw RGBA content of
// every frame, bottom row first.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/nodegl"
	_ "github.com/gogpu/nodegl/glcontext/gles"
	_ "github.com/gogpu/nodegl/glcontext/softgl"
)

var (
	outputPath string
	sizeArg    string
	rangeArgs  []string
	backend    string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "nglrender [scene]",
	Short: "Render a nodegl scene offscreen",
	Long:  "Render a built-in nodegl scene over time ranges.\n\nScenes: " + sceneList(),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, height, err := parseSize(sizeArg)
		if err != nil {
			return err
		}
		if len(rangeArgs) == 0 {
			return fmt.Errorf("at least one range needs to be specified")
		}
		if len(rangeArgs) > maxRanges {
			return fmt.Errorf("too many ranges specified (max: %d)", maxRanges)
		}
		ranges := make([]timeRange, 0, len(rangeArgs))
		for _, arg := range rangeArgs {
			r, err := parseRange(arg)
			if err != nil {
				return err
			}
			ranges = append(ranges, r)
		}

		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		nodegl.SetLogger(logger)

		return render(cmd.OutOrStdout(), job{
			scene:   args[0],
			output:  outputPath,
			width:   width,
			height:  height,
			ranges:  ranges,
			backend: backend,
			debug:   debug,
		})
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (.png, .bmp, .tiff or raw RGBA)")
	rootCmd.Flags().StringVarP(&sizeArg, "size", "s", "320x240", "output size WxH")
	rootCmd.Flags().StringArrayVarP(&rangeArgs, "time", "t", nil, "time range start:duration:freq (repeatable)")
	rootCmd.Flags().StringVar(&backend, "backend", "", "GL backend (gles, soft); best available when empty")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "print every draw and debug logs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
