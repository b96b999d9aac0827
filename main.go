package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"indexedpng/config"
	"indexedpng/logging"
	"indexedpng/oops"
	"indexedpng/pngDecoder"
	"indexedpng/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
)

var rootCmd = &cobra.Command{
	Use:           "indexedpng",
	Short:         "Decode indexed, grayscale and RGB PNG files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := zerolog.ParseLevel(levelName)
		if err != nil {
			return oops.New(err, "bad --log-level")
		}
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		maxInflate, _ := cmd.Flags().GetInt64("max-inflate")

		config.Config.LogLevel = level
		config.Config.Pretty = !jsonLogs
		config.Config.MaxInflateSize = maxInflate
		logging.Init(config.Config)
		return nil
	},
}

func init() {
	defaults := config.Default()
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel.String(), "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", !defaults.Pretty, "write logs as JSON lines")
	rootCmd.PersistentFlags().Int64("max-inflate", defaults.MaxInflateSize, "maximum inflated image data size in bytes, 0 for no limit")

	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header and metadata of a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openImage(args[0])
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), img)
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Expand an indexed PNG to RGBA and write it as PPM, BMP or PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clipFlag, _ := cmd.Flags().GetString("clip")
			format, _ := cmd.Flags().GetString("format")

			clip, err := parseClip(clipFlag)
			if err != nil {
				return err
			}
			if format == "" {
				format = formatFromName(args[1])
			}

			img, err := openImage(args[0])
			if err != nil {
				return err
			}
			return convert(img, args[1], format, clip)
		},
	}
	convertCmd.Flags().String("clip", "", "sub-rectangle to expand, as x,y,w,h (leave w or h empty for \"to the edge\")")
	convertCmd.Flags().String("format", "", "output format: ppm, bmp or png (default: from the output file extension)")

	rootCmd.AddCommand(infoCmd, convertCmd)
}

func main() {
	defer logging.LogPanicsAndExit(nil, os.Exit)
	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("indexedpng failed")
		os.Exit(1)
	}
}

func openImage(path string) (*pngDecoder.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.New(err, "failed to read %s", path)
	}
	logging.Debug().Str("file", path).Int("bytes", len(data)).Msg("read file")
	if !pngDecoder.HasSignature(data) {
		logging.Warn().Str("file", path).Msg("file does not start with a PNG signature")
	}

	logger := logging.With().Str("file", path).Logger()
	img, err := pngDecoder.New(data,
		pngDecoder.WithLogger(logger),
		pngDecoder.WithMaxInflateSize(config.Config.MaxInflateSize),
	)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func printInfo(w io.Writer, img *pngDecoder.Image) error {
	raw := img.Raw()
	fmt.Fprintf(w, "size:         %dx%d\n", raw.Width, raw.Height)
	fmt.Fprintf(w, "bit depth:    %d\n", raw.BitDepth)
	fmt.Fprintf(w, "color type:   %d\n", raw.ColorType)
	fmt.Fprintf(w, "color space:  %s\n", raw.ColorSpace)
	fmt.Fprintf(w, "alpha:        %v\n", raw.HasAlphaChannel)
	fmt.Fprintf(w, "interlace:    %d\n", raw.InterlaceMethod)
	fmt.Fprintf(w, "palette:      %d entries\n", len(raw.Palette)/3)
	fmt.Fprintf(w, "image data:   %d bytes\n", len(raw.Data))

	switch t := raw.Transparency; t.Kind {
	case pngDecoder.TransparencyIndexed:
		fmt.Fprintf(w, "transparency: %d alpha values\n", len(t.Indexed))
	case pngDecoder.TransparencyGrayscale:
		fmt.Fprintf(w, "transparency: gray %d\n", t.Gray)
	case pngDecoder.TransparencyRGB:
		fmt.Fprintf(w, "transparency: rgb %v\n", t.RGB)
	}

	keys := make([]string, 0, len(raw.Text))
	for k := range raw.Text {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "text:         %s = %q\n", k, raw.Text[k])
	}
	return nil
}

// parseClip reads "x,y,w,h". An empty w or h runs the clip to the edge, and
// an empty string means no clip.
func parseClip(s string) (*pngDecoder.Clip, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bad --clip %q: want x,y,w,h", s)
	}
	var vals [4]*int
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" && i >= 2 {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, oops.New(err, "bad --clip %q", s)
		}
		vals[i] = &v
	}
	return &pngDecoder.Clip{X: *vals[0], Y: *vals[1], W: vals[2], H: vals[3]}, nil
}

func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bmp":
		return "bmp"
	case ".png":
		return "png"
	}
	return "ppm"
}

func convert(img *pngDecoder.Image, outPath string, format string, clip *pngDecoder.Clip) error {
	nrgba, err := img.ToImage(pngDecoder.RGBAOptions{Clip: clip})
	if err != nil {
		return err
	}
	if err := writeImage(nrgba, outPath, format); err != nil {
		return err
	}
	logging.Info().
		Str("file", outPath).
		Str("format", format).
		Int("width", nrgba.Rect.Dx()).
		Int("height", nrgba.Rect.Dy()).
		Msg("wrote image")
	return nil
}

func writeImage(nrgba *image.NRGBA, outPath string, format string) error {
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	switch format {
	case "ppm":
		outputFile, err := utils.CreatePPM(outPath, width, height)
		if err != nil {
			return oops.New(err, "failed to create %s", outPath)
		}
		defer outputFile.Close()
		if err := utils.WriteRGB(outputFile, nrgba.Pix); err != nil {
			return oops.New(err, "failed to write %s", outPath)
		}
		return outputFile.Close()
	case "bmp", "png":
		outputFile, err := os.Create(outPath)
		if err != nil {
			return oops.New(err, "failed to create %s", outPath)
		}
		defer outputFile.Close()
		if format == "bmp" {
			err = bmp.Encode(outputFile, nrgba)
		} else {
			err = png.Encode(outputFile, nrgba)
		}
		if err != nil {
			return oops.New(err, "failed to write %s", outPath)
		}
		return outputFile.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
