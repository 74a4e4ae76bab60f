package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviescout/poster"
	"github.com/s0up4200/moviescout/tmdb"
)

var _ poster.Fetcher = (tmdb.API)(nil)

var posterOutput string

// posterCmd represents the poster command
var posterCmd = &cobra.Command{
	Use:   "poster <url>",
	Short: "Download a poster image",
	Long: `Download the image at a poster URL printed by 'search'.
The file is only written when the response decodes as an image.
Use -o - to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runPoster,
}

func init() {
	posterCmd.Flags().StringVarP(&posterOutput, "output", "o", "", "output file (default is the URL's file name)")
}

func runPoster(cmd *cobra.Command, args []string) error {
	url := args[0]
	if client.IsPlaceholder(url) {
		logger.Warn().Str("url", url).Msg("URL is the placeholder used for movies without a poster")
	}

	output := posterOutput
	if output == "" {
		output = poster.FileName(url)
	}

	var (
		w    io.Writer = os.Stdout
		file *os.File
	)
	if output != "-" {
		var err error
		file, err = os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		w = file
	}

	info, err := poster.Download(cmd.Context(), client, url, w)
	if file != nil {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(output)
		}
	}
	if err != nil {
		return err
	}

	logger.Info().
		Str("file", output).
		Str("format", info.Format).
		Int("width", info.Width).
		Int("height", info.Height).
		Int64("bytes", info.Size).
		Msg("Poster saved")

	return nil
}
