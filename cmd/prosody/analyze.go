package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-prosody/logging"
	"github.com/RyanBlaney/sonido-prosody/prosody"
	"github.com/RyanBlaney/sonido-prosody/render"
	"github.com/RyanBlaney/sonido-prosody/transcode"
)

// analysis is one decoded and analyzed recording
type analysis struct {
	raw      []byte
	buffer   prosody.SampleBuffer
	features *prosody.ProsodyFeatures
	summary  prosody.Summary
}

func analyzeFile(ctx context.Context, cfg prosody.Config, path string) (*analysis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	audio, err := transcode.NewDecoder(nil).DecodeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	analyzer, err := prosody.NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	buf, err := analyzer.Prepare(audio.Channels, audio.SampleRate)
	if err != nil {
		return nil, err
	}

	ctx = logging.ContextWithFields(ctx, logging.Fields{"file": filepath.Base(path)})
	features, err := analyzer.AnalyzeProsody(ctx, buf)
	if err != nil {
		return nil, err
	}

	return &analysis{
		raw:      raw,
		buffer:   buf,
		features: features,
		summary:  analyzer.Summarize(features),
	}, nil
}

func newAnalyzeCommand(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Extract prosody features from a WAV recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}
			renderer, err := render.ForFormat(format)
			if err != nil {
				return err
			}

			result, err := analyzeFile(cmd.Context(), a.cfg.Analysis, args[0])
			if err != nil {
				return err
			}

			// binary output never goes to a terminal
			if out == "" && renderer.Extension() == ".png" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + renderer.Extension()
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			report := render.NewReport(result.features, result.summary, result.buffer)
			if err := renderer.Render(w, report); err != nil {
				return fmt.Errorf("failed to render %s output: %w", format, err)
			}

			if out != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ Wrote "+out))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "", "write output to a file instead of stdout")

	return cmd
}
