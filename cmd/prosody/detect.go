package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-prosody/config"
	"github.com/RyanBlaney/sonido-prosody/render"
	"github.com/RyanBlaney/sonido-prosody/sarcasm"
)

func newSarcasmClient(cfg config.OpenAIConfig) *sarcasm.Client {
	client := sarcasm.NewClient(cfg.APIKey)
	client.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	client.BaseURL = cfg.BaseURL
	client.ChatModel = cfg.ChatModel
	client.TranscriptionModel = cfg.TranscriptionModel
	return client
}

func newDetectCommand(a *app) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "detect [file.wav]",
		Short: "Detect sarcasm in a recording, or in text with --text",
		Args: func(cmd *cobra.Command, args []string) error {
			if text != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newSarcasmClient(a.cfg.OpenAI)
			w := cmd.OutOrStdout()

			if text != "" {
				result, err := client.DetectTextSarcasm(cmd.Context(), text)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, titleStyle.Render("Analysis"))
				fmt.Fprintln(w, result.Analysis)
				fmt.Fprintf(w, "\nSarcastic: %t\n", result.IsSarcastic)
				for _, seg := range result.SentimentFlow {
					fmt.Fprintf(w, "  %-10s %.2f  %s\n", seg.Sentiment, seg.Intensity, dimStyle.Render(seg.Text))
				}
				return nil
			}

			result, err := analyzeFile(cmd.Context(), a.cfg.Analysis, args[0])
			if err != nil {
				return err
			}

			verdict, err := client.DetectVoiceSarcasm(cmd.Context(), result.raw, result.features)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Transcription:"), verdict.Transcript)
			fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Analysis:"), verdict.Analysis)
			fmt.Fprintf(w, "%s %s\n\n", titleStyle.Render("Verdict:"), verdict.Verdict)

			report := render.NewReport(result.features, result.summary, result.buffer)
			return render.NewTable().Render(w, report)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "analyze this text instead of a recording")

	return cmd
}
