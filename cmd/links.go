package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"portal/internal/config"
	"portal/pkg/logger"
	"portal/pkg/pdfurl"
	"portal/pkg/placelink"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// linksCommand groups the offline place link and document URL tools.
func linksCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Resolves place links and normalizes document URLs",
	}

	cmd.PersistentFlags().String("platform", "", "Target platform: desktop, ios or android (default: user agent detection)")
	cmd.PersistentFlags().String("user-agent", "", "User agent used to detect the platform")

	cmd.AddCommand(
		linksResolveCommand(),
		linksNormalizeCommand(),
		linksOpenCommand(cfg),
	)

	return cmd
}

func platformFromFlags(cmd *cobra.Command) (placelink.Platform, error) {
	name, _ := cmd.Flags().GetString("platform")
	if name == "" {
		ua, _ := cmd.Flags().GetString("user-agent")

		return placelink.DetectPlatform(ua), nil
	}

	p, ok := placelink.ParsePlatform(name)
	if !ok {
		return p, fmt.Errorf("unknown platform %q", name)
	}

	return p, nil
}

func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("could not encode output: %w", err)
	}

	return nil
}

func linksResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <text>",
		Short: "Prints the map link built for a place description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := platformFromFlags(cmd)
			if err != nil {
				return err
			}

			return writeJSONLine(cmd.OutOrStdout(), placelink.Resolve(strings.Join(args, " "), platform))
		},
	}
}

type normalizeOutput struct {
	Input     string `json:"input"`
	URL       string `json:"url"`
	Rule      string `json:"rule"`
	Ambiguous bool   `json:"ambiguous,omitempty"`
}

func linksNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <url>...",
		Short: "Prints the canonical document URL of every argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, in := range args {
				res := pdfurl.Classify(in)
				if err := writeJSONLine(cmd.OutOrStdout(), normalizeOutput{
					Input:     in,
					URL:       res.URL,
					Rule:      string(res.Rule),
					Ambiguous: res.Ambiguous,
				}); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func linksOpenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <text>",
		Short: "Simulates opening a place link, printing every navigation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := platformFromFlags(cmd)
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetDuration("fallback-delay")
			if delay <= 0 {
				delay = cfg.Links.FallbackDelay
			}

			link := placelink.Resolve(strings.Join(args, " "), platform)
			if link == nil {
				return nil
			}

			opener := placelink.NewOpener(&placelink.WriterNavigator{W: cmd.OutOrStdout()},
				placelink.WithFallbackDelay(delay))

			logger.Debug(context.Background(), "opening place link",
				zap.Stringer("platform", platform),
				zap.String("url", link.URL),
				zap.Duration("fallback_delay", delay))

			opener.Open(link)
			opener.Wait()

			return nil
		},
	}

	cmd.Flags().Duration("fallback-delay", 0, "Delay before the web search fallback (default: links.fallbackDelay)")

	return cmd
}
