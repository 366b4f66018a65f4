package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/render/collage/sink"
	"github.com/matzehuels/tierlist/pkg/submission"
)

type renderOpts struct {
	output    string
	format    string
	namespace string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [form-file]",
		Short: "Render a collage from a saved form submission",
		Long: `Render a collage from a saved form submission.

The file holds either a URL-encoded form body (ranks[id]=S&id-url=...&id-title=...)
or a JSON object mapping the same field names to values. Use "-" to read stdin.`,
		Example: `  # Render a saved form body
  tierlist render submission.txt -o tiers.png

  # Render WebP into a caller's cache namespace
  tierlist render form.json --format webp --namespace alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default tier_list.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+sink.FormatNames()+" (overrides config)")
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "cover cache namespace (default shared)")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if opts.format != "" {
		c.settings().Format = opts.format
	}
	format, err := c.settings().ImageFormat()
	if err != nil {
		return err
	}

	form, err := readForm(input)
	if err != nil {
		return err
	}
	sub := submission.Parse(form)

	store, err := c.newStore()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(store, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %d items...", len(sub.Ranks)))
	spin.Start()
	res, err := runner.GenerateCollage(ctx, sub, opts.namespace)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d tiles", res.Stats.Tiles))

	out := opts.output
	if out == "" {
		out = "tier_list" + format.Extension()
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Collage %dx%d", res.Stats.Width, res.Stats.Height)
	printStats(res.Stats.Tiles, res.Stats.Fallbacks, res.Stats.Cached, res.Stats.Fetched)
	printFile(out)
	return nil
}

// readForm loads form fields from a URL-encoded or JSON file.
func readForm(path string) (map[string]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read form: %w", err)
	}
	return parseForm(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

func parseForm(data []byte, isJSON bool) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "No form data received")
	}
	if isJSON || strings.HasPrefix(trimmed, "{") {
		var form map[string]string
		if err := json.Unmarshal([]byte(trimmed), &form); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse JSON form")
		}
		return form, nil
	}
	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form body")
	}
	return submission.Flatten(values), nil
}
