package cli

import (
	"github.com/spf13/cobra"

	"github.com/gotikz/gotikz/pkg/preview"
)

// previewCommand creates the preview command. It serves a demo page for a
// TikZ source file until interrupted; edit the file and reload to iterate.
func (c *CLI) previewCommand() *cobra.Command {
	var opts buildOpts
	var addr string
	var displayDPI int

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Serve a live preview of a TikZ picture over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pic, err := c.loadPicture(args[0], &opts)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			dpi := displayDPI
			if dpi <= 0 {
				dpi = c.Config.DisplayDPI
			}

			printInfo("Previewing %s at http://%s", args[0], addr)
			srv := preview.NewServer(runner, pic, c.Logger, preview.WithDisplayDPI(dpi))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Preview.Addr, "listen address")
	cmd.Flags().IntVar(&displayDPI, "dpi", 0, "PNG resolution (default: configured display DPI)")
	cmd.Flags().StringSliceVarP(&opts.libraries, "library", "l", nil, "TikZ libraries to load")
	cmd.Flags().BoolVar(&opts.fira, "fira", false, "typeset with the Fira font family")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
