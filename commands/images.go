package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"holoholo/images"
)

func newImagesCmd(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Download the sample product images",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.ImageDir
			}
			ctx := logger.WithContext(cmd.Context())
			res, err := images.NewDownloader(dir).Download(ctx, images.Samples)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d/%d sample images to %s\n",
				len(res.Saved), len(images.Samples), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (defaults to IMAGE_DIR)")
	return cmd
}
