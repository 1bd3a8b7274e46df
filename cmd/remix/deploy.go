package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/remix-go/remix/internal/config"
	"github.com/remix-go/remix/internal/deploy"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		prefix string
		region string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the browser build to S3",
		Long: `Upload the browser build directory to S3.

Bundle files are uploaded with immutable cache headers; the manifest is
uploaded with no-cache so clients always see the latest build.

Credentials come from the standard AWS chain (environment, shared
config, instance role).

Examples:
  remix deploy
  remix deploy --bucket=my-assets --prefix=build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), bucket, prefix, region)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target bucket (default from remix.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix (default from remix.json)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from remix.json)")

	return cmd
}

func runDeploy(ctx context.Context, bucket, prefix, region string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	dc := cfg.Deploy
	if bucket != "" {
		dc.Bucket = bucket
	}
	if prefix != "" {
		dc.Prefix = prefix
	}
	if region != "" {
		dc.Region = region
	}

	uploader, err := deploy.NewFromConfig(ctx, dc, slog.Default())
	if err != nil {
		return err
	}

	info("Uploading %s to s3://%s/%s", cfg.BuildPath(), dc.Bucket, dc.Prefix)
	n, err := uploader.UploadDir(ctx, cfg.BuildPath())
	if err != nil {
		return err
	}
	success("Uploaded %d files", n)
	return nil
}
