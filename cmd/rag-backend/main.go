package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/builder"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var environment string

	rootCmd := &cobra.Command{
		Use:          "rag-backend",
		Short:        "Retrieval-augmented question answering service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&environment, "env", "local", "environment name, selects the .env.<env> file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Ensure the collection exists and serve the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := builder.Build(cmd.Context(), environment)
				if err != nil {
					return fmt.Errorf("failed to build application: %w", err)
				}
				return app.Run()
			},
		},
		&cobra.Command{
			Use:   "ensure-collection",
			Short: "Create the vector collection and its index when missing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), environment, func(ctx context.Context, c *builder.Components) error {
					return c.EnsureReady(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "ingest <file>...",
			Short: "Add .txt, .md or .docx files to the collection",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), environment, func(ctx context.Context, c *builder.Components) error {
					return ingestFiles(ctx, c, args)
				})
			},
		},
		&cobra.Command{
			Use:   "ask <question>",
			Short: "Answer a question from the stored documents",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), environment, func(ctx context.Context, c *builder.Components) error {
					req := entity.AskRequest{Question: args[0]}
					if err := validator.New(c.Config.FileUploadCfg).ValidateAsk(&req); err != nil {
						return err
					}

					answer, err := c.Usecase.AskQuestion(ctx, req.Question)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), answer)
					return nil
				})
			},
		},
	)

	return rootCmd
}

// withComponents builds the pipelines, makes sure the collection is ready,
// runs fn and releases the store connection.
func withComponents(ctx context.Context, environment string, fn func(context.Context, *builder.Components) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := builder.BuildComponents(ctx, environment)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(context.Background()); cerr != nil {
			c.Logger.Warn("Failed to close vector store", zap.Error(cerr))
		}
	}()

	if err := c.EnsureReady(ctx); err != nil {
		return err
	}
	return fn(ctxzap.ToContext(ctx, c.Logger), c)
}

func ingestFiles(ctx context.Context, c *builder.Components, paths []string) error {
	contents := make([]string, 0, len(paths))
	metadataList := make([]map[string]string, 0, len(paths))

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		text, err := c.Extractor.Extract(entity.FileData{Filename: path, Content: raw})
		if err != nil {
			return err
		}
		if err := validator.ValidateContent(text); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		contents = append(contents, text)
		metadataList = append(metadataList, map[string]string{entity.MetadataSource: path})
	}

	if err := c.Usecase.AddDocuments(ctx, contents, metadataList); err != nil {
		return err
	}

	c.Logger.Info("Files ingested", zap.Int("file_count", len(paths)))
	return nil
}
