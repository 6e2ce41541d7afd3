package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xdsm/internal/server"
	"github.com/matzehuels/xdsm/pkg/cache"
	"github.com/matzehuels/xdsm/pkg/pipeline"
	"github.com/matzehuels/xdsm/pkg/store"
)

// Diagram store backends of the serve command.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeMongo  = "mongo"
)

// apiKeyPrefix scopes the server's artifact keys so a Redis shared with the
// CLI keeps the two apart.
const apiKeyPrefix = "api:"

// storeCloseTimeout bounds closing the store on shutdown.
const storeCloseTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		cacheBackend string
		cfg          ServerConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline and a diagram store over HTTP",
		Long: `Serve the render pipeline and a diagram store over HTTP.

Routes:
  GET    /healthz
  POST   /v1/render
  POST   /v1/diagrams
  GET    /v1/diagrams
  GET    /v1/diagrams/{id}
  DELETE /v1/diagrams/{id}
  GET    /v1/diagrams/{id}/{format}

Examples:
  xdsm serve --addr :8080
  xdsm serve --cache redis --store mongo --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			file := c.Config.Server
			if !changed("addr") && file.Addr != "" {
				addr = file.Addr
			}
			if !changed("cache") {
				cacheBackend = c.Config.Cache.Backend
			}
			if !changed("store") && file.Store != "" {
				cfg.Store = file.Store
			}
			if !changed("store-dir") {
				cfg.StoreDir = file.StoreDir
			}
			if !changed("mongo-uri") && file.MongoURI != "" {
				cfg.MongoURI = file.MongoURI
			}
			if !changed("mongo-database") && file.MongoDatabase != "" {
				cfg.MongoDatabase = file.MongoDatabase
			}
			return c.runServe(cmd.Context(), addr, cacheBackend, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&cacheBackend, "cache", cacheBackendFile, "artifact cache: file, redis or none")
	cmd.Flags().StringVar(&cfg.Store, "store", storeMemory, "diagram store: memory, file or mongo")
	cmd.Flags().StringVar(&cfg.StoreDir, "store-dir", "", "directory of the file store (default ~/.local/share/xdsm/diagrams)")
	cmd.Flags().StringVar(&cfg.MongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection string")
	cmd.Flags().StringVar(&cfg.MongoDatabase, "mongo-database", "", "MongoDB database (default xdsm)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, cacheBackend string, cfg ServerConfig) error {
	cc, err := c.newCache(ctx, cacheBackend)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
	defer runner.Close()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	printKeyValue("Listening", "http://"+addr)
	printKeyValue("Cache", cacheBackend)
	printKeyValue("Store", cfg.Store)
	return server.New(runner, st, c.Logger).ListenAndServe(ctx, addr)
}

// openStore opens the configured diagram store.
func openStore(ctx context.Context, cfg ServerConfig) (store.Store, error) {
	switch cfg.Store {
	case storeMemory, "":
		return store.NewMemoryStore(), nil
	case storeFile:
		return store.NewFileStore(cfg.StoreDir)
	case storeMongo:
		st, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store %q (use memory, file or mongo)", cfg.Store)
	}
}
