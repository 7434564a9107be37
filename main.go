package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/cache"
	"github.com/hondana-dev/hondana/catalog"
	"github.com/hondana-dev/hondana/config"
	"github.com/hondana-dev/hondana/library"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/server"
	"github.com/hondana-dev/hondana/store"
	"github.com/hondana-dev/hondana/store/db"
	"github.com/hondana-dev/hondana/version"
	"github.com/hondana-dev/hondana/worker"
)

const greetingBanner = `
██   ██  ██████  ███    ██ ██████   █████  ███    ██  █████
██   ██ ██    ██ ████   ██ ██   ██ ██   ██ ████   ██ ██   ██
███████ ██    ██ ██ ██  ██ ██   ██ ███████ ██ ██  ██ ███████
██   ██ ██    ██ ██  ██ ██ ██   ██ ██   ██ ██  ██ ██ ██   ██
██   ██  ██████  ██   ████ ██████  ██   ██ ██   ████ ██   ██
`

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:   "hondana",
		Short: "Hondana is a personal book and manga collection tracker",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := run(ctx); err != nil {
				log.Error("Server exited with error", zap.Error(err))
				os.Exit(1)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "bind address")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "bind port")
	rootCmd.PersistentFlags().StringVar(&data, "data", "", "data directory")
}

func loadConfig() error {
	config.GetDefaultOptions()
	if configFile != "" {
		if _, err := config.ParseFile(configFile); err != nil {
			return err
		}
	}
	if data != "" {
		config.Opts.Data = data
	}
	if _, err := config.GetConfig(); err != nil {
		return err
	}
	if host != "" {
		config.Opts.Host = host
	}
	if port != 0 {
		config.Opts.Port = port
	}
	return nil
}

func run(ctx context.Context) error {
	log.Logger = log.NewLogger()
	defer log.Logger.Sync()

	dbConn, err := db.NewDB(config.Opts.DSN)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	if err := dbConn.Migrate(ctx); err != nil {
		return err
	}

	s := store.NewStore(dbConn.DB)
	if err := s.Ping(); err != nil {
		return err
	}
	if _, err := s.GetOrCreateUnspecifiedShop(); err != nil {
		return err
	}

	c := cache.New(time.Duration(config.Opts.CacheTTL) * time.Second)
	svc := library.NewService(s, c,
		config.Opts.UndoDepth,
		time.Duration(config.Opts.UndoWindow)*time.Second)

	pool := worker.NewPool(svc, config.Opts.WorkerPoolSize)
	svc.SetInvalidateHook(func(views []string) {
		jobs := make([]model.Job, 0, len(views))
		for _, view := range views {
			jobs = append(jobs, model.Job{View: view, Status: model.JobStatusPending})
		}
		pool.Push(jobs...)
	})

	cat := catalog.NewClient(config.Opts.CatalogBaseURL, config.Opts.CatalogRPS, config.Opts.CatalogRetries)

	srv, err := server.StartServer(ctx, s, svc, cat, pool)
	if err != nil {
		return err
	}

	fmt.Print(greetingBanner)
	log.Info("Server started",
		zap.String("version", version.GetCurrentVersion()),
		zap.String("data", config.Opts.Data))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	server.Shutdown(srv)
	return nil
}

func main() {
	cobra.OnInitialize(func() {
		if err := loadConfig(); err != nil {
			fmt.Println("Error loading config:", err)
			os.Exit(1)
		}
	})
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
