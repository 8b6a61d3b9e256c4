package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ImgAltText/config/environment"
	"ImgAltText/controllers"
	"ImgAltText/observer"
	route "ImgAltText/routes"
	"ImgAltText/services"
	"ImgAltText/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const usage = `Usage: alttext <command> [flags]

Commands:
  serve   run the runtime alt text service (default)
  build   inject alt text into an emitted build output directory
  scan    fill missing alt text of a served page through a running service
`

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "build":
		err = runBuild(args)
	case "scan":
		err = runScan(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func loadConfig(fs *flag.FlagSet, args []string) (environment.Config, *zap.Logger, error) {
	configPath := fs.String("config", "", "path to the config file (env ALTTEXT_CONFIG, default alttext.yaml)")
	if err := fs.Parse(args); err != nil {
		return environment.Config{}, nil, err
	}

	cfg, err := environment.Load(*configPath)
	if err != nil {
		return environment.Config{}, nil, err
	}
	logger, err := utils.NewLogger(cfg.Server.Mode)
	if err != nil {
		return environment.Config{}, nil, fmt.Errorf("error creating logger: %w", err)
	}
	return cfg, logger, nil
}

func runServe(args []string) error {
	cfg, logger, err := loadConfig(flag.NewFlagSet("serve", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	resolver, err := services.NewCaptionResolver(cfg, logger)
	if err != nil {
		return err
	}
	altTextService := services.NewAltTextService(afero.NewOsFs(), cfg.Server.ImageDir, resolver, cfg.Prompt(), logger)
	router := route.NewRouter(cfg, controllers.NewAltTextController(altTextService, logger), logger)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("🚀 Server running", zap.String("url", "http://localhost"+srv.Addr), zap.String("static_dir", cfg.Server.StaticDir))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	outputDir := fs.String("out", "", "build output directory (default build.output_dir)")
	cfg, logger, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if *outputDir != "" {
		cfg.Build.OutputDir = *outputDir
	}

	resolver, err := services.NewCaptionResolver(cfg, logger)
	if err != nil {
		return err
	}
	injector := services.NewInjectorService(resolver, cfg.Prompt(), cfg.JSInject.ObserverJS, cfg.JSInject.JSName, logger)
	plugin := services.NewAltTextPlugin(injector, cfg.JSInject.ObserverJS, cfg.JSInject.JSName)
	pipeline := services.NewPipeline(cfg.Build.Mode == environment.ModeProduction, logger, plugin)
	build := services.NewBuildService(afero.NewOsFs(), cfg.Build.OutputDir, cfg.Build.Entry, pipeline, plugin, logger)

	report, err := build.Run(context.Background())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Printf("✅ %d html files, %d captions, %d files written\n", report.HTMLFiles, report.Captions, len(report.Written))
	return nil
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	pageURL := fs.String("url", "", "page to scan (required)")
	serviceURL := fs.String("service", "", "alt text service base URL (default: origin of -url)")
	timeout := fs.Duration("timeout", time.Minute, "overall timeout")
	_, logger, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *pageURL == "" {
		return errors.New("-url is required")
	}
	base := *serviceURL
	if base == "" {
		u, err := url.Parse(*pageURL)
		if err != nil {
			return fmt.Errorf("invalid -url: %w", err)
		}
		base = u.Scheme + "://" + u.Host
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	httpClient := &http.Client{Timeout: *timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *pageURL, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("page request failed with status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("error parsing page: %w", err)
	}

	scanner := observer.NewScanner(observer.NewClient(base, httpClient), logger)
	unsubscribe := observer.New(scanner).Subscribe(ctx, doc.Find("body"))
	defer unsubscribe()
	scanner.Wait()

	out, err := doc.Html()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
