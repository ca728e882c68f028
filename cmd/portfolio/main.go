//go:build !js && !wasm

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/Its-donkey/portfolio/internal/config"
	"github.com/Its-donkey/portfolio/internal/content"
	"github.com/Its-donkey/portfolio/internal/ui/render"
	"github.com/Its-donkey/portfolio/internal/ui/server"
	"github.com/Its-donkey/portfolio/logging"
)

type serveOptions struct {
	configPath string
	listen     string
	assets     string
	content    string
	open       bool
	watch      bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Serve a single-page developer portfolio",
		Long: `portfolio serves the portfolio shell, its WebAssembly client and a
same-origin contact relay that forwards messages to Web3Forms.

The Web3Forms access key is read from the config file, or from the
WEB3FORMS_ACCESS_KEY environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newServeCmd(), newCheckCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portfolio web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to portfolio config YAML")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "address to listen on, overrides the config")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "directory holding styles.css, wasm_exec.js and main.wasm")
	cmd.Flags().StringVar(&opts.content, "content", "", "portfolio content YAML; the bundled content is used when empty")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the site in the default browser once listening")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the content file when it changes")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var configPath, contentPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config and content without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), configPath, contentPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to portfolio config YAML")
	cmd.Flags().StringVar(&contentPath, "content", "", "portfolio content YAML to check")
	return cmd
}

func loadConfig(opts serveOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.listen != "" {
		if err := cfg.SetListen(opts.listen); err != nil {
			return config.Config{}, err
		}
	}
	if opts.assets != "" {
		cfg.App.Assets = opts.assets
	}
	if opts.content != "" {
		cfg.App.Content = opts.content
	}
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) (*logging.Logger, func(), error) {
	writers := []io.Writer{out}
	closeFn := func() {}
	if dir := strings.TrimSpace(cfg.Logging.Dir); dir != "" {
		fw, err := logging.NewFileWriter(logging.FileOptions{
			Dir:       dir,
			Filename:  "portfolio.log",
			MaxSizeMB: cfg.Logging.MaxSizeMB,
			MaxFiles:  cfg.Logging.MaxFiles,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, fw)
		closeFn = func() { _ = fw.Close() }
	}
	return logging.New("portfolio", cfg.LogLevel(), writers...), closeFn, nil
}

func runServe(ctx context.Context, out io.Writer, opts serveOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLogs, err := newLogger(cfg, out)
	if err != nil {
		return err
	}
	defer closeLogs()

	return server.Run(ctx, server.Options{
		Config: cfg,
		Logger: logger,
		Watch:  opts.watch,
		Ready: func(addr string) {
			if !opts.open {
				return
			}
			if err := browser.OpenURL("http://" + addr); err != nil {
				logger.Warn("server", "could not open browser", map[string]any{"error": err.Error()})
			}
		},
	})
}

func runCheck(out io.Writer, configPath, contentPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if contentPath == "" {
		contentPath = cfg.App.Content
	}

	var p *content.Portfolio
	if contentPath == "" {
		p, err = content.Default()
	} else {
		p, err = content.Load(contentPath)
	}
	if err != nil {
		return err
	}
	if err := render.VerifyNavigation(strings.NewReader(render.Page(p, render.View{}))); err != nil {
		return err
	}

	source := contentPath
	if source == "" {
		source = "bundled content"
	}
	fmt.Fprintf(out, "ok: config valid, %s renders %d sections and %d projects\n", source, len(p.Nav), len(p.Projects))
	return nil
}
