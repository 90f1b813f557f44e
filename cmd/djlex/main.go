// Command djlex checks the block tags of Django-style templates.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	djlex "github.com/dpotapov/go-djlex"
	"github.com/dpotapov/go-djlex/diag"
)

// errDiagnostics is returned by run when a template has lexing errors.
var errDiagnostics = errors.New("templates have errors")

// usageError marks errors caused by bad flags or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	switch {
	case err == nil:
	case errors.Is(err, errDiagnostics):
		os.Exit(1)
	case errors.As(err, new(usageError)):
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dirs       []string
	encoding   string
	format     string
	tokens     bool
	where      string
	serve      string
	verbose    bool
	names      []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	flags := flag.NewFlagSet("djlex", flag.ContinueOnError)
	flags.SetOutput(stderr)

	opts := &options{}
	flags.StringVar(&opts.configPath, "config", "", "Path to config file")
	flags.Func("dir", "Template directory (repeatable)", func(s string) error {
		opts.dirs = append(opts.dirs, s)
		return nil
	})
	flags.StringVar(&opts.encoding, "encoding", "", "Template file encoding")
	flags.StringVar(&opts.format, "format", "text", "Output format: text, json, checkstyle or html")
	flags.BoolVar(&opts.tokens, "tokens", false, "Print condition tokens")
	flags.StringVar(&opts.where, "where", "", "Filter condition tokens with an expression")
	flags.StringVar(&opts.serve, "serve", "", "Serve the checker over HTTP on this address")
	flags.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: djlex [flags] name...\n\nA name of - reads the template from stdin.\n\nFlags:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, usageError{err}
	}
	opts.names = flags.Args()

	switch opts.format {
	case "text", "json", "checkstyle", "html":
	default:
		return nil, usageError{fmt.Errorf("unknown format %q", opts.format)}
	}
	if opts.serve == "" && len(opts.names) == 0 {
		flags.Usage()
		return nil, usageError{errors.New("no templates given")}
	}
	return opts, nil
}

// run is the main entry point, kept free of globals for testing.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(opts, getenv)
	if err != nil {
		return usageError{err}
	}
	ldr, err := cfg.Loader(logger)
	if err != nil {
		return usageError{err}
	}

	filter, err := djlex.CompileFilter(opts.where)
	if err != nil {
		return usageError{err}
	}

	if opts.serve != "" {
		return serve(ctx, opts.serve, &djlex.Handler{Loader: ldr, Logger: logger}, logger)
	}

	var (
		reports []*djlex.Report
		failed  bool
	)
	for _, name := range opts.names {
		var report *djlex.Report
		if name == "-" {
			src, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			report = djlex.Check("<stdin>", string(src))
		} else {
			tmpl, err := ldr.GetTemplate(name)
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				failed = true
				continue
			}
			report = djlex.Check(tmpl.Name, tmpl.Source)
		}

		if report, err = filter.Apply(report); err != nil {
			return err
		}
		logger.Debug("Checked template", "name", report.Name, "tags", len(report.Tags), "diagnostics", len(report.Diagnostics))
		if !report.OK() {
			failed = true
		}
		reports = append(reports, report)
	}

	if err := write(stdout, opts, reports); err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func loadConfig(opts *options, getenv func(string) string) (*djlex.Config, error) {
	cfg := djlex.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = djlex.LoadConfig(opts.configPath, getenv); err != nil {
			return nil, err
		}
	}
	if opts.encoding != "" {
		cfg.Encoding = opts.encoding
	}
	if len(opts.dirs) > 0 {
		cfg.Loaders = append([]djlex.LoaderConfig{{Type: djlex.LoaderFileSystem, Dirs: opts.dirs}}, cfg.Loaders...)
	}
	if len(cfg.Loaders) == 0 {
		cfg.Loaders = []djlex.LoaderConfig{{Type: djlex.LoaderFileSystem, Dirs: []string{"."}}}
	}
	return cfg, nil
}

func write(w io.Writer, opts *options, reports []*djlex.Report) error {
	if opts.tokens {
		return writeTokens(w, opts.format, reports)
	}

	var diags []diag.Diagnostic
	for _, r := range reports {
		diags = append(diags, r.Diagnostics...)
	}

	switch opts.format {
	case "json":
		return diag.WriteJSON(w, diags)
	case "checkstyle":
		return diag.WriteCheckstyle(w, diags)
	}

	for _, r := range reports {
		for _, d := range r.Diagnostics {
			var err error
			if opts.format == "html" {
				err = r.File().RenderHTML(w, d)
			} else {
				err = r.File().Render(w, d)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTokens(w io.Writer, format string, reports []*djlex.Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		for _, tok := range r.Tokens() {
			if _, err := fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\n", r.Name, tok.Line, tok.Column, tok.Kind, tok.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

func loggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request", "method", r.Method, "url", r.URL)
		next.ServeHTTP(w, r)
	})
}

func serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           loggerMiddleware(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
