package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-linkify"
)

var moduleBuilder = func(cfg linkify.Config) (renderModule, error) {
	return linkify.New(cfg)
}

type renderModule interface {
	RenderTitle(ctx context.Context, title string) (linkify.TrustedHTML, []linkify.Attachment, error)
	Close() error
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("linkify: %v", err)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("linkify", flag.ContinueOnError)
	linksEnabled := fs.Bool("links", true, "Turn URLs and markdown links into anchors")
	sanitize := fs.Bool("sanitize", false, "Run link output through the HTML sanitizer")
	titlesEnabled := fs.Bool("titles", true, "Resolve remote page titles for extract and keep-title")
	urlBehavior := fs.String("url-behavior", "keep-url", "Short-syntax URL behaviour: extract, keep-url or keep-title")
	envFile := fs.String("env", "", "Dotenv file loaded before LINKIFY_* variables are read (defaults to ./.env)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := linkify.FromEnv(files...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Explicit flags win over the environment.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "links":
			cfg.Render.LinksEnabled = *linksEnabled
		case "sanitize":
			cfg.Render.Sanitize = *sanitize
		case "titles":
			cfg.Titles.Enabled = *titlesEnabled
		case "url-behavior":
			behavior, err := linkify.ParseURLBehavior(*urlBehavior)
			if err != nil {
				flagErr = err
				return
			}
			cfg.ShortSyntax.URLBehavior = behavior
		}
	})
	if flagErr != nil {
		return flagErr
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		html, attachments, err := module.RenderTitle(ctx, scanner.Text())
		if err != nil {
			return fmt.Errorf("render line: %w", err)
		}
		fmt.Fprintln(out, html.String())
		for _, attachment := range attachments {
			fmt.Fprintf(out, "  attachment: %s (%s)\n", attachment.URL, attachment.Title)
		}
	}
	return scanner.Err()
}
