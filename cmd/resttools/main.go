package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/erraggy/resttools"
	"github.com/erraggy/resttools/internal/mcpserver"
	"github.com/erraggy/resttools/internal/stringutil"
	"github.com/erraggy/resttools/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("resttools v%s\n", resttools.Version())
	case "help", "-h", "--help":
		printUsage()
	case "check":
		if err := handleCheck(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "negotiate":
		if err := handleNegotiate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// checkFlags contains flags for the check command
type checkFlags struct {
	strict bool
}

func setupCheckFlags() (*flag.FlagSet, *checkFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &checkFlags{}

	fs.BoolVar(&flags.strict, "strict", false, "build with strict mode enabled")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: resttools check [flags] <config.yaml>\n\n")
		_, _ = fmt.Fprintf(output, "Build every resource in a pipeline configuration and report errors.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  resttools check resources.yaml\n")
		_, _ = fmt.Fprintf(output, "  resttools check --strict resources.yaml\n")
	}

	return fs, flags
}

func handleCheck(args []string) error {
	fs, flags := setupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("check command requires exactly one config file path")
	}

	configPath := fs.Arg(0)

	cfg, err := pipeline.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var opts []pipeline.Option
	if flags.strict {
		opts = append(opts, pipeline.WithStrictMode(true))
	}
	p, err := pipeline.NewFromConfig(cfg, opts...)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	fmt.Printf("Configuration: %s\n", configPath)
	for _, res := range p.Resources() {
		fmt.Printf("\nResource: %s\n", res.Name)
		for _, op := range res.Operations {
			fmt.Printf("  %-7s %s", op.Method, op.Template)
			if len(op.Parts) > 0 || op.BodyPart != nil {
				parts := len(op.Parts)
				if op.BodyPart != nil {
					parts++
				}
				fmt.Printf("  (%d parts)", parts)
			}
			fmt.Println()
		}
	}
	fmt.Printf("\nConfiguration is valid.\n")
	return nil
}

// negotiateFlags contains flags for the negotiate command
type negotiateFlags struct {
	method      string
	path        string
	accept      string
	contentType string
}

func setupNegotiateFlags() (*flag.FlagSet, *negotiateFlags) {
	fs := flag.NewFlagSet("negotiate", flag.ContinueOnError)
	flags := &negotiateFlags{}

	fs.StringVar(&flags.method, "method", "GET", "HTTP method of the simulated request")
	fs.StringVar(&flags.path, "path", "", "request path to route (required)")
	fs.StringVar(&flags.accept, "accept", "", "Accept header value (empty means */*)")
	fs.StringVar(&flags.contentType, "content-type", "", "Content-Type header value; when set the parser selection is reported too")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: resttools negotiate [flags] <config.yaml>\n\n")
		_, _ = fmt.Fprintf(output, "Route a simulated request against a configuration and report the\n")
		_, _ = fmt.Fprintf(output, "negotiated serializer and parser.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  resttools negotiate -path /pets/42 resources.yaml\n")
		_, _ = fmt.Fprintf(output, "  resttools negotiate -method POST -path /pets -accept 'application/json' -content-type 'text/xml' resources.yaml\n")
	}

	return fs, flags
}

func handleNegotiate(args []string) error {
	fs, flags := setupNegotiateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("negotiate command requires exactly one config file path")
	}
	if stringutil.IsBlank(flags.path) {
		fs.Usage()
		return fmt.Errorf("negotiate command requires -path")
	}

	cfg, err := pipeline.LoadConfigFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	p, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	req, err := newRequest(flags.method, flags.path)
	if err != nil {
		return err
	}
	op, _, ok := p.Route(req)
	if !ok {
		return fmt.Errorf("no operation matches %s %s", flags.method, flags.path)
	}

	fmt.Printf("Operation: %s\n", op.Name())

	entry, mt, err := p.SelectSerializer(flags.accept, op)
	if err != nil {
		fmt.Printf("Serializer: none (%v)\n", err)
	} else {
		fmt.Printf("Serializer: %s as %s\n", entry.ID, mt)
	}

	if flags.contentType != "" {
		pentry, err := p.SelectParser(flags.contentType, op)
		if err != nil {
			fmt.Printf("Parser: none (%v)\n", err)
		} else {
			fmt.Printf("Parser: %s\n", pentry.ID)
		}
	}
	return nil
}

// newRequest builds a request for routing only; no network I/O happens.
func newRequest(method, path string) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(strings.ToUpper(method), "http://localhost"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	return req, nil
}

func handleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: resttools mcp\n\n")
		_, _ = fmt.Fprintf(output, "Run the MCP server over stdio.\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return mcpserver.Run(ctx)
}

func printUsage() {
	fmt.Println(`resttools - HTTP message-part validation and content negotiation tools

Usage:
  resttools <command> [options]

Commands:
  check       Build a pipeline configuration and report errors
  negotiate   Route a simulated request and report the negotiated producers
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  resttools check resources.yaml
  resttools negotiate -method POST -path /pets -content-type 'text/xml' resources.yaml
  resttools mcp

Run 'resttools <command> --help' for more information on a command.`)
}
