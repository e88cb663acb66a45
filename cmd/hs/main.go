// Command hs fetches a URI and streams the response to stdout.  JSON
// responses are pretty-printed incrementally as the body arrives, text
// responses are printed line by line, anything else is copied through.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arnodel/httpstream"
	"github.com/arnodel/httpstream/internal/config"
	"github.com/arnodel/httpstream/jsonstream"
	"github.com/arnodel/httpstream/jsonstream/token"
)

type headerFlags []string

func (h *headerFlags) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerFlags) Set(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("header must be in 'Name: value' format, got %q", value)
	}
	*h = append(*h, value)
	return nil
}

func main() {
	var (
		outputFile string
		configPath string
		colorMode  string
		verbose    bool
		headers    headerFlags
	)

	flag.Usage = printUsage
	flag.StringVar(&outputFile, "o", "", "write the response body to FILE instead of stdout")
	flag.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.BoolVar(&verbose, "v", false, "log requests and responses to stderr")
	flag.Var(&headers, "H", "extra header in 'Name: value' format (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}
	target := flag.Arg(0)

	cfg, err := config.Load(configPath)
	if err != nil {
		fatalError("cannot load configuration: %s", err)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fatalError("cannot set up logging: %s", err)
		}
	}

	options := []httpstream.Option{
		httpstream.WithLogger(logger),
		httpstream.WithRedirectLimit(cfg.RedirectLimit),
	}
	if cfg.Product != "" {
		options = append(options, httpstream.WithUserAgent(cfg.Product))
	}
	if cfg.RateLimit > 0 {
		options = append(options, httpstream.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)))
	}
	requestHeaders := http.Header{}
	for key, value := range cfg.Headers {
		requestHeaders.Set(key, value)
	}
	for _, header := range headers {
		key, value, _ := strings.Cut(header, ":")
		requestHeaders.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	options = append(options, httpstream.WithHeaders(requestHeaders))

	client := httpstream.New(options...)

	res, err := client.Resource(target).Get(context.Background())
	if err != nil {
		var clientErr *httpstream.ClientError
		var serverErr *httpstream.ServerError
		switch {
		case errors.As(err, &clientErr):
			clientErr.Response.Close()
		case errors.As(err, &serverErr):
			serverErr.Response.Close()
		}
		fatalError("%s", err)
	}
	defer res.Close()

	buf := make([]byte, cfg.ChunkSize)

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fatalError("%s", err)
		}
		if _, err := io.CopyBuffer(f, res, buf); err != nil {
			fatalError("cannot write %s: %s", outputFile, err)
		}
		if err := f.Close(); err != nil {
			fatalError("cannot write %s: %s", outputFile, err)
		}
		return
	}

	var colors *palette
	switch colorMode {
	case "always":
		colors = &defaultPalette
	case "never":
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			colors = &defaultPalette
		}
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	var stdout io.Writer = os.Stdout
	if colors != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	switch {
	case res.IsJSON():
		if err := printJSON(out, res, colors, cfg.ChunkSize); err != nil {
			out.Flush()
			fatalError("error while reading response: %s", err)
		}
	case res.IsText():
		lines := res.Lines()
		for {
			line, err := lines.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				out.Flush()
				fatalError("error while reading response: %s", err)
			}
			fmt.Fprintln(out, line)
		}
	default:
		if _, err := io.CopyBuffer(out, res, buf); err != nil {
			out.Flush()
			fatalError("error while reading response: %s", err)
		}
	}
}

func fatalError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `hs - streaming HTTP client

USAGE:
  hs [options] URI

OPTIONS:
  -o FILE       Write the response body to FILE instead of stdout
  -H HEADER     Extra header in 'Name: value' format (repeatable)
  -config FILE  Path to a YAML configuration file
  -color MODE   Control color output: auto, always, never (default: auto)
  -v            Log requests and responses to stderr

EXAMPLES:
  # Pretty-print a JSON API response as it arrives
  hs https://api.example.com/things

  # Download a file
  hs -o report.pdf https://example.com/report.pdf

  # Send an authorization header
  hs -H 'Authorization: Bearer TOKEN' https://api.example.com/me
`)
}

var (
	reset      = []byte("\033[0m")
	yellow     = []byte("\033[33m")
	white      = []byte("\033[37m")
	green      = []byte("\033[32m")
	dimWhite   = []byte("\033[37;2m")
	brightBlue = []byte("\033[34;1m")
)

type palette struct {
	key    []byte
	scalar [4][]byte
	reset  []byte
}

var defaultPalette = palette{
	key:    brightBlue,
	scalar: [4][]byte{dimWhite, yellow, white, green},
	reset:  reset,
}

// printJSON renders the lexical token stream of r as indented JSON,
// writing as tokens arrive rather than waiting for the whole document.
func printJSON(w *bufio.Writer, r io.Reader, colors *palette, chunkSize int) error {
	p := jsonPrinter{w: w, colors: colors}
	lex := jsonstream.NewLexerSize(r, chunkSize)
	for {
		tok, err := lex.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		p.print(tok)
	}
	w.WriteByte('\n')
	return nil
}

type jsonPrinter struct {
	w           *bufio.Writer
	colors      *palette
	stack       []byte
	expectKey   bool
	pendingOpen bool
}

func (p *jsonPrinter) print(tok token.Token) {
	switch t := tok.(type) {
	case *token.ObjectOpen:
		p.beforeValue()
		p.w.WriteByte('{')
		p.stack = append(p.stack, '{')
		p.pendingOpen = true
		p.expectKey = true
	case *token.ArrayOpen:
		p.beforeValue()
		p.w.WriteByte('[')
		p.stack = append(p.stack, '[')
		p.pendingOpen = true
	case *token.ObjectClose, *token.ArrayClose:
		p.stack = p.stack[:len(p.stack)-1]
		if p.pendingOpen {
			p.pendingOpen = false
		} else {
			p.indent()
		}
		if _, ok := t.(*token.ObjectClose); ok {
			p.w.WriteByte('}')
		} else {
			p.w.WriteByte(']')
		}
	case *token.Colon:
		p.w.WriteString(": ")
		p.expectKey = false
	case *token.Comma:
		p.w.WriteByte(',')
		p.indent()
		if len(p.stack) > 0 && p.stack[len(p.stack)-1] == '{' {
			p.expectKey = true
		}
	case *token.Scalar:
		p.beforeValue()
		p.printScalar(t)
	}
}

func (p *jsonPrinter) beforeValue() {
	if p.pendingOpen {
		p.pendingOpen = false
		p.indent()
	}
}

func (p *jsonPrinter) indent() {
	p.w.WriteByte('\n')
	for range p.stack {
		p.w.WriteString("  ")
	}
}

func (p *jsonPrinter) printScalar(s *token.Scalar) {
	if p.colors != nil {
		if p.expectKey && s.Type == token.String {
			p.w.Write(p.colors.key)
		} else {
			p.w.Write(p.colors.scalar[s.Type])
		}
	}
	p.w.Write(s.Bytes)
	if p.colors != nil {
		p.w.Write(p.colors.reset)
	}
}
