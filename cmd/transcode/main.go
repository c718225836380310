package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/serialization/encoding"
	"github.com/wippyai/serialization/value"
)

func main() {
	var (
		typeName    = flag.String("type", "", "Type to decode the input as (int, string[], ...); empty keeps the input shape")
		inFile      = flag.String("in", "", "Input YAML or JSON file (default stdin)")
		maxDepth    = flag.Int("depth", encoding.DefaultMaxDepth, "Maximum nesting depth")
		compact     = flag.Bool("compact", false, "Print compact JSON even on a terminal")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			encoding.SetLogger(logger)
			defer logger.Sync() //nolint:errcheck
		}
	}

	r := encoding.NewDefaultRegistry(encoding.WithMaxDepth(*maxDepth))

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(r, *typeName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	indent := !*compact && term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(r, *inFile, *typeName, indent, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(r *encoding.Registry, inFile, typeName string, indent bool, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if inFile == "" || inFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(inFile)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out, err := transcode(r, data, typeName)
	if err != nil {
		return err
	}

	rendered, err := render(out, indent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

// transcode parses YAML or JSON input, decodes it as typeName when one is
// given, and encodes the result back to a generic value.
func transcode(r *encoding.Registry, data []byte, typeName string) (any, error) {
	parsed, err := value.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	decoded := parsed
	if typeName != "" {
		if decoded, err = r.Decode(parsed, typeName); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}

	encoded, err := r.Encode(decoded)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return encoded, nil
}

func render(v any, indent bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return string(b), nil
}
