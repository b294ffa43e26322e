// Command annotate adds zhuyin ruby annotations to a local HTML or XML file
// without running the server. The learned-characters file is read, never
// written.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/heartmarshall/zhuyin-highlighter/internal/app"
	"github.com/heartmarshall/zhuyin-highlighter/internal/config"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
	"github.com/heartmarshall/zhuyin-highlighter/internal/learned"
	"github.com/heartmarshall/zhuyin-highlighter/internal/reading"
	"github.com/heartmarshall/zhuyin-highlighter/internal/service/highlighter"
)

// CLI defines the command-line interface for annotate.
var CLI struct {
	Globals `embed:""`

	HTML    DocumentCmd `cmd:"" name:"html" help:"Annotate an HTML document"`
	XML     DocumentCmd `cmd:"" name:"xml" help:"Annotate a well-formed XML or XHTML document"`
	Lookup  LookupCmd   `cmd:"" help:"Print the reading of a character"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// Globals are the flags shared by every command.
type Globals struct {
	Dataset  string        `name:"dataset" short:"d" help:"Reading dataset: path, http(s) URL or gs:// URL" env:"DATASET_SOURCE" default:"./characters.json"`
	Learned  string        `name:"learned" short:"l" help:"JSON array of learned characters" type:"existingfile"`
	Timeout  time.Duration `name:"timeout" help:"Dataset fetch timeout" default:"60s"`
	LogLevel string        `name:"log-level" help:"debug, info, warn or error" default:"warn"`
}

// DocumentCmd annotates one document.
type DocumentCmd struct {
	Path        string `arg:"" optional:"" help:"Input file, or - for stdin" default:"-"`
	Out         string `name:"out" short:"o" help:"Output file (default stdout)"`
	Orientation string `name:"orientation" help:"vertical-right, horizontal-above or horizontal-below" default:"horizontal-above" enum:"vertical-right,horizontal-above,horizontal-below"`
}

// LookupCmd prints one character's reading and learned state.
type LookupCmd struct {
	Character string `arg:"" help:"A single character"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(app.BuildVersion())
	return nil
}

func (c *DocumentCmd) Run(kctx *kong.Context) error {
	return c.run(context.Background(), CLI.Globals, kctx.Selected().Name)
}

func (c *DocumentCmd) run(ctx context.Context, g Globals, format string) error {
	svc, _, err := newService(ctx, g, domain.DisplayConfig{
		Enabled:     true,
		Orientation: domain.Orientation(c.Orientation),
	})
	if err != nil {
		return err
	}

	in, err := readInput(c.Path)
	if err != nil {
		return err
	}

	process := svc.ProcessHTML
	if format == highlighter.FormatXML {
		process = svc.ProcessXML
	}
	res, err := process(ctx, in)
	if err != nil {
		return err
	}

	if err := writeOutput(c.Out, res.Content); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "annotations: %d, suppressed: %d\n", res.Stats.Annotations, res.Stats.Suppressed)
	return nil
}

// Run fails when the dataset could not be loaded: an empty reading would
// be indistinguishable from a character the dataset lacks.
func (c *LookupCmd) Run() error {
	svc, loadErr, err := newService(context.Background(), CLI.Globals, domain.DefaultDisplayConfig())
	if err != nil {
		return err
	}
	if loadErr != nil {
		return fmt.Errorf("load readings from %s: %w", CLI.Dataset, loadErr)
	}
	info, err := svc.Lookup(c.Character)
	if err != nil {
		return err
	}

	r := info.Reading
	if r == "" {
		r = "(none)"
	}
	fmt.Printf("%s\t%s\tlearned=%t\n", info.Character, r, info.Learned)
	return nil
}

// newService builds a highlighter service over the dataset and learned file
// named by g. A dataset that fails to load leaves the index empty: documents
// are still annotated, with empty readings. That failure is returned as
// loadErr; err is reserved for an unusable dataset location.
func newService(ctx context.Context, g Globals, display domain.DisplayConfig) (svc *highlighter.Service, loadErr, err error) {
	logger := app.NewLogger(config.LogConfig{Level: g.LogLevel, Format: "text"})

	src, err := app.NewDatasetSource(config.DatasetConfig{Source: g.Dataset, Timeout: g.Timeout}, logger)
	if err != nil {
		return nil, nil, err
	}
	index := reading.New(logger)
	if loadErr = index.Load(ctx, src); loadErr != nil {
		logger.Warn("reading dataset unavailable, continuing without readings",
			slog.String("source", src.String()),
			slog.String("error", loadErr.Error()))
	}

	store := fileState{learnedPath: g.Learned}
	set := learned.Load(ctx, store, logger)
	return highlighter.NewService(logger, index, set, store, nil, display), loadErr, nil
}

// fileState serves the learned characters from a local file and refuses
// writes.
type fileState struct {
	learnedPath string
}

var errReadOnly = errors.New("annotate: state is read-only")

func (s fileState) Get(_ context.Context, key string) ([]byte, error) {
	if key != learned.StateKey || s.learnedPath == "" {
		return nil, domain.ErrNotFound
	}
	return os.ReadFile(s.learnedPath)
}

func (s fileState) Put(context.Context, string, []byte) error {
	return errReadOnly
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("annotate"),
		kong.Description("Add zhuyin ruby annotations to HTML or XML documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err := ctx.Run(); err != nil {
		slog.Error("annotate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
