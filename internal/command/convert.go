// Package command implements program subcommands.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/internal/config"
	"github.com/jorres/draft2pm/internal/state"
	"github.com/jorres/draft2pm/pm"
)

// ConvertFlags are the flags of the convert subcommand. They override the
// corresponding configuration values.
func ConvertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "gjson `PATH` of the raw content inside the input document"},
		&cli.BoolFlag{Name: "compact", Usage: "produce compact JSON"},
		&cli.BoolFlag{Name: "unmatched", Aliases: []string{"u"}, Usage: "wrap output as {\"doc\": ..., \"unmatched\": ...}"},
		&cli.StringFlag{Name: "validate", Usage: "integrity checks `MODE` (off, warn, fail)"},
	}
}

type convertOptions struct {
	path      string
	indent    string
	unmatched bool
	validate  string
}

var errNoConfig = errors.New("configuration has not been loaded")

func optionsFromCommand(cfg *config.Config, cmd *cli.Command) convertOptions {
	opts := convertOptions{
		path:      cfg.Input.Path,
		indent:    cfg.Output.Indent,
		unmatched: cfg.Output.Unmatched,
		validate:  cfg.Input.Validate,
	}
	if cmd.IsSet("path") {
		opts.path = cmd.String("path")
	}
	if cmd.Bool("compact") {
		opts.indent = ""
	}
	if cmd.IsSet("unmatched") {
		opts.unmatched = cmd.Bool("unmatched")
	}
	if cmd.IsSet("validate") {
		opts.validate = cmd.String("validate")
	}
	return opts
}

// Convert reads Draft.js raw content from SOURCE (a file, or STDIN when
// absent or "-") and writes the ProseMirror document to DESTINATION (STDOUT
// when absent).
func Convert(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	if env.Cfg == nil || env.Log == nil {
		return errNoConfig
	}
	log := env.Log.Named("convert")

	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	opts := optionsFromCommand(env.Cfg, cmd)
	switch opts.validate {
	case config.ValidateOff, config.ValidateWarn, config.ValidateFail:
	default:
		return fmt.Errorf("unknown validation mode '%s'", opts.validate)
	}

	var in io.Reader = os.Stdin
	src := cmd.Args().Get(0)
	if len(src) > 0 && src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("unable to open source file '%s': %w", src, err)
		}
		defer f.Close()
		in = f
	} else {
		src = "STDIN"
	}

	var out io.Writer = os.Stdout
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer multierr.AppendInvoke(&err, multierr.Close(f))
		out = f
	} else {
		dst = "STDOUT"
	}

	log.Debug("Converting", zap.String("source", src), zap.String("destination", dst), zap.String("path", opts.path))
	return convert(env, log, opts, in, out)
}

func convert(env *state.LocalEnv, log *zap.Logger, opts convertOptions, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("unable to read input: %w", err)
	}
	raw, err := draft.DecodePath(data, opts.path)
	if err != nil {
		return fmt.Errorf("unable to decode input: %w", err)
	}

	if opts.validate != config.ValidateOff {
		if verr := raw.Validate(); verr != nil {
			if opts.validate == config.ValidateFail {
				return fmt.Errorf("raw content failed validation: %w", verr)
			}
			for _, e := range multierr.Errors(verr) {
				log.Warn("Raw content integrity problem", zap.Error(e))
			}
		}
	}

	res := env.Converter().Convert(raw)

	var doc any = res.Doc
	if opts.unmatched {
		doc = res
	}
	var body []byte
	if opts.indent == "" {
		body, err = json.Marshal(doc)
	} else {
		body, err = json.MarshalIndent(doc, "", opts.indent)
	}
	if err != nil {
		return fmt.Errorf("unable to encode document: %w", err)
	}
	if _, err := out.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}

	counts := pm.Count(res.Doc)
	fields := []zap.Field{zap.Int("blocks", len(raw.Blocks)), zap.Int("nodes", len(res.Doc.Content)), zap.Int("text_runs", counts[pm.NodeText])}
	if res.Unmatched.Empty() {
		log.Info("Conversion complete", fields...)
		return nil
	}
	log.Warn("Conversion complete, some content was not converted", append(fields, zap.String("unmatched", res.Unmatched.Summary()))...)
	return nil
}
