package icons

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"qstools/state"
)

// Run is icons subcommand action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("icons")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	style, err := StyleFromConfig(&env.Cfg.Icons)
	if err != nil {
		return fmt.Errorf("bad icons configuration: %w", err)
	}
	if s := cmd.String("sizes"); len(s) > 0 {
		if style.Sizes, err = parseSizes(s); err != nil {
			return err
		}
	}
	if g := cmd.String("glyph"); len(g) > 0 {
		style.Glyph = g
	}
	env.Overwrite = cmd.Bool("overwrite")
	style.Overwrite = env.Overwrite

	log.Info("Processing starting", zap.String("destination", dst), zap.Ints("sizes", style.Sizes), zap.String("glyph", style.Glyph))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	icons, err := Generate(ctx, style, dst, log)
	for _, icon := range icons {
		log.Info("Icon created", zap.String("file", icon.Path), zap.Stringer("rendering", icon.Rendering))
		if env.Rpt != nil {
			env.Rpt.Store("icons/"+filepath.Base(icon.Path), icon.Path)
		}
	}
	return err
}

// parseSizes accepts comma separated list of pixel sizes.
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for f := range strings.SplitSeq(s, ",") {
		f = strings.TrimSpace(f)
		if len(f) == 0 {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 || n > 2048 {
			return nil, fmt.Errorf("bad icon size %q", f)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no icon sizes in %q", s)
	}
	return sizes, nil
}
