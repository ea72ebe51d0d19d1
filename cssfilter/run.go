package cssfilter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"qstools/config"
	"qstools/css"
	"qstools/state"
	"qstools/utils/debug"
	"qstools/utils/files"
)

// Run is cleancss subcommand action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("cssfilter")

	arg := cmd.Args().Get(0)
	if len(arg) == 0 {
		return errors.New("no input source has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")

	if cp := cmd.String("charset"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Converting stylesheet from specified character set", zap.String("charset", n))
		}
	}

	src, err := ResolveSource(ctx, arg)
	if err != nil {
		return err
	}
	dst, err := src.Destination(cmd.Args().Get(1), env.Cfg.CSS.OutputSuffix)
	if err != nil {
		return err
	}

	p := NewProcessor(env, log)
	if _, err := p.Process(ctx, src, dst); err != nil {
		return err
	}

	if !cmd.Bool("watch") {
		return nil
	}
	if src.InArchive() {
		log.Warn("Watching stylesheets inside archives is not supported, watching archive itself", zap.String("archive", src.Path))
	}
	// following runs must be able to replace previous result
	env.Overwrite = true
	return Watch(ctx, src.Path, func() error {
		_, err := p.Process(ctx, src, dst)
		return err
	}, log)
}

// Processor filters stylesheet from source into destination using rules
// from program configuration.
type Processor struct {
	env       *state.LocalEnv
	rules     *Rules
	inspector *css.Inspector
	log       *zap.Logger
	runs      int
}

func NewProcessor(env *state.LocalEnv, log *zap.Logger) *Processor {
	p := &Processor{
		env:   env,
		rules: RulesFromConfig(&env.Cfg.CSS),
		log:   log,
	}
	if env.Cfg.CSS.Inspect {
		p.inspector = css.NewInspector(log)
	}
	return p
}

// Process runs single filtering pass. Nothing is written when any step
// fails.
func (p *Processor) Process(ctx context.Context, src *Source, dst string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.runs++

	p.log.Info("Processing starting", zap.Stringer("source", src), zap.String("destination", dst))
	start := time.Now()

	data, enc, err := src.Read(p.env.CodePage)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet: %w", err)
	}

	res := Filter(data, p.rules)

	// result goes out in the same character set
	out := res.Output
	if enc != nil {
		if out, err = enc.NewEncoder().Bytes(out); err != nil {
			return nil, fmt.Errorf("unable to encode stylesheet: %w", err)
		}
	}
	if err := files.WriteFile(dst, out, p.env.Overwrite, p.log); err != nil {
		return nil, err
	}

	p.log.Info("Processing completed",
		zap.Int("original", res.Original),
		zap.Int("kept", res.Kept),
		zap.Int("removed", res.Removed),
		zap.Int("blocks removed", res.RemovedBlocks()),
		zap.Duration("elapsed", time.Since(start)))

	if p.inspector != nil {
		p.inspect(data, res)
	}
	if p.env.Rpt != nil {
		p.report(src, data, dst, res)
	}
	return res, nil
}

// inspect lexes input and output and complains about anything filtering may
// have broken.
func (p *Processor) inspect(input []byte, res *Result) {
	before, after := p.inspector.Inspect(input), p.inspector.Inspect(res.Output)

	p.log.Debug("Stylesheet inspected",
		zap.Int("rulesets before", before.Rulesets), zap.Int("rulesets after", after.Rulesets),
		zap.Int("at-rules before", before.AtRules), zap.Int("at-rules after", after.AtRules))

	if after.Err != nil && before.Err == nil {
		p.log.Warn("Filtered stylesheet does not parse cleanly", zap.Error(after.Err))
	}

	if p.rules.Scope != config.MatchScopeSelector {
		return
	}
	var markers []string
	for _, r := range p.rules.Rules {
		if remove, _ := p.rules.Classify(r.Marker); remove {
			markers = append(markers, r.Marker)
		}
	}
	for _, sel := range after.Matching(markers...) {
		if remove, marker := p.rules.Classify(sel); remove {
			p.log.Warn("Selector matching removal rule survived filtering", zap.String("selector", sel), zap.String("marker", marker))
		}
	}
}

// report stores filtering artifacts into debug report.
func (p *Processor) report(src *Source, input []byte, dst string, res *Result) {
	prefix := "cleancss/"
	if p.runs > 1 {
		prefix = fmt.Sprintf("cleancss/run-%d/", p.runs)
	}
	p.env.Rpt.StoreData(prefix+"input/"+src.Name(), input)
	p.env.Rpt.Store(prefix+"output/"+filepath.Base(dst), dst)
	p.env.Rpt.StoreData(prefix+"blocks.txt", DumpBlocks(src, res))
}

// DumpBlocks renders block classification as indented text.
func DumpBlocks(src fmt.Stringer, res *Result) []byte {
	tw := debug.NewTreeWriter()
	tw.Line(0, "source %s", src)
	tw.Fields(1, "original", res.Original, "kept", res.Kept, "removed", res.Removed)
	for _, b := range res.Blocks {
		action := "kept"
		switch {
		case b.Section:
			action = "section dropped"
		case b.Removed:
			action = "removed"
		}
		tw.Line(1, "line %d: %s", b.Line, action)
		tw.TextBlock(2, "header", b.Header)
		if len(b.Marker) > 0 || b.Removed {
			tw.Fields(2, "marker", b.Marker, "dropped", b.Dropped)
		}
	}
	return tw.Bytes()
}
