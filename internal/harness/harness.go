package harness

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/docproof/internal/example"
	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/reference"
	"github.com/nao1215/docproof/internal/signature"
	"github.com/nao1215/docproof/internal/tags"
)

// DefaultExtension is the file extension of materialized units.
const DefaultExtension = ".ts"

// Harness runs the verification checks over a project.
type Harness struct {
	runner        Runner
	materializer  *example.Materializer
	analyzer      *signature.Analyzer
	logger        *slog.Logger
	concurrency   int
	extension     string
	sandboxParent string
	callPrefix    string
	apiRoot       string
	validatorOpts []reference.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithConcurrency sets how many callables are verified at once.
func WithConcurrency(n int) Option {
	return func(h *Harness) {
		h.concurrency = n
	}
}

// WithExtension sets the file extension of materialized units.
func WithExtension(ext string) Option {
	return func(h *Harness) {
		h.extension = ext
	}
}

// WithSandboxParent sets the directory the sandbox is created in. Relative
// entry module imports resolve from <parent>/<sandbox>/<module>/.
func WithSandboxParent(dir string) Option {
	return func(h *Harness) {
		h.sandboxParent = dir
	}
}

// WithCallPrefix sets the prefix of references, e.g. "faker.".
func WithCallPrefix(prefix string) Option {
	return func(h *Harness) {
		h.callPrefix = prefix
	}
}

// WithAPIRoot sets the path prefix of API page links.
func WithAPIRoot(root string) Option {
	return func(h *Harness) {
		h.apiRoot = root
	}
}

// WithValidatorOptions passes options to the reference validator.
func WithValidatorOptions(opts ...reference.Option) Option {
	return func(h *Harness) {
		h.validatorOpts = append(h.validatorOpts, opts...)
	}
}

// New returns a Harness executing units with runner.
func New(runner Runner, materializer *example.Materializer, analyzer *signature.Analyzer, opts ...Option) *Harness {
	h := &Harness{
		runner:       runner,
		materializer: materializer,
		analyzer:     analyzer,
		concurrency:  runtime.NumCPU(),
		extension:    DefaultExtension,
		callPrefix:   signature.DefaultCallPrefix,
		apiRoot:      reference.DefaultAPIRoot,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.concurrency <= 0 {
		h.concurrency = 1
	}
	return h
}

// callable is one module method scheduled for verification.
type callable struct {
	module string
	method *model.Method
}

// Run verifies every module method of project. Class, randomizer and
// utility methods are documented on pages but are not callable through a
// module, so they are not verified. Run returns an error only for
// structural failures and cancellation; check failures are in the report.
func (h *Harness) Run(ctx context.Context, project *model.Project) (*model.VerificationReport, error) {
	if project == nil {
		return nil, ErrNilProject
	}

	start := time.Now()
	report := &model.VerificationReport{
		RunID:     xid.New().String(),
		Project:   project.Name,
		StartedAt: start,
	}

	sets := reference.NewSetsWithRoot(project.Modules, h.callPrefix, h.apiRoot)
	validator := reference.NewValidator(sets, append([]reference.Option{
		reference.WithAPIRoot(h.apiRoot),
		reference.WithCallPrefix(h.callPrefix),
	}, h.validatorOpts...)...)

	box, err := newSandbox(h.sandboxParent)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := box.Close(); err != nil {
			h.logger.Warn("failed to remove example sandbox", "dir", box.root, "error", err)
		}
	}()

	callables := collectCallables(project)
	results := make([]*model.CallableResult, len(callables))

	h.logger.Info("verification started",
		"run_id", report.RunID,
		"callables", len(callables),
		"concurrency", h.concurrency,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, c := range callables {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := h.verify(gctx, box, validator, c)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Callables = results
	report.Duration = time.Since(start)

	h.logger.Info("verification finished",
		"run_id", report.RunID,
		"failed", report.FailedCount(),
		"violations", len(report.Violations()),
		"duration", report.Duration,
	)
	return report, nil
}

// collectCallables lists module methods sorted by module field name, then
// method name.
func collectCallables(project *model.Project) []callable {
	modules := make([]*model.Module, len(project.Modules))
	copy(modules, project.Modules)
	sort.SliceStable(modules, func(i, j int) bool {
		return tags.ExtractModuleFieldName(modules[i]) < tags.ExtractModuleFieldName(modules[j])
	})

	var out []callable
	for _, m := range modules {
		field := tags.ExtractModuleFieldName(m)
		for _, name := range m.MethodNames() {
			out = append(out, callable{module: field, method: m.Method(name)})
		}
	}
	return out
}

func (h *Harness) transition(res *model.CallableResult, to model.CallableState) {
	h.logger.Debug("callable state changed",
		"module", res.Module,
		"method", res.Method,
		"from", res.State,
		"to", to,
	)
	res.State = to
}
