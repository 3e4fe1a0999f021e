package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"

// Profiler describes a single profiling session.
type Profiler struct {
	// Mode selects what is profiled. It must be one of [Modes].
	Mode string
	// Dir is the directory profile data is written to. The working directory
	// is used when empty.
	Dir string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Option modifies a Profiler.
type Option func(Profiler) Profiler

// New returns a Profiler configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

func WithDir(dir string) Option {
	return func(p Profiler) Profiler {
		p.Dir = dir

		return p
	}
}

func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Start begins profiling and returns a handle for stopping it.
//
// Without the pprof build tag, or with an empty or unknown Mode, Start
// returns a handle whose Stop does nothing. Stop is always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
