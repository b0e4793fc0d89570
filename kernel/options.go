package kernel

// maestroOptions holds configuration applied at Maestro creation.
type maestroOptions struct {
	logger        *Logger
	resourceModel ResourceModel
}

// MaestroOption configures a Maestro instance.
type MaestroOption interface {
	applyMaestro(*maestroOptions)
}

type maestroOptionFunc func(*maestroOptions)

func (f maestroOptionFunc) applyMaestro(o *maestroOptions) { f(o) }

// WithLogger sets the structured logger maestro reports lifecycle
// events through. Defaults to NewDefaultLogger.
func WithLogger(l *Logger) MaestroOption {
	return maestroOptionFunc(func(o *maestroOptions) { o.logger = l })
}

// WithResourceModel overrides the default single-speed resource model,
// e.g. with a replay-friendly or externally driven implementation.
func WithResourceModel(rm ResourceModel) MaestroOption {
	return maestroOptionFunc(func(o *maestroOptions) { o.resourceModel = rm })
}

func resolveMaestroOptions(opts []MaestroOption) *maestroOptions {
	cfg := &maestroOptions{}
	for _, o := range opts {
		if o != nil {
			o.applyMaestro(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = NewDefaultLogger()
	}
	if cfg.resourceModel == nil {
		cfg.resourceModel = NewDefaultResourceModel(1, 8)
	}
	return cfg
}
