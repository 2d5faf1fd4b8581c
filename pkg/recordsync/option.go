package recordsync

type Option interface {
	apply(*RecordSync)
}

type optionFunc func(*RecordSync)

func (o optionFunc) apply(c *RecordSync) {
	o(c)
}

func WithLogger(logger LoggerInterface) Option {
	return optionFunc(func(a *RecordSync) {
		a.logger = logger
	})
}

func WithConfig(config ConfigInterface) Option {
	return optionFunc(func(a *RecordSync) {
		a.config = config
	})
}

func WithMetrics(metric MetricInterface) Option {
	return optionFunc(func(a *RecordSync) {
		a.metric = metric
	})
}
