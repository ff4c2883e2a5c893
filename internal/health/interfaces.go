package health

type ConfigurationChecker interface {
	CheckConfiguration() (err error)
}

type Warner interface {
	Warn(s string)
}

type Logger interface {
	Debug(s string)
	Info(s string)
	Warn(s string)
	Error(s string)
}
