package health

func MakeIsHealthy(checker ConfigurationChecker, logger Warner) func() error {
	return func() (err error) {
		err = checker.CheckConfiguration()
		if err != nil {
			logger.Warn("unhealthy: " + err.Error())
		}
		return err
	}
}
