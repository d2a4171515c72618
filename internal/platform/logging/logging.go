package logging

import "go.uber.org/zap"

// Init builds the process-wide logger and installs it as the zap global so
// packages can use zap.L() without threading a logger through every layer.
func Init(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
