package runner

import "errors"

// ErrNilPipeline — запуск без pipeline.
var ErrNilPipeline = errors.New("pipeline is nil")
