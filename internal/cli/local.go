package cli

import (
	"log/slog"

	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/executors"
	"github.com/shaiso/Cardflow/internal/runner"
)

// Local — встроенный движок для команд, работающих без API.
type Local struct {
	Catalog *catalog.Catalog
	Runner  *runner.Runner
}

// NewLocal собирает встроенный каталог и движок.
// История, кэш и события не подключаются.
func NewLocal(logger *slog.Logger, maxItems int) *Local {
	cat := catalog.Default()

	eng := engine.New(engine.Config{
		Definitions: cat,
		Executors:   executors.Default(executors.Config{MaxItems: maxItems}),
		Logger:      logger,
	})

	return &Local{
		Catalog: cat,
		Runner:  runner.New(runner.Config{Engine: eng, Logger: logger}),
	}
}
