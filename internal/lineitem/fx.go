package lineitem

import (
	"github.com/smj9504/mj-estimate/internal/lineitem/repository"
	"github.com/smj9504/mj-estimate/internal/lineitem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lineitem.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
