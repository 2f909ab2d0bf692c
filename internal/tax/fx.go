package tax

import (
	"github.com/smj9504/mj-estimate/internal/tax/repository"
	"github.com/smj9504/mj-estimate/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
