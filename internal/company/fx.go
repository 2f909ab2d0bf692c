package company

import (
	"github.com/smj9504/mj-estimate/internal/company/repository"
	"github.com/smj9504/mj-estimate/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
