package document

import (
	"github.com/smj9504/mj-estimate/internal/document/repository"
	"github.com/smj9504/mj-estimate/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
