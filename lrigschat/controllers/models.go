// lrigschat/controllers/models.go
package controllers

import (
	"context"

	"lrigschat/lrigschat/config"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/logging"

	"go.uber.org/zap"
)

type ModelsController struct {
	client *mistral.Client
	cfg    config.Config
}

func NewModelsController(client *mistral.Client, cfg config.Config) *ModelsController {
	return &ModelsController{client: client, cfg: cfg}
}

// List asks the provider for its model ids and falls back to the
// configured catalog when the provider is unreachable.
func (c *ModelsController) List(ctx context.Context) types.ModelCatalog {
	models, err := c.client.ListModels(ctx)
	if err != nil {
		logging.AppLogger.Warn("model list unavailable, using configured catalog",
			zap.String("kind", mistral.ErrorKind(err)), zap.Error(err))
		models = c.cfg.AvailableModels
	}
	return types.ModelCatalog{Models: models, Default: c.cfg.DefaultModel}
}
