package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a zap logger. "prod" and "production" select the JSON encoder
// at info level; anything else gets the development console encoder.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build(zap.Fields(zap.String("service", "api_sales")))
}
