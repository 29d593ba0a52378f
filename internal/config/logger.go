package config

import (
	"go.uber.org/zap"
)

// NewLogger returns a console logger in development and a JSON logger anywhere else.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
