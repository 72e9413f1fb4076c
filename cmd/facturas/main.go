package main

import (
	"fmt"
	"os"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/cli"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/config"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	// Los logs van a stderr; stdout queda para el JSON de salida.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	cli.Execute(cfg, log)
}
