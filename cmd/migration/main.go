package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hugohenrick/erp-estoque/internal/config"
	"github.com/hugohenrick/erp-estoque/internal/infrastructure/database"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	command := flag.String("command", "up", "up, down ou version")
	flag.Parse()

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("APP_ENV"),
		ServiceName: "erp-estoque-migration",
	})
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}

	if err := run(*command, config.LoadPostgres(), appLogger); err != nil {
		appLogger.Error("erro ao executar migrações", "command", *command, "error", err.Error())
		_ = appLogger.Sync()
		os.Exit(1)
	}
	_ = appLogger.Sync()
}

func run(command string, pg config.PostgresConfig, appLogger logger.Logger) error {
	migrator, err := database.NewMigrator(pg.ConnectionString(), appLogger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		appLogger.Info("versão do esquema", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("comando desconhecido: %q", command)
	}
}
