package main

import (
	"flag"
	"log"
	"strings"

	"github.com/Martyparty1988/Workmm/config"
	"github.com/Martyparty1988/Workmm/database"
	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/pkg/logger"
	"github.com/Martyparty1988/Workmm/realtime"
	"github.com/Martyparty1988/Workmm/router"

	"github.com/joho/godotenv"
)

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "cesta k externímu konfiguračnímu souboru (volitelné)")
	flag.StringVar(&configFile, "c", "", "cesta ke konfiguraci (zkratka)")
	flag.StringVar(&port, "port", "", "port, např. 8080 nebo :8080")
	flag.StringVar(&port, "p", "", "port (zkratka)")
	flag.BoolVar(&showVersion, "version", false, "vypsat verzi")
	flag.BoolVar(&showVersion, "v", false, "vypsat verzi (zkratka)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("Workmm v1.0.0")
		return
	}

	// Local .env overrides, if present.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("načtení konfigurace selhalo: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	appLog := logger.New(cfg.Log.Level)

	if err := database.Init(cfg); err != nil {
		appLog.Fatalf("inicializace databáze selhala: %v", err)
	}

	middleware.InitJWT(cfg)

	hub := realtime.NewHub(appLog)

	r := router.SetupRouter(router.Deps{
		DB:  database.GetDB(),
		Cfg: cfg,
		Log: appLog,
		Hub: hub,
	})

	appLog.Infof("Workmm naslouchá na %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		appLog.Fatalf("start serveru selhal: %v", err)
	}
}
