package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vkinder/config"
	"vkinder/logging"
	"vkinder/pkg/matching"
	"vkinder/pkg/vk"
	"vkinder/store"
)

var (
	appCfg       *config.Config
	logger       zerolog.Logger
	interactions *store.InteractionStore
	vkClient     matching.Client
	matcher      *matching.Service
)

func main() {
	// Auto-load ./.env if present (no external dependency) before config
	// reads the environment.
	loadDotEnv()

	cfg, err := config.Load(os.Getenv("VKINDER_CONFIG"))
	if err != nil {
		// Invalid configuration is the one fatal path in the program.
		fatalLogger := logging.Init("error", "console")
		fatalLogger.Fatal().Err(err).Msg("configuration failed")
	}
	appCfg = cfg
	logger = logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Support a lightweight migrate command: `./vkinder migrate`
	// runs AutoMigrate and exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(cfg)
		logger.Info().Msg("migration completed")
		return
	}

	initDB(cfg)

	cities := config.NewCityTable(nil)
	if cfg.Search.CityFile != "" {
		if err := cities.LoadFile(cfg.Search.CityFile); err != nil {
			logger.Fatal().Err(err).Msg("city table load failed")
		}
		stop, err := config.WatchCityFile(cfg.Search.CityFile, cities, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("city table watch failed")
		}
		defer stop()
	}

	interactions = store.New(db, logger)
	vkClient = vk.New(cfg.VK.BaseURL, cfg.VK.Token, cfg.VK.Version, logger)
	matcher = matching.NewService(
		vkClient,
		interactions,
		matching.SearchConfig{
			Count:      cfg.Search.Count,
			AgeRange:   cfg.Search.AgeRange,
			CountryID:  cfg.Search.CountryID,
			LookupCity: cities.Lookup,
		},
		matching.PhotoConfig{
			MaxPhotos: cfg.Search.MaxPhotos,
			MinLikes:  cfg.Search.MinPhotoLikes,
		},
		nil, // production shuffling uses the shared locked source
		logger,
	)

	r := gin.Default()
	setupRoutes(r)

	logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
