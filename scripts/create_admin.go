// Creates or promotes an admin account, for deployments where
// auth.allow_admin_registration is turned off.
//
// Usage: go run scripts/create_admin.go -username alice -email alice@example.com -password secret

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"softskill_backend/internal/config"
	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/pkg/database"
	"softskill_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the parts of configs/config.yaml the script needs.
type fileConfig struct {
	Database struct {
		Driver    string `yaml:"driver"`
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
		DBName    string `yaml:"dbname"`
		Charset   string `yaml:"charset"`
		ParseTime bool   `yaml:"parse_time"`
		SSLMode   string `yaml:"sslmode"`
		Path      string `yaml:"path"`
		LogLevel  string `yaml:"log_level"`
	} `yaml:"database"`
}

func main() {
	configFile := flag.String("config", "configs/config.yaml", "config file")
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password, at least 6 characters")
	flag.Parse()

	if *username == "" || *email == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*configFile)
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database = config.DatabaseConfig(fc.Database)
	cfg.Log.Level = "info"
	cfg.Log.File = "logs/create_admin.log"
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	user, err := users.FindByUsername(ctx, *username)
	switch {
	case err == nil:
		if err := users.UpdateRole(ctx, user.ID, model.Admin); err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}
		log.Printf("Promoted %s to admin", user.Username)
	case errors.Is(err, repository.ErrNotFound):
		user = &model.User{Username: *username, Email: *email, Role: model.Admin}
		if err := user.SetPassword(*password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Created admin %s", user.Username)
	default:
		log.Fatalf("Failed to look up user: %v", err)
	}
}
