package main

import (
	"flag"

	"go-erp-admin/internal/config"
	"go-erp-admin/internal/repository"
	"go-erp-admin/pkg/database"

	"github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("username", "", "user whose password is reset (defaults to ADMIN_USERNAME)")
	password := flag.String("password", "", "new password (defaults to ADMIN_PASSWORD)")
	activate := flag.Bool("activate", true, "also mark the user active")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := config.NewLogger(cfg)
	if *username == "" {
		*username = cfg.AdminUsername
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}
	if len(*password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer database.Close(db)

	// 3. Find user
	users := repository.NewUserRepo(db)
	user, err := users.FindByUsername(*username)
	if err != nil {
		log.WithError(err).WithField("username", *username).Fatal("user not found")
	}

	// 4. Hash and store
	if err := user.SetPassword(*password); err != nil {
		log.WithError(err).Fatal("hash password")
	}
	if err := users.UpdatePassword(user.ID, user.Password); err != nil {
		log.WithError(err).Fatal("update password")
	}
	if *activate && !user.IsActive {
		user.IsActive = true
		if err := users.Update(user); err != nil {
			log.WithError(err).Fatal("activate user")
		}
	}

	log.WithField("username", user.Username).Info("password reset")
}
