// createuser 在命令行创建账号，常用于初始化第一个超级管理员
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"skill_tracker_backend/internal/app"
	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/database"
	"skill_tracker_backend/pkg/logger"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	username := flag.String("username", "", "用户名")
	email := flag.String("email", "", "邮箱，可为空")
	password := flag.String("password", "", "密码，为空时读取环境变量 SKILL_TRACKER_PASSWORD")
	staff := flag.Bool("staff", false, "是否为 staff")
	superuser := flag.Bool("superuser", false, "是否为超级管理员")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	application := app.New(cfg, db, nil)
	ctx := context.Background()
	if err := application.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to provision permissions: %v", err)
	}

	pwd := *password
	if pwd == "" {
		pwd = os.Getenv("SKILL_TRACKER_PASSWORD")
	}

	user, err := application.Accounts().CreateAccount(ctx, validation.NewAccountForm{
		Username:    *username,
		Email:       *email,
		Password:    pwd,
		IsStaff:     *staff || *superuser,
		IsSuperuser: *superuser,
	})
	if err != nil {
		if verr, ok := validation.As(err); ok {
			printErrors(verr.Fields)
			os.Exit(2)
		}
		log.Fatalf("Failed to create account: %v", err)
	}

	fmt.Printf("created %s (id=%d)\n", user.Username, user.ID)
}

func printErrors(errs validation.Errors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(os.Stderr, "%s: %s\n", f, strings.Join(errs[f], " "))
	}
}
