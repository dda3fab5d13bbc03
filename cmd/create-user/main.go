package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/noah-isme/creche-api/internal/models"
	"github.com/noah-isme/creche-api/internal/repository"
	"github.com/noah-isme/creche-api/pkg/config"
	"github.com/noah-isme/creche-api/pkg/database"
	"github.com/noah-isme/creche-api/pkg/logger"
	"github.com/noah-isme/creche-api/pkg/validation"
)

type newAccount struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"oneof=professor colaborador"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Create staff user ===")

	account := newAccount{
		Email: prompt(reader, "Email: "),
		Name:  prompt(reader, "Name: "),
	}
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		logr.Fatal("failed to read password", zap.Error(err))
	}
	account.Password = string(password)
	account.Role = prompt(reader, "Role [professor|colaborador] (default colaborador): ")
	if account.Role == "" {
		account.Role = string(models.RoleColaborador)
	}

	validate := validation.New()
	if err := validate.Struct(account); err != nil {
		for field, msg := range validate.Translate(err) {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		logr.Fatal("failed to hash password", zap.Error(err))
	}

	identity := &models.Identity{Email: account.Email, PasswordHash: string(hash)}
	user := &models.User{Name: account.Name, Role: models.UserRole(account.Role)}
	if err := repository.NewIdentityRepository(db).CreateAccount(ctx, identity, user); err != nil {
		logr.Fatal("failed to create user", zap.Error(err))
	}

	fmt.Printf("\nCreated %s (%s) as %s with id %s\n", user.Name, user.Email, user.Role, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
