package main

import (
	"context"
	"errors"
	"log"
	"os"

	"flowtasks/internal/db"
	"flowtasks/internal/domain"
	"flowtasks/internal/repository"
	"flowtasks/internal/service"
)

// Seeds a demo user and project for local development and prints a token.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	ctx := context.Background()
	pool := db.Connect(ctx, dsn)
	defer pool.Close()

	service.InitJWT(secret, 0)

	users := repository.NewUserRepository(pool)
	auth := service.NewAuthService(users)

	user, err := users.GetByEmail(ctx, "demo@flowtasks.local")
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Fatalf("lookup user: %v", err)
		}
		result, err := auth.Register(ctx, service.RegisterRequest{
			Email:     "demo@flowtasks.local",
			Password:  "demo-password",
			FirstName: "Demo",
			LastName:  "User",
		})
		if err != nil {
			log.Fatalf("create user: %v", err)
		}
		user = result.User
		log.Printf("user created id=%s\n", user.ID)
	} else {
		log.Printf("user already exists id=%s\n", user.ID)
	}

	projects := repository.NewProjectRepository(pool)
	members := repository.NewMemberRepository(pool)
	projectSvc := service.NewProjectService(projects, members)

	existing, err := projects.ListByUser(ctx, user.ID)
	if err != nil {
		log.Fatalf("list projects: %v", err)
	}
	if len(existing) == 0 {
		desc := "Seeded demo project"
		project, err := projectSvc.Create(ctx, user.ID, service.CreateProjectRequest{
			Key:         "DEMO",
			Name:        "Demo Project",
			Description: &desc,
		})
		if err != nil {
			log.Fatalf("create project: %v", err)
		}
		log.Printf("project created id=%s key=%s\n", project.ID, project.Key)
	} else {
		log.Printf("user already has %d project(s)\n", len(existing))
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
