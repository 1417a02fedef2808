// Seed script for creating demo data through the SUMP API.
// Run with: go run ./scripts/seed.go
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment
	envFile := os.Getenv("CONSOLE_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	ctx := context.Background()

	client, err := apiclient.New(os.Getenv("API_URL"), nil)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	fmt.Printf("Seeding %s\n", client.BaseURL())

	password := generatePassword()
	props := domain.NewProperties()
	props.Set("plan", domain.StringValue("trial"))
	props.Set("seats", domain.NumberValue(25))

	created, err := client.CreateTenant(ctx, domain.CreateTenantRequest{
		Tenant: domain.NewTenant{Name: "Demo Tenant", CustomProperties: &props},
		Account: domain.NewOwnerAccount{
			Name:     "Demo Owner",
			Email:    "owner@demo.example",
			Username: "demo-owner",
			Password: password,
		},
		Environment: &domain.CreateEnvironmentRequest{Name: "production"},
	})
	if err != nil {
		log.Fatalf("Failed to create tenant: %v", err)
	}
	fmt.Printf("Created tenant: %s\n", created.TenantID)
	fmt.Printf("Owner login: demo-owner / %s\n", password)
	fmt.Println("(Save this password - it cannot be retrieved later)")

	envIDs := map[string]string{"production": created.EnvironmentID}
	for _, name := range []string{"staging", "development"} {
		env, err := client.CreateEnvironment(ctx, created.TenantID, domain.CreateEnvironmentRequest{Name: name})
		if err != nil {
			log.Printf("Warning: Failed to create environment %s: %v", name, err)
			continue
		}
		envIDs[name] = env.ID
		fmt.Printf("Created environment [%s]: %s\n", name, env.ID)
	}

	users := []struct {
		env      string
		name     string
		username string
		tier     string
	}{
		{"production", "Ada Lovelace", "ada", "gold"},
		{"production", "Grace Hopper", "grace", "silver"},
		{"staging", "Alan Turing", "alan", "bronze"},
		{"development", "Edsger Dijkstra", "edsger", "bronze"},
	}

	for _, u := range users {
		envID, ok := envIDs[u.env]
		if !ok {
			continue
		}
		userProps := domain.NewProperties()
		userProps.Set("tier", domain.StringValue(u.tier))
		acc, err := client.CreateUser(ctx, envID, domain.CreateEnvironmentAccountRequest{
			Name:             u.name,
			Email:            u.username + "@demo.example",
			Username:         u.username,
			Password:         generatePassword(),
			CustomProperties: &userProps,
		})
		if err != nil {
			log.Printf("Warning: Failed to create user %s: %v", u.username, err)
			continue
		}
		fmt.Printf("Created user [%s]: %s (%s)\n", u.env, acc.Username, acc.ID)
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Println("\nTo sign in, open the console and use:")
	fmt.Printf("tenant %s, username demo-owner\n", created.TenantID)
	fmt.Println("\nOr from a terminal:")
	fmt.Printf("consolectl tenant use %s && consolectl login demo-owner\n", created.TenantID)
}

func generatePassword() string {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate password: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
