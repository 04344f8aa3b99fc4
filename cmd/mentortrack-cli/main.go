package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/repository"
	"github.com/noah-isme/mentortrack-api/internal/service"
	"github.com/noah-isme/mentortrack-api/migrations"
	"github.com/noah-isme/mentortrack-api/pkg/config"
	"github.com/noah-isme/mentortrack-api/pkg/database"
	"github.com/noah-isme/mentortrack-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "mentortrack-cli",
		Usage: "operator tasks for the MentorTrack database",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "manage the schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply pending migrations", Action: migrate(func(ctx context.Context, m *database.Migrator) error { return m.Up(ctx) })},
					{Name: "down", Usage: "roll back the latest migration", Action: migrate(func(ctx context.Context, m *database.Migrator) error { return m.Down(ctx) })},
					{Name: "status", Usage: "print migration status", Action: migrate(func(ctx context.Context, m *database.Migrator) error { return m.Status(ctx) })},
				},
			},
			{
				Name:  "create-admin",
				Usage: "create an admin account or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					return withProvisioning(c, func(svc *service.ProvisioningService) error {
						result, err := svc.EnsureAdmin(c.Context, dto.ProvisionAdminRequest{Email: c.String("email"), Password: c.String("password")})
						if err != nil {
							return err
						}
						switch {
						case result.UserCreated:
							fmt.Fprintf(c.App.Writer, "created admin %s (user %s)\n", c.String("email"), result.UserID)
						case result.RoleChanged:
							fmt.Fprintf(c.App.Writer, "promoted %s to admin and reset password\n", c.String("email"))
						default:
							fmt.Fprintf(c.App.Writer, "%s is already admin, password reset\n", c.String("email"))
						}
						return nil
					})
				},
			},
			{
				Name:  "ensure-parent",
				Usage: "make an existing account a working parent login",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "name", Usage: "profile name when one has to be created"},
					&cli.StringFlag{Name: "password", Usage: "reset the password as well"},
				},
				Action: func(c *cli.Context) error {
					return withProvisioning(c, func(svc *service.ProvisioningService) error {
						result, err := svc.EnsureParent(c.Context, dto.EnsureParentRequest{
							Email:    c.String("email"),
							Name:     c.String("name"),
							Password: c.String("password"),
						})
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "parent %s: user=%s profile=%s role_changed=%t profile_created=%t\n",
							c.String("email"), result.UserID, result.ProfileID, result.RoleChanged, result.ProfileCreated)
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func connect(c *cli.Context) (*sqlx.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.Connect(c.Context, cfg.Database, logr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db, logr, nil
}

func migrate(run func(ctx context.Context, m *database.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, logr, err := connect(c)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck
		defer logr.Sync() //nolint:errcheck

		m := database.NewMigrator(db.DB, migrations.FS)
		if err := run(c.Context, m); err != nil {
			return err
		}
		version, err := m.Version(c.Context)
		if err != nil {
			return err
		}
		logr.Info("schema version", zap.Int64("version", version))
		return nil
	}
}

func withProvisioning(c *cli.Context, run func(svc *service.ProvisioningService) error) error {
	db, logr, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck
	defer logr.Sync() //nolint:errcheck

	svc := service.NewProvisioningService(db, repository.NewUserRepository(db), repository.NewParentRepository(db), nil, logr)
	return run(svc)
}
