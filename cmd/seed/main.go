package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/config"
	"github.com/natacion/clubmanager/internal/db"
	"github.com/natacion/clubmanager/internal/logger"
	"github.com/natacion/clubmanager/internal/seed"
	"github.com/natacion/clubmanager/internal/services"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "load demo clubs, categories and swimmers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "configuration file (optional)"},
			&cli.StringFlag{Name: "data", Value: "data", Usage: "directory holding clubs/, csv/ and images/faces/"},
		},
		Commands: []*cli.Command{
			{
				Name:  "clubs",
				Usage: "create clubs from <data>/clubs/clubes.json with local logos",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: seed.DefaultClubLimit, Usage: "entries of the listing to import"},
				},
				Action: withDB(func(c *cli.Context, gdb *gorm.DB, log logrus.FieldLogger) error {
					dir := filepath.Join(c.String("data"), "clubs")
					entries, err := seed.LoadClubEntries(filepath.Join(dir, "clubes.json"))
					if err != nil {
						return err
					}
					n, err := seed.Clubs(gdb, entries, dir, c.Int("limit"), log)
					if err != nil {
						return err
					}
					log.WithField("created", n).Info("clubs processed")
					return nil
				}),
			},
			{
				Name:  "categories",
				Usage: "create the standard age categories",
				Action: withDB(func(c *cli.Context, gdb *gorm.DB, log logrus.FieldLogger) error {
					cats, err := seed.Categories(gdb)
					if err != nil {
						return err
					}
					log.WithField("categories", len(cats)).Info("categories ready")
					return nil
				}),
			},
			{
				Name:  "swimmers",
				Usage: "generate random swimmers from the name frequency tables",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1000},
					&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 for a random one"},
				},
				Action: withDB(func(c *cli.Context, gdb *gorm.DB, log logrus.FieldLogger) error {
					if _, err := seed.Categories(gdb); err != nil {
						return err
					}
					g, err := newGenerator(c.String("data"), c.Uint64("seed"))
					if err != nil {
						return err
					}
					if err := g.CreateSwimmers(gdb, c.Int("count"), services.DateOnly(time.Now()), log); err != nil {
						return err
					}
					log.WithFields(logrus.Fields{"count": c.Int("count"), "faces": len(g.Faces)}).Info("swimmers created")
					return nil
				}),
			},
			{
				Name:  "assign-clubs",
				Usage: "put every swimmer without a club into one of the first clubs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: seed.DefaultClubLimit},
				},
				Action: withDB(func(c *cli.Context, gdb *gorm.DB, log logrus.FieldLogger) error {
					n, err := seed.AssignClubs(gdb, c.Int("limit"), gofakeit.New(0))
					if err != nil {
						return err
					}
					log.WithField("assigned", n).Info("swimmers assigned")
					return nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withDB(fn func(*cli.Context, *gorm.DB, logrus.FieldLogger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logr := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		gdb, err := db.Open(cfg.Database.DSN, gormlogger.Warn)
		if err != nil {
			return err
		}
		return fn(c, gdb, logr)
	}
}

func newGenerator(dataDir string, seedValue uint64) (*seed.SwimmerGenerator, error) {
	g := seed.NewSwimmerGenerator(seedValue)
	csvDir := filepath.Join(dataDir, "csv")
	var err error
	if g.Female, err = seed.LoadNames(filepath.Join(csvDir, "mujeres.csv"), "nombre", "frec"); err != nil {
		return nil, err
	}
	if g.Male, err = seed.LoadNames(filepath.Join(csvDir, "hombres.csv"), "nombre", "frec"); err != nil {
		return nil, err
	}
	if g.Surnames, err = seed.LoadNames(filepath.Join(csvDir, "apellidos.csv"), "apellido", "frec_pri"); err != nil {
		return nil, err
	}
	if err := g.LoadFaces(filepath.Join(dataDir, "images", "faces")); err != nil {
		return nil, err
	}
	return g, nil
}
