package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

// Generated swimmers are between MinAge and MaxAge years old.
const (
	MinAge = 9
	MaxAge = 18
)

// Names is a weighted pick list read from a frequency CSV.
type Names struct {
	values  []any
	weights []float32
}

func (n Names) Len() int { return len(n.values) }

// LoadNames reads the nameCol and weightCol columns of a CSV with a header row.
// Names are title-cased; fractional weights are truncated like the census
// tables they come from.
func LoadNames(path, nameCol, weightCol string) (Names, error) {
	f, err := os.Open(path)
	if err != nil {
		return Names{}, fmt.Errorf("open names: %w", err)
	}
	defer f.Close()
	return ReadNames(f, nameCol, weightCol)
}

func ReadNames(r io.Reader, nameCol, weightCol string) (Names, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return Names{}, fmt.Errorf("read header: %w", err)
	}
	ni, wi := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case nameCol:
			ni = i
		case weightCol:
			wi = i
		}
	}
	if ni < 0 || wi < 0 {
		return Names{}, fmt.Errorf("columns %q and %q are required, got %v", nameCol, weightCol, header)
	}

	var out Names
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Names{}, err
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(rec[wi]), 64)
		if err != nil {
			return Names{}, fmt.Errorf("weight %q for %q: %w", rec[wi], rec[ni], err)
		}
		if int(w) <= 0 {
			continue
		}
		out.values = append(out.values, titleCase(rec[ni]))
		out.weights = append(out.weights, float32(int(w)))
	}
	return out, nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// SwimmerGenerator builds random swimmers. Empty name lists fall back to
// gofakeit's own names.
type SwimmerGenerator struct {
	Female   Names
	Male     Names
	Surnames Names
	// Faces holds candidate photos; empty means no photo.
	Faces [][]byte

	faker *gofakeit.Faker
}

func NewSwimmerGenerator(seed uint64) *SwimmerGenerator {
	return &SwimmerGenerator{faker: gofakeit.New(seed)}
}

// LoadFaces reads every png/jpg/jpeg of dir. A missing dir is not an error.
func (g *SwimmerGenerator) LoadFaces(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read faces: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read face %s: %w", e.Name(), err)
		}
		g.Faces = append(g.Faces, b)
	}
	return nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range logoExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (g *SwimmerGenerator) pick(n Names, fallback func() string) string {
	if n.Len() == 0 {
		return fallback()
	}
	v, err := g.faker.Weighted(n.values, n.weights)
	if err != nil {
		return fallback()
	}
	return v.(string)
}

// FullName is a first name (female or male with equal odds) and two surnames.
func (g *SwimmerGenerator) FullName() string {
	var first string
	if g.faker.Bool() {
		first = g.pick(g.Female, g.faker.FirstName)
	} else {
		first = g.pick(g.Male, g.faker.FirstName)
	}
	return first + " " + g.pick(g.Surnames, g.faker.LastName) + " " + g.pick(g.Surnames, g.faker.LastName)
}

// Swimmer returns an unsaved swimmer with age, birth year and category set.
func (g *SwimmerGenerator) Swimmer(currentYear int, cats []models.Category) models.Swimmer {
	age := g.faker.Number(MinAge, MaxAge)
	sw := models.Swimmer{
		Name:          g.FullName(),
		IsSwimmer:     true,
		PaymentAmount: models.DefaultPaymentAmount,
	}
	services.ApplyBirthYear(&sw, currentYear-age, currentYear, cats)
	if len(g.Faces) > 0 {
		sw.Photo = g.Faces[g.faker.Number(0, len(g.Faces)-1)]
	}
	return sw
}

// CreateSwimmers inserts n generated swimmers, categories resolved against
// every category ordered by id.
func (g *SwimmerGenerator) CreateSwimmers(gdb *gorm.DB, n int, today time.Time, log logrus.FieldLogger) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var cats []models.Category
		if err := tx.Order("id asc").Find(&cats).Error; err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			sw := g.Swimmer(today.Year(), cats)
			if err := tx.Create(&sw).Error; err != nil {
				return fmt.Errorf("create swimmer %q: %w", sw.Name, err)
			}
			if i%50 == 0 {
				log.WithField("progress", fmt.Sprintf("%d/%d", i, n)).Info("creating swimmers")
			}
		}
		return nil
	})
}

// AssignClubs puts every swimmer without a club into a random one of the
// first limit clubs (by id) and returns how many were assigned.
func AssignClubs(gdb *gorm.DB, limit int, faker *gofakeit.Faker) (int, error) {
	if limit <= 0 {
		limit = DefaultClubLimit
	}
	assigned := 0
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var clubIDs []uint
		if err := tx.Model(&models.Club{}).Order("id asc").Limit(limit).Pluck("id", &clubIDs).Error; err != nil {
			return err
		}
		if len(clubIDs) == 0 {
			return errors.New("no clubs to assign swimmers to")
		}
		var swimmerIDs []uint
		if err := tx.Model(&models.Swimmer{}).Where("club_id IS NULL").Order("id asc").Pluck("id", &swimmerIDs).Error; err != nil {
			return err
		}
		for _, id := range swimmerIDs {
			club := clubIDs[faker.Number(0, len(clubIDs)-1)]
			if err := tx.Model(&models.Swimmer{}).Where("id = ?", id).Update("club_id", club).Error; err != nil {
				return err
			}
		}
		assigned = len(swimmerIDs)
		return nil
	})
	return assigned, err
}
