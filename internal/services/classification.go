package services

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
)

// MinutesPerSerie is the flat time estimate of one heat.
const MinutesPerSerie = 10

type ClassificationEntry struct {
	Swimmer  string  `json:"swimmer"`
	Time     float64 `json:"time"`
	Position int     `json:"position"`
}

// Classification groups results as category name -> style name -> entries.
// Entries keep traversal order (session, test, serie, result); nothing is sorted.
type Classification map[string]map[string][]ClassificationEntry

// LoadChampionshipTree loads a championship with sessions, tests, series and
// results, each level ordered by id.
func LoadChampionshipTree(tx *gorm.DB, championshipID uint) (*models.Championship, error) {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }
	var champ models.Championship
	err := tx.
		Preload("Sessions", byID).
		Preload("Sessions.Tests", byID).
		Preload("Sessions.Tests.Category").
		Preload("Sessions.Tests.Style").
		Preload("Sessions.Tests.Series", byID).
		Preload("Sessions.Tests.Series.Results", byID).
		Preload("Sessions.Tests.Series.Results.Swimmer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		First(&champ, championshipID).Error
	if err != nil {
		return nil, fmt.Errorf("load championship %d: %w", championshipID, err)
	}
	return &champ, nil
}

// Classify builds the classification of an already loaded championship tree.
func Classify(champ *models.Championship) Classification {
	out := Classification{}
	for _, session := range champ.Sessions {
		for _, test := range session.Tests {
			cat, style := "", ""
			if test.Category != nil {
				cat = test.Category.Name
			}
			if test.Style != nil {
				style = test.Style.Name
			}
			if out[cat] == nil {
				out[cat] = map[string][]ClassificationEntry{}
			}
			if out[cat][style] == nil {
				out[cat][style] = []ClassificationEntry{}
			}
			for _, serie := range test.Series {
				for _, r := range serie.Results {
					out[cat][style] = append(out[cat][style], ClassificationEntry{
						Swimmer:  r.Swimmer.Name,
						Time:     r.Time,
						Position: r.Position,
					})
				}
			}
		}
	}
	return out
}

// TotalDuration estimates a championship's length in minutes from its heat count.
func TotalDuration(champ *models.Championship) int {
	total := 0
	for _, session := range champ.Sessions {
		for _, test := range session.Tests {
			total += len(test.Series) * MinutesPerSerie
		}
	}
	return total
}

func ComputeClassification(gdb *gorm.DB, championshipID uint) (Classification, error) {
	champ, err := LoadChampionshipTree(gdb, championshipID)
	if err != nil {
		return nil, err
	}
	return Classify(champ), nil
}

func ComputeTotalDuration(gdb *gorm.DB, championshipID uint) (int, error) {
	champ, err := LoadChampionshipTree(gdb, championshipID)
	if err != nil {
		return 0, err
	}
	return TotalDuration(champ), nil
}

var (
	classificationCache = cache.New(5*time.Minute, 10*time.Minute)

	// cacheMu orders Flush against Set; cacheGen counts invalidations.
	cacheMu  sync.Mutex
	cacheGen uint64

	watched sync.Map // *gorm.Config -> struct{}
)

// Tables whose rows feed a classification.
var classifiedModels = []any{
	&models.Championship{}, &models.Session{}, &models.Test{}, &models.Serie{},
	&models.Result{}, &models.Swimmer{}, &models.Category{}, &models.Style{},
}

// CachedClassification serves ComputeClassification through a per-championship
// cache. Any write to a table the classification reads drops it.
func CachedClassification(gdb *gorm.DB, championshipID uint) (Classification, error) {
	if err := WatchClassification(gdb); err != nil {
		return nil, err
	}
	key := strconv.FormatUint(uint64(championshipID), 10)
	if v, ok := classificationCache.Get(key); ok {
		if c, ok := v.(Classification); ok {
			metrics.RecordCacheLookup(true)
			return c, nil
		}
	}
	metrics.RecordCacheLookup(false)

	cacheMu.Lock()
	gen := cacheGen
	cacheMu.Unlock()

	c, err := ComputeClassification(gdb, championshipID)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	if gen == cacheGen {
		classificationCache.Set(key, c, cache.DefaultExpiration)
	}
	cacheMu.Unlock()
	return c, nil
}

// InvalidateClassification drops every cached classification.
func InvalidateClassification() {
	cacheMu.Lock()
	cacheGen++
	classificationCache.Flush()
	cacheMu.Unlock()
}

// WatchClassification registers create, update and delete callbacks on gdb
// that invalidate the classification cache. Safe to call more than once.
func WatchClassification(gdb *gorm.DB) error {
	if _, loaded := watched.LoadOrStore(gdb.Config, struct{}{}); loaded {
		return nil
	}
	tables := make(map[string]bool, len(classifiedModels))
	for _, m := range classifiedModels {
		stmt := &gorm.Statement{DB: gdb}
		if err := stmt.Parse(m); err != nil {
			watched.Delete(gdb.Config)
			return fmt.Errorf("parse %T: %w", m, err)
		}
		tables[stmt.Schema.Table] = true
	}
	invalidate := func(tx *gorm.DB) {
		if tx.Error == nil && tx.Statement.Schema != nil && tables[tx.Statement.Schema.Table] {
			InvalidateClassification()
		}
	}

	cb := gdb.Callback()
	if err := cb.Create().After("gorm:create").Register("classification:create", invalidate); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("classification:update", invalidate); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("classification:delete", invalidate)
}
