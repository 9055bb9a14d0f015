// Package seed loads demo data: clubs from a JSON listing, the standard age
// categories and randomly generated swimmers.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

// DefaultClubLimit is how many entries of the listing are imported.
const DefaultClubLimit = 20

var logoExtensions = []string{".png", ".jpg", ".jpeg"}

// ClubEntry is one element of the clubs listing. Image is the remote URL the
// listing was scraped from; only local logos are loaded.
type ClubEntry struct {
	Club     string `json:"club"`
	Location string `json:"location"`
	Image    string `json:"image"`
}

func LoadClubEntries(path string) ([]ClubEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clubs listing: %w", err)
	}
	var entries []ClubEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse clubs listing %s: %w", path, err)
	}
	return entries, nil
}

// Clubs creates the first limit entries that do not exist yet (matched by
// name). The logo is club_<n>.(png|jpg|jpeg) in imagesDir, n being the
// 1-based position in the listing.
func Clubs(gdb *gorm.DB, entries []ClubEntry, imagesDir string, limit int, log logrus.FieldLogger) (created int, err error) {
	if limit <= 0 {
		limit = DefaultClubLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		for i, e := range entries {
			name := strings.TrimSpace(e.Club)
			if name == "" {
				continue
			}
			var n int64
			if err := tx.Model(&models.Club{}).Where("name = ?", name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				log.WithField("club", name).Debug("club exists")
				continue
			}
			logo, err := clubLogo(imagesDir, i+1)
			if err != nil {
				return err
			}
			c := models.Club{Name: name, Town: strings.TrimSpace(e.Location), Logo: logo}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("create club %q: %w", name, err)
			}
			created++
			log.WithFields(logrus.Fields{"club": name, "town": c.Town, "logo": logo != nil}).Info("club created")
		}
		return nil
	})
	return created, err
}

func clubLogo(dir string, idx int) ([]byte, error) {
	if dir == "" {
		return nil, nil
	}
	for _, ext := range logoExtensions {
		b, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("club_%d%s", idx, ext)))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read logo: %w", err)
		}
	}
	return nil, nil
}
