// Package directory resolves match participants to the single live player
// record of one snapshot run.
package directory

import (
	"fmt"

	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
)

// Identities is the read side of the identity cache.
type Identities interface {
	Get(fingerprint string) (*models.Identity, bool)
}

// Directory indexes players by profile id (primary) and by name (secondary).
// Records are only ever created through the fingerprint path. Names stay
// unique: a profile whose name is already taken in the run (an account that
// was renamed, its old name reused) is recorded as "name#id".
type Directory struct {
	identities    Identities
	defaultRating func() models.Rating
	byID          map[int64]*models.Player
	byName        map[string]*models.Player
	order         []*models.Player
	log           *logger.Logger
}

func New(identities Identities, defaultRating func() models.Rating) *Directory {
	return &Directory{
		identities:    identities,
		defaultRating: defaultRating,
		byID:          make(map[int64]*models.Player),
		byName:        make(map[string]*models.Player),
		log:           logger.Default().WithPrefix("directory"),
	}
}

// WithLogger replaces the directory's logger.
func (d *Directory) WithLogger(l *logger.Logger) *Directory {
	d.log = l.WithPrefix("directory")
	return d
}

// Resolve returns the record for a match participant.
func (d *Directory) Resolve(p models.Participant) (*models.Player, error) {
	return d.ByFingerprint(p.Fingerprint)
}

// ByFingerprint resolves the fingerprint to an identity and returns its record,
// creating it with the default rating on first sight.
func (d *Directory) ByFingerprint(fingerprint string) (*models.Player, error) {
	id, ok := d.identities.Get(fingerprint)
	if !ok {
		return nil, apperrors.NewNotFoundError("account for fingerprint", fingerprint)
	}
	if p, ok := d.byID[id.ProfileID]; ok {
		return p, nil
	}

	p := models.NewPlayer(*id, d.defaultRating())
	if other, taken := d.byName[p.Name]; taken {
		name := d.freeName(p.Name, p.ProfileID)
		d.log.Warn("name %q of profile %d is already used by profile %d, recording it as %q",
			p.Name, p.ProfileID, other.ProfileID, name)
		p.Name = name
	}
	d.byID[p.ProfileID] = p
	d.byName[p.Name] = p
	d.order = append(d.order, p)
	return p, nil
}

// freeName suffixes a taken name with the profile id until it is unused.
// The first profile seen keeps the plain name.
func (d *Directory) freeName(name string, profileID int64) string {
	for {
		name = fmt.Sprintf("%s#%d", name, profileID)
		if _, taken := d.byName[name]; !taken {
			return name
		}
	}
}

// ByID returns an already materialized record.
func (d *Directory) ByID(profileID int64) (*models.Player, error) {
	p, ok := d.byID[profileID]
	if !ok {
		return nil, fmt.Errorf("profile %d: %w", profileID, ErrPlayerNotFound)
	}
	return p, nil
}

// ByName returns an already materialized record. Names are case-sensitive.
func (d *Directory) ByName(name string) (*models.Player, error) {
	p, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("name %q: %w", name, ErrPlayerNotFound)
	}
	return p, nil
}

// Players returns every record in creation order.
func (d *Directory) Players() []*models.Player {
	return append([]*models.Player(nil), d.order...)
}

func (d *Directory) Len() int {
	return len(d.order)
}

// ErrPlayerNotFound is returned by the secondary lookups.
var ErrPlayerNotFound = apperrors.NewNotFoundError("player", "in this run")
