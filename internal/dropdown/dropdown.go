// Package dropdown loads (id, label) reference lists for forms, import
// lookups and autocomplete.
package dropdown

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"agro_admin/internal/config"
)

// Option is one entry of a selection list.
type Option struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// Source describes where a reference list comes from.
type Source struct {
	Kind  string // key of the pinned default in config
	From  string // table or join expression
	ID    string
	Label string
	Order string // defaults to Label
}

func (s Source) order() string {
	if s.Order != "" {
		return s.Order
	}
	return s.Label
}

var (
	Species         = Source{Kind: config.KindSpecies, From: "species", ID: "species.id", Label: "species.name"}
	Statuses        = Source{Kind: config.KindStatus, From: "statuses", ID: "statuses.id", Label: "statuses.name"}
	TaskStatuses    = Source{Kind: config.KindTaskStatus, From: "task_statuses", ID: "task_statuses.id", Label: "task_statuses.name"}
	SoilQualities   = Source{Kind: config.KindSoilQuality, From: "soil_qualities", ID: "soil_qualities.id", Label: "soil_qualities.name"}
	SoilCategories  = Source{Kind: config.KindSoilCategory, From: "soil_categories", ID: "soil_categories.id", Label: "soil_categories.name"}
	Infrastructures = Source{Kind: config.KindInfrastructure, From: "infrastructures", ID: "infrastructures.id", Label: "infrastructures.name"}
	WorkerTypes     = Source{Kind: config.KindWorkerType, From: "worker_types", ID: "worker_types.id", Label: "worker_types.name"}
	People          = Source{Kind: config.KindPerson, From: "people", ID: "people.id", Label: "people.name"}
	Tasks           = Source{Kind: config.KindTask, From: "tasks", ID: "tasks.id", Label: "tasks.label"}

	// Crops and harvests have no name; their id is the label.
	Crops    = Source{Kind: config.KindCrop, From: "crops", ID: "crops.id", Label: "CAST(crops.id AS TEXT)", Order: "crops.id"}
	Harvests = Source{Kind: config.KindHarvest, From: "harvests", ID: "harvests.id", Label: "CAST(harvests.id AS TEXT)", Order: "harvests.id"}

	Workers = Source{
		Kind:  config.KindWorker,
		From:  "workers JOIN people ON people.id = workers.person_id",
		ID:    "workers.person_id",
		Label: "people.name",
	}

	// Autocomplete sources
	HarvestsByCrop = Source{From: "harvests", ID: "harvests.id", Label: "CAST(harvests.crop_id AS TEXT)"}
	WorkersByName  = Source{
		From:  "workers JOIN people ON people.id = workers.person_id",
		ID:    "workers.person_id",
		Label: "CAST(workers.person_id AS TEXT) || ' ' || people.name",
	}
)

// Resolver reads reference lists and applies the configured pinned defaults.
type Resolver struct {
	db       *gorm.DB
	settings config.AppSettings
}

func NewResolver(db *gorm.DB, settings config.AppSettings) *Resolver {
	return &Resolver{db: db, settings: settings}
}

// Options returns the list for src with the pinned default first and the
// rest ordered by label.
func (r *Resolver) Options(ctx context.Context, src Source) ([]Option, error) {
	var rows []Option
	err := r.db.WithContext(ctx).
		Table(src.From).
		Select(src.ID + " AS id, " + src.Label + " AS label").
		Order(src.order()).
		Order(src.ID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if id, ok := r.settings.DefaultID(src.Kind); ok {
		rows = Pin(rows, id)
	}
	return rows, nil
}

// ErrAmbiguous is returned by Lookup when more than one row carries the label.
var ErrAmbiguous = errors.New("label matches more than one row")

// Lookup finds the id whose label equals label exactly.
func (r *Resolver) Lookup(ctx context.Context, src Source, label string) (uint, bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table(src.From).
		Where(src.Label+" = ?", strings.TrimSpace(label)).
		Order(src.ID).
		Limit(2).
		Pluck(src.ID, &ids).Error
	if err != nil {
		return 0, false, err
	}
	switch len(ids) {
	case 0:
		return 0, false, nil
	case 1:
		return ids[0], true, nil
	}
	return 0, false, ErrAmbiguous
}

// Search returns up to limit options whose label contains term.
func (r *Resolver) Search(ctx context.Context, src Source, term string, limit int) ([]Option, error) {
	rows := []Option{}
	err := r.db.WithContext(ctx).
		Table(src.From).
		Select(src.ID+" AS id, "+src.Label+" AS label").
		Where(src.Label+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(term)+"%").
		Order(src.Label).
		Order(src.ID).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Pin moves the option with id defaultID to the front, keeping the order of
// the others. A missing default leaves opts unchanged.
func Pin(opts []Option, defaultID uint) []Option {
	idx := -1
	for i, o := range opts {
		if o.ID == defaultID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return opts
	}
	out := make([]Option, 0, len(opts))
	out = append(out, opts[idx])
	out = append(out, opts[:idx]...)
	out = append(out, opts[idx+1:]...)
	return out
}

// Lookups memoizes label lookups for the duration of one import.
type Lookups struct {
	r     *Resolver
	cache map[string]map[string]lookupResult
}

type lookupResult struct {
	id  uint
	err error
}

func (r *Resolver) NewLookups() *Lookups {
	return &Lookups{r: r, cache: map[string]map[string]lookupResult{}}
}

// ID resolves label in src; ok is false when no row matches.
func (l *Lookups) ID(ctx context.Context, src Source, label string) (uint, bool, error) {
	key := src.From + "|" + src.Label
	byLabel, found := l.cache[key]
	if !found {
		byLabel = map[string]lookupResult{}
		l.cache[key] = byLabel
	}
	if res, hit := byLabel[label]; hit {
		return res.id, res.id != 0, res.err
	}
	id, _, err := l.r.Lookup(ctx, src, label)
	if err != nil && !errors.Is(err, ErrAmbiguous) {
		return 0, false, err
	}
	byLabel[label] = lookupResult{id: id, err: err}
	return id, id != 0, err
}
