package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Diff brings a stored child collection in line with a submitted one.
type Diff[T any] struct {
	Insert []T
	Update []T
	Delete []uint
}

// Reconcile compares the stored child keys with the submitted children.
// Submitted children whose key is zero or unknown are inserted with a zero
// key, known keys are updated, and stored keys missing from the submission
// are deleted.
func Reconcile[T any](existing []uint, submitted []T, key func(*T) *uint) Diff[T] {
	stored := make(map[uint]bool, len(existing))
	for _, id := range existing {
		stored[id] = true
	}

	var d Diff[T]
	kept := make(map[uint]bool, len(submitted))
	for _, item := range submitted {
		k := key(&item)
		if *k != 0 && stored[*k] && !kept[*k] {
			kept[*k] = true
			d.Update = append(d.Update, item)
			continue
		}
		*k = 0
		d.Insert = append(d.Insert, item)
	}

	for _, id := range existing {
		if !kept[id] {
			d.Delete = append(d.Delete, id)
		}
	}
	return d
}

// Empty reports whether the diff changes nothing.
func (d Diff[T]) Empty() bool {
	return len(d.Insert) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// ApplyDiff writes d using tx. keyColumn is the child primary key column.
func ApplyDiff[T any](tx *gorm.DB, d Diff[T], keyColumn string) error {
	if d.Empty() {
		return nil
	}
	if len(d.Delete) > 0 {
		if err := tx.Where(keyColumn+" IN ?", d.Delete).Delete(new(T)).Error; err != nil {
			return err
		}
	}
	for i := range d.Update {
		if err := tx.Omit(clause.Associations).Save(&d.Update[i]).Error; err != nil {
			return err
		}
	}
	if len(d.Insert) > 0 {
		if err := tx.Omit(clause.Associations).Create(&d.Insert).Error; err != nil {
			return err
		}
	}
	return nil
}
