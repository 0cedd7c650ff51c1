package viewmodels

import (
	"context"

	"gorm.io/gorm"
)

// CropDetail is a crop with its plots.
type CropDetail struct {
	CropView
	Plots []PlotView `json:"plots"`
}

// HarvestDetail is a harvest with its orders.
type HarvestDetail struct {
	HarvestView
	Orders []OrderView `json:"orders"`
}

// WorkerDetail is a worker with the tasks assigned to the same person.
type WorkerDetail struct {
	WorkerView
	Tasks []TaskView `json:"tasks"`
}

func FindCropDetail(ctx context.Context, db *gorm.DB, id uint) (*CropDetail, error) {
	crop, err := Crops.One(ctx, db, id)
	if err != nil {
		return nil, err
	}
	plots, err := Plots.Where(ctx, db, "plots.crop_id = ?", id)
	if err != nil {
		return nil, err
	}
	return &CropDetail{CropView: *crop, Plots: plots}, nil
}

func FindHarvestDetail(ctx context.Context, db *gorm.DB, id uint) (*HarvestDetail, error) {
	harvest, err := Harvests.One(ctx, db, id)
	if err != nil {
		return nil, err
	}
	orders, err := Orders.Where(ctx, db, "orders.harvest_id = ?", id)
	if err != nil {
		return nil, err
	}
	return &HarvestDetail{HarvestView: *harvest, Orders: orders}, nil
}

func FindWorkerDetail(ctx context.Context, db *gorm.DB, personID uint) (*WorkerDetail, error) {
	worker, err := Workers.One(ctx, db, personID)
	if err != nil {
		return nil, err
	}
	tasks, err := Tasks.Where(ctx, db, "tasks.person_id = ?", personID)
	if err != nil {
		return nil, err
	}
	return &WorkerDetail{WorkerView: *worker, Tasks: tasks}, nil
}

// AllCropDetails loads every crop and its plots in two queries.
func AllCropDetails(ctx context.Context, db *gorm.DB) ([]CropDetail, error) {
	crops, err := Crops.All(ctx, db)
	if err != nil {
		return nil, err
	}
	plots, err := Plots.All(ctx, db)
	if err != nil {
		return nil, err
	}
	byCrop := group(plots, func(p PlotView) uint { return p.CropID })

	out := make([]CropDetail, len(crops))
	for i, c := range crops {
		out[i] = CropDetail{CropView: c, Plots: nonNil(byCrop[c.ID])}
	}
	return out, nil
}

func AllHarvestDetails(ctx context.Context, db *gorm.DB) ([]HarvestDetail, error) {
	harvests, err := Harvests.All(ctx, db)
	if err != nil {
		return nil, err
	}
	orders, err := Orders.All(ctx, db)
	if err != nil {
		return nil, err
	}
	byHarvest := group(orders, func(o OrderView) uint { return o.HarvestID })

	out := make([]HarvestDetail, len(harvests))
	for i, h := range harvests {
		out[i] = HarvestDetail{HarvestView: h, Orders: nonNil(byHarvest[h.ID])}
	}
	return out, nil
}

func AllWorkerDetails(ctx context.Context, db *gorm.DB) ([]WorkerDetail, error) {
	workers, err := Workers.All(ctx, db)
	if err != nil {
		return nil, err
	}
	tasks, err := Tasks.All(ctx, db)
	if err != nil {
		return nil, err
	}
	byPerson := group(tasks, func(t TaskView) uint { return t.PersonID })

	out := make([]WorkerDetail, len(workers))
	for i, w := range workers {
		out[i] = WorkerDetail{WorkerView: w, Tasks: nonNil(byPerson[w.PersonID])}
	}
	return out, nil
}

// group keeps the input order inside each bucket.
func group[V any](rows []V, key func(V) uint) map[uint][]V {
	out := make(map[uint][]V)
	for _, r := range rows {
		k := key(r)
		out[k] = append(out[k], r)
	}
	return out
}

func nonNil[V any](rows []V) []V {
	if rows == nil {
		return []V{}
	}
	return rows
}
