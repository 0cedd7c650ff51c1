package reports

import (
	"context"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/models"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

var Orders = Table[viewmodels.OrderView]{
	Title: "Orders",
	Sheet: "Orders",
	Columns: []export.Column{
		{Header: "Id Order", Width: 1, Align: "R"},
		{Header: "Id Harvest", Width: 1, Align: "R"},
		{Header: "Customer", Width: 3},
		{Header: "Quantity", Width: 2, Align: "R"},
		{Header: "Price (€)", Width: 2, Align: "R"},
		{Header: "Date of Order", Width: 2, Align: "C"},
	},
	Cells: func(v viewmodels.OrderView) []interface{} {
		return []interface{}{v.ID, v.HarvestID, v.PersonName, v.Quantity, v.Price, v.OrderDate}
	},
}

// Orders updates orders from a sheet laid out like Orders.
func (im *Importer) Orders(ctx context.Context, s *export.Sheet) (*export.Result, error) {
	store := repository.NewStore[models.Order](im.db)
	harvests := repository.NewStore[models.Harvest](im.db)
	lk := im.refs.NewLookups()

	spec := export.ImportSpec[models.Order]{
		StatusColumn: Orders.StatusColumn(),
		Parse: func(ctx context.Context, r export.Row) (models.Order, error) {
			id, err := r.Uint(1)
			if err != nil {
				return models.Order{}, export.Fail("Order not found")
			}
			order, err := find(ctx, store, id, "Order not found")
			if err != nil {
				return models.Order{}, err
			}

			harvestID, err := r.Uint(2)
			if err != nil {
				return models.Order{}, export.Fail("Harvest not found")
			}
			if err := exists(ctx, harvests, harvestID, "Harvest not found"); err != nil {
				return models.Order{}, err
			}
			customer, err := lookup(ctx, lk, dropdown.People, r.Text(3), "Customer not found")
			if err != nil {
				return models.Order{}, err
			}
			qty, err := r.Float(4)
			if err != nil {
				return models.Order{}, export.Fail("Invalid quantity or price format")
			}
			price, err := r.Float(5)
			if err != nil {
				return models.Order{}, export.Fail("Invalid quantity or price format")
			}
			date, err := r.Time(6)
			if err != nil {
				return models.Order{}, export.Fail("Invalid Date Format")
			}

			order.HarvestID = harvestID
			order.PersonID = customer
			order.Quantity = qty
			order.Price = price
			order.OrderDate = date
			return *order, nil
		},
	}
	return run(ctx, "order", s, spec, store.SaveAll)
}
