package woocommerce

import (
	"strings"

	"desguace/internal/models"
)

// Meta keys written on every synced product.
const (
	MetaPartID    = "_desguace_part_id"
	MetaVehicleID = "_desguace_vehicle_id"
	MetaCondition = "_desguace_condition"
)

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformPart converts a part into the WooCommerce product payload.
func (t *Transformer) TransformPart(part *models.Part) *Product {
	stock := part.Stock
	if stock < 0 {
		stock = 0
	}

	product := &Product{
		Name:          part.Name,
		Type:          "simple",
		Status:        "publish",
		SKU:           part.ID,
		RegularPrice:  part.Price.StringFixed(2),
		ManageStock:   true,
		StockQuantity: &stock,
		StockStatus:   "instock",
		MetaData: []MetaData{
			{Key: MetaPartID, Value: part.ID},
			{Key: MetaCondition, Value: string(part.Condition)},
		},
	}

	if part.Reference != nil && *part.Reference != "" {
		product.SKU = *part.Reference
	}
	if part.Description != nil {
		product.Description = *part.Description
	}
	if part.VehicleID != nil {
		product.MetaData = append(product.MetaData, MetaData{Key: MetaVehicleID, Value: *part.VehicleID})
	}

	// Sold or reserved parts stay in the shop but cannot be bought.
	if stock == 0 || part.Status != models.PartStatusAvailable {
		product.StockStatus = "outofstock"
	}
	if part.Status == models.PartStatusSold {
		product.Status = "private"
	}

	if part.Images != nil {
		for _, src := range strings.Split(*part.Images, ",") {
			if src = strings.TrimSpace(src); src != "" {
				product.Images = append(product.Images, Image{Src: src})
			}
		}
	}

	return product
}
