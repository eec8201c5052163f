package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/broker"
)

// recordStore is the slice of the app the inventory service touches.
// core.App satisfies it.
type recordStore interface {
	FindCollectionByNameOrId(nameOrId string) (*core.Collection, error)
	FindRecordById(collectionModelOrIdentifier any, recordId string, optFilters ...func(q *dbx.SelectQuery) error) (*core.Record, error)
	FindRecordsByFilter(collectionModelOrIdentifier any, filter string, sort string, limit int, offset int, params ...dbx.Params) ([]*core.Record, error)
	Save(model core.Model) error
}

// InventoryService handles parts stock levels and usage tracking.
type InventoryService struct {
	app    recordStore
	broker *broker.SegmentedBroker
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(app recordStore, eventBroker *broker.SegmentedBroker) *InventoryService {
	return &InventoryService{app: app, broker: eventBroker}
}

// InventoryItem represents a part in stock.
type InventoryItem struct {
	ID                string
	Name              string
	SKU               string
	Category          string
	Price             float64
	StockQuantity     int
	LowStockThreshold int
	Unit              string
	IsActive          bool
}

func (s *InventoryService) toItem(record *core.Record) InventoryItem {
	return InventoryItem{
		ID:                record.Id,
		Name:              record.GetString("name"),
		SKU:               record.GetString("sku"),
		Category:          record.GetString("category"),
		Price:             record.GetFloat("price"),
		StockQuantity:     int(record.GetFloat("stock_quantity")),
		LowStockThreshold: int(record.GetFloat("low_stock_threshold")),
		Unit:              record.GetString("unit"),
		IsActive:          record.GetBool("is_active"),
	}
}

// GetActiveItems returns all active inventory items.
func (s *InventoryService) GetActiveItems() ([]InventoryItem, error) {
	records, err := s.app.FindRecordsByFilter(
		"inventory_items",
		"is_active = true",
		"category, name",
		500,
		0,
		nil,
	)
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, len(records))
	for i, record := range records {
		items[i] = s.toItem(record)
	}
	return items, nil
}

// LowStockItems returns active items at or below their threshold.
func (s *InventoryService) LowStockItems() ([]InventoryItem, error) {
	records, err := s.app.FindRecordsByFilter(
		"inventory_items",
		"is_active = true && stock_quantity <= low_stock_threshold",
		"name",
		200,
		0,
		nil,
	)
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, len(records))
	for i, record := range records {
		items[i] = s.toItem(record)
	}
	return items, nil
}

// DeductStock reduces an item's stock and returns its unit price.
// Business rule: stock never goes negative.
func (s *InventoryService) DeductStock(itemID string, quantity float64) (float64, error) {
	item, err := s.app.FindRecordById("inventory_items", itemID)
	if err != nil {
		return 0, err
	}

	currentStock := item.GetFloat("stock_quantity")
	if currentStock < quantity {
		return 0, fmt.Errorf("insufficient stock: have %.0f, need %.0f", currentStock, quantity)
	}

	item.Set("stock_quantity", currentStock-quantity)
	if err := s.app.Save(item); err != nil {
		return 0, err
	}

	s.checkLowStock(item)

	return item.GetFloat("price"), nil
}

// checkLowStock pushes an admin alert when a deduction crossed the
// threshold.
func (s *InventoryService) checkLowStock(item *core.Record) {
	threshold := item.GetFloat("low_stock_threshold")
	if threshold <= 0 || item.GetFloat("stock_quantity") > threshold {
		return
	}

	log.Printf("⚠️ [INVENTORY] %s is low on stock (%.0f left)", item.GetString("name"), item.GetFloat("stock_quantity"))

	if s.broker != nil {
		s.broker.Publish(broker.ChannelAdmin, "", broker.Event{
			Type:      "inventory.low_stock",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"item_id":   item.Id,
				"name":      item.GetString("name"),
				"sku":       item.GetString("sku"),
				"remaining": item.GetFloat("stock_quantity"),
				"threshold": threshold,
			},
		})
	}
}

// JobPart represents a part consumed by a job.
type JobPart struct {
	ItemID       string
	ItemName     string
	Quantity     float64
	PricePerUnit float64
	Total        float64
}

// RecordPartsUsage saves parts used on a job and deducts stock, freezing
// the unit price at usage time.
func (s *InventoryService) RecordPartsUsage(jobID string, parts []JobPart) (float64, error) {
	if len(parts) == 0 {
		return 0, nil
	}

	collection, err := s.app.FindCollectionByNameOrId("job_parts")
	if err != nil {
		return 0, err
	}

	var totalPartsCost float64

	for _, part := range parts {
		item, err := s.app.FindRecordById("inventory_items", part.ItemID)
		if err != nil {
			return 0, fmt.Errorf("item %s not found", part.ItemID)
		}

		currentStock := item.GetFloat("stock_quantity")
		if currentStock < part.Quantity {
			return 0, fmt.Errorf("insufficient stock for %s: need %.0f, have %.0f",
				item.GetString("name"), part.Quantity, currentStock)
		}

		pricePerUnit := item.GetFloat("price")
		total := part.Quantity * pricePerUnit

		record := core.NewRecord(collection)
		record.Set("job_id", jobID)
		record.Set("item_id", part.ItemID)
		record.Set("quantity", part.Quantity)
		record.Set("price_per_unit", pricePerUnit)
		record.Set("total", total)

		if err := s.app.Save(record); err != nil {
			return 0, fmt.Errorf("failed to record part usage: %w", err)
		}

		item.Set("stock_quantity", currentStock-part.Quantity)
		if err := s.app.Save(item); err != nil {
			return 0, fmt.Errorf("failed to update stock: %w", err)
		}

		s.checkLowStock(item)

		totalPartsCost += total
	}

	return totalPartsCost, nil
}

// GetJobParts returns all parts used on a specific job.
func (s *InventoryService) GetJobParts(jobID string) ([]JobPart, error) {
	records, err := s.app.FindRecordsByFilter(
		"job_parts",
		"job_id = {:jobId}",
		"",
		200, 0,
		dbx.Params{"jobId": jobID},
	)
	if err != nil {
		return nil, err
	}

	parts := make([]JobPart, len(records))
	for i, record := range records {
		itemName := "Unknown"
		if item, err := s.app.FindRecordById("inventory_items", record.GetString("item_id")); err == nil {
			itemName = item.GetString("name")
		}

		parts[i] = JobPart{
			ItemID:       record.GetString("item_id"),
			ItemName:     itemName,
			Quantity:     record.GetFloat("quantity"),
			PricePerUnit: record.GetFloat("price_per_unit"),
			Total:        record.GetFloat("total"),
		}
	}

	return parts, nil
}
