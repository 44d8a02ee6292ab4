package service

import (
	"fmt"

	"github.com/printforge/commerce/internal/domain"
	"github.com/shopspring/decimal"
)

// SnapshotPrices freezes the price of every cart line against the catalog
// rows read in the same transaction. Pure function: it never touches storage.
//
// itemPrice = basePrice + materialPrice, lineTotal = itemPrice * quantity,
// subtotal = sum(lineTotal). All decimal, no floating point.
func SnapshotPrices(items []domain.DetailedCartItem) ([]domain.OrderItem, domain.Money, error) {
	if len(items) == 0 {
		return nil, domain.Money{}, domain.ErrEmptyCart
	}

	subtotal := domain.Money{Amount: decimal.Zero, Currency: items[0].Product.BasePrice.Currency}
	snapshots := make([]domain.OrderItem, 0, len(items))

	for _, item := range items {
		if !item.Product.Active {
			return nil, domain.Money{}, &domain.InactiveItemError{
				Kind: "product", ID: item.Product.ID, Name: item.Product.Name,
			}
		}
		if !item.Material.Active {
			return nil, domain.Money{}, &domain.InactiveItemError{
				Kind: "material", ID: item.Material.ID, Name: item.Material.Name,
			}
		}

		itemPrice, err := item.Product.BasePrice.Add(item.Material.Price)
		if err != nil {
			return nil, domain.Money{}, fmt.Errorf("product %s: %w", item.Product.ID, err)
		}
		lineTotal := itemPrice.MulInt(int64(item.Item.Quantity))

		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			return nil, domain.Money{}, fmt.Errorf("product %s: %w", item.Product.ID, err)
		}

		snapshots = append(snapshots, domain.OrderItem{
			ProductID:     item.Product.ID,
			ProductName:   item.Product.Name,
			BasePrice:     item.Product.BasePrice.Amount,
			MaterialID:    item.Material.ID,
			MaterialName:  item.Material.Name,
			MaterialPrice: item.Material.Price.Amount,
			Quantity:      item.Item.Quantity,
			ItemPrice:     itemPrice.Amount,
			LineTotal:     lineTotal.Amount,
		})
	}

	return snapshots, subtotal, nil
}
