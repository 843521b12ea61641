package xmlexport_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/xmlexport"
)

func sampleOrder() *entity.OrderDetail {
	addr := entity.AddressFields{Street: "Calle 10 # 5-20 & Cía", City: "Medellín", State: "Antioquia", Country: "CO", PostalCode: "050001"}
	return &entity.OrderDetail{
		Order: entity.Order{
			ID: "o-1", UserID: "u-1", Total: decimal.RequireFromString("20"),
			Status: entity.OrderStatusPending, TrackingNumber: "TRK123456",
			ShippingAddressID: "a-1", BillingAddressID: "a-1",
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		UserEmail:       "ana@example.com",
		ShippingAddress: addr,
		BillingAddress:  addr,
		Items: []entity.OrderItemDetail{{
			OrderItem:   entity.OrderItem{VariantID: "5", Quantity: 2, UnitPrice: decimal.RequireFromString("10")},
			ProductName: "Camiseta", VariantName: "Roja M", SKU: "CAM-R-M",
		}},
	}
}

func TestExport_DigestSobreBytesDevueltos(t *testing.T) {
	out, digest, err := xmlexport.NewExporter().Export(sampleOrder())
	require.NoError(t, err)

	sum := sha256.Sum256(out)
	assert.Equal(t, hex.EncodeToString(sum[:]), digest)
	assert.Len(t, digest, 64)
}

func TestExport_Deterministico(t *testing.T) {
	a, da, err := xmlexport.NewExporter().Export(sampleOrder())
	require.NoError(t, err)
	b, db, err := xmlexport.NewExporter().Export(sampleOrder())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, da, db)

	changed := sampleOrder()
	changed.Status = entity.OrderStatusShipped
	_, dc, err := xmlexport.NewExporter().Export(changed)
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)
}

func TestExport_Contenido(t *testing.T) {
	out, _, err := xmlexport.NewExporter().Export(sampleOrder())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Order", root.Tag)
	assert.Equal(t, "o-1", root.SelectAttrValue("id", ""))
	assert.Equal(t, "TRK123456", root.SelectElement("TrackingNumber").Text())
	assert.Equal(t, "Calle 10 # 5-20 & Cía", root.FindElement("./ShippingAddress/Street").Text())

	item := root.FindElement("./Items/Item")
	require.NotNil(t, item)
	assert.Equal(t, "1", item.SelectAttrValue("line", ""))
	assert.Equal(t, "20.00", item.SelectElement("Subtotal").Text())
	assert.Equal(t, "20.00", root.FindElement("./Totals/Total").Text())
}

func TestExport_PedidoNil(t *testing.T) {
	_, _, err := xmlexport.NewExporter().Export(nil)
	assert.Error(t, err)
}
