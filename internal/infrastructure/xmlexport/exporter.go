// Package xmlexport serializa pedidos a XML canónico (C14N) para integraciones externas.
// El digest SHA-256 se calcula sobre los mismos bytes que se devuelven.
package xmlexport

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/ecommerce-api/internal/application/order"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// Namespace del documento de pedido.
const Namespace = "urn:ecommerce-api:order:1"

// Exporter implementa order.OrderExporter.
type Exporter struct{}

var _ order.OrderExporter = (*Exporter)(nil)

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export construye el XML del pedido, lo canonicaliza y devuelve bytes y digest hex.
func (e *Exporter) Export(o *entity.OrderDetail) ([]byte, string, error) {
	if o == nil {
		return nil, "", fmt.Errorf("xmlexport: pedido nil")
	}
	raw, err := buildDocument(o).WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return canonical, hex.EncodeToString(sum[:]), nil
}

func buildDocument(o *entity.OrderDetail) *etree.Document {
	doc := etree.NewDocument()
	root := doc.CreateElement("Order")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("id", o.ID)

	root.CreateElement("TrackingNumber").SetText(o.TrackingNumber)
	root.CreateElement("Status").SetText(string(o.Status))
	root.CreateElement("CreatedAt").SetText(o.CreatedAt.UTC().Format(time.RFC3339))

	customer := root.CreateElement("Customer")
	customer.CreateAttr("id", o.UserID)
	if o.UserEmail != "" {
		customer.CreateElement("Email").SetText(o.UserEmail)
	}

	addAddress(root, "ShippingAddress", o.ShippingAddressID, o.ShippingAddress)
	addAddress(root, "BillingAddress", o.BillingAddressID, o.BillingAddress)

	items := root.CreateElement("Items")
	for i, it := range o.Items {
		el := items.CreateElement("Item")
		el.CreateAttr("line", strconv.Itoa(i+1))
		el.CreateAttr("variantId", it.VariantID)
		if it.SKU != "" {
			el.CreateElement("SKU").SetText(it.SKU)
		}
		if it.ProductName != "" {
			el.CreateElement("ProductName").SetText(it.ProductName)
		}
		if it.VariantName != "" {
			el.CreateElement("VariantName").SetText(it.VariantName)
		}
		el.CreateElement("Quantity").SetText(strconv.Itoa(it.Quantity))
		el.CreateElement("UnitPrice").SetText(it.UnitPrice.StringFixed(2))
		el.CreateElement("Subtotal").SetText(it.Subtotal().StringFixed(2))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("ItemsTotal").SetText(o.ItemsTotal().StringFixed(2))
	totals.CreateElement("Total").SetText(o.Total.StringFixed(2))
	return doc
}

func addAddress(parent *etree.Element, tag, id string, a entity.AddressFields) {
	el := parent.CreateElement(tag)
	el.CreateAttr("id", id)
	el.CreateElement("Street").SetText(a.Street)
	el.CreateElement("City").SetText(a.City)
	el.CreateElement("State").SetText(a.State)
	el.CreateElement("Country").SetText(a.Country)
	el.CreateElement("PostalCode").SetText(a.PostalCode)
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
