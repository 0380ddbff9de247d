package schema

import "github.com/hamba/avro/v2"

const OrderLineSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order_line",
	"fields" : [
		{"name": "order_number", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "unit_price", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "created_at", "type": "long"}
	]
}`

// An OrderLineV1 is an order line record. UnitPrice holds
// a decimal string, CreatedAt is unix milliseconds.
type OrderLineV1 struct {
	OrderNumber string `avro:"order_number"`
	ProductID   string `avro:"product_id"`
	ProductName string `avro:"product_name"`
	Quantity    int    `avro:"quantity"`
	UnitPrice   string `avro:"unit_price"`
	UserID      string `avro:"user_id"`
	CreatedAt   int64  `avro:"created_at"`
}

func OrderLineV1Avro() avro.Schema {
	return avro.MustParse(OrderLineSchemaTextV1)
}
