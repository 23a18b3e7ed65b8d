package schema

const CartSnapshotSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_snapshot",
	"fields": [
		{"name": "session_id", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "cart_item",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "product_id", "type": "long"},
					{"name": "name", "type": "string"},
					{"name": "brand", "type": "string"},
					{"name": "price", "type": "long"},
					{"name": "image", "type": "string"},
					{"name": "quantity", "type": "long"}
				]
			}
		}},
		{"name": "count", "type": "long"},
		{"name": "total_price", "type": "long"}
	]
}`

type (
	CartSnapshotV1 struct {
		SessionID  string       `avro:"session_id"`
		Items      []CartItemV1 `avro:"items"`
		Count      int          `avro:"count"`
		TotalPrice int          `avro:"total_price"`
	}

	CartItemV1 struct {
		ID        string `avro:"id"`
		ProductID int    `avro:"product_id"`
		Name      string `avro:"name"`
		Brand     string `avro:"brand"`
		Price     int    `avro:"price"`
		Image     string `avro:"image"`
		Quantity  int    `avro:"quantity"`
	}
)
