package schema

const WishlistEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "wishlist_event",
	"fields": [
		{"name": "session_id", "type": "string"},
		{"name": "product_id", "type": "long"},
		{"name": "added", "type": "boolean"}
	]
}`

type WishlistEventV1 struct {
	SessionID string `avro:"session_id"`
	ProductID int    `avro:"product_id"`
	Added     bool   `avro:"added"`
}
