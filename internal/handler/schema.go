package handler

import (
	"net/http"
)

// Schema serves descriptive JSON Schema documents for the record shapes the
// API works with. Admin tooling reads these; nothing in the service itself
// validates against them.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemas)
}

type schemaDoc = map[string]any

func objectSchema(title string, required []string, properties schemaDoc) schemaDoc {
	s := schemaDoc{
		"title":      title,
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func field(typ string, extra ...schemaDoc) schemaDoc {
	f := schemaDoc{"type": typ}
	for _, e := range extra {
		for k, v := range e {
			f[k] = v
		}
	}
	return f
}

var orderItemSchema = objectSchema("OrderItem",
	[]string{"product_id", "title", "price", "quantity"},
	schemaDoc{
		"product_id": field("string"),
		"title":      field("string"),
		"price":      field("number", schemaDoc{"minimum": 0}),
		"quantity":   field("integer", schemaDoc{"minimum": 1}),
	},
)

var schemas = map[string]schemaDoc{
	"user": objectSchema("User",
		[]string{"name", "email"},
		schemaDoc{
			"id":      field("string"),
			"name":    field("string"),
			"email":   field("string", schemaDoc{"format": "email"}),
			"address": field("string"),
		},
	),
	"product": objectSchema("Product",
		[]string{"title", "price"},
		schemaDoc{
			"id":          field("string"),
			"title":       field("string"),
			"description": field("string"),
			"price":       field("number", schemaDoc{"minimum": 0}),
			"category":    field("string", schemaDoc{"default": "General"}),
			"image":       field("string", schemaDoc{"format": "uri"}),
			"in_stock":    field("boolean", schemaDoc{"default": true}),
		},
	),
	"order": objectSchema("Order",
		[]string{"customer_name", "customer_email", "customer_address", "items"},
		schemaDoc{
			"id":               field("string"),
			"customer_name":    field("string"),
			"customer_email":   field("string", schemaDoc{"format": "email"}),
			"customer_address": field("string"),
			"items":            schemaDoc{"type": "array", "items": orderItemSchema},
			"subtotal":         field("number", schemaDoc{"minimum": 0}),
			"tax":              field("number", schemaDoc{"minimum": 0}),
			"total":            field("number", schemaDoc{"minimum": 0}),
			"created_at":       field("string", schemaDoc{"format": "date-time"}),
		},
	),
	"orderitem": orderItemSchema,
}
