package vision

// SystemInstruction is sent with every scan. It tells the model to read the
// part number first and to leave unreadable fields empty.
const SystemInstruction = `
Role: Senior Forensic Data Integrity Expert for "Secured Logistics Solution".
Protocol:
1. Use Part Number (SPEC) as the primary key.
   - Example: "SM-A366BZKPMEA" MUST return: Model: "Samsung Galaxy A36 5G", RAM/GB: "8/128GB", Color: "Awesome Black".
2. Format RAM/GB clearly (e.g., 8/128GB).
3. Accuracy is 100%. If the image is blurry, return empty strings. Do not invent data.
4. Manual entry is the fallback.`

// UserPrompt accompanies the image.
const UserPrompt = "Scan this label and extract details. Focus on SPEC for accuracy."

// Schema is the subset of the OpenAPI schema object accepted by
// generationConfig.responseSchema.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// itemFields are required on every extracted item.
var itemFields = []string{"model", "gb", "pcs", "color", "coo", "spec", "remarks"}

// ResponseSchema describes the JSON the model must return.
func ResponseSchema() *Schema {
	str := func() *Schema { return &Schema{Type: "STRING"} }
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"company":      str(),
			"customerCode": str(),
			"items": {
				Type: "ARRAY",
				Items: &Schema{
					Type: "OBJECT",
					Properties: map[string]*Schema{
						"model":   str(),
						"gb":      str(),
						"pcs":     {Type: "INTEGER"},
						"color":   str(),
						"coo":     str(),
						"spec":    str(),
						"remarks": str(),
					},
					Required: itemFields,
				},
			},
		},
		Required: []string{"items"},
	}
}
