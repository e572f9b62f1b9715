package pricing

import "fmt"

// Field names shared by batch records and their JSON form.
const (
	FieldProductID     = "product_id"
	FieldBasePrice     = "base_price"
	FieldMarkupPercent = "markup_percent"
)

// BatchItem is one pricing request inside a batch.
type BatchItem struct {
	ProductID     string `json:"product_id"`
	BasePrice     string `json:"base_price"`
	MarkupPercent string `json:"markup_percent"`
}

// BatchResultItem pairs a product with its computed price.
type BatchResultItem struct {
	ProductID  string `json:"product_id"`
	FinalPrice string `json:"final_price"`
}

// BatchOutcome is the per-item result of BatchCalculateEach. Err is nil on success.
type BatchOutcome struct {
	ProductID  string
	FinalPrice string
	Err        error
}

// BatchCalculate prices every item in order. The first failing item aborts
// the batch with an *ItemError and no results are returned.
func BatchCalculate(items []BatchItem) ([]BatchResultItem, error) {
	results := make([]BatchResultItem, 0, len(items))
	for i, item := range items {
		price, err := CalculatePrice(item.BasePrice, item.MarkupPercent)
		if err != nil {
			return nil, &ItemError{Index: i, ProductID: item.ProductID, Err: err}
		}
		results = append(results, BatchResultItem{ProductID: item.ProductID, FinalPrice: price})
	}
	return results, nil
}

// BatchCalculateEach prices every item and reports failures per item instead
// of aborting.
func BatchCalculateEach(items []BatchItem) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(items))
	for i, item := range items {
		price, err := CalculatePrice(item.BasePrice, item.MarkupPercent)
		outcomes[i] = BatchOutcome{ProductID: item.ProductID, FinalPrice: price, Err: err}
	}
	return outcomes
}

// BatchCalculateRecords prices loosely typed records such as decoded JSON
// objects. Each record must carry product_id, base_price and markup_percent
// as strings. Like BatchCalculate it stops at the first bad record.
func BatchCalculateRecords(records []map[string]any) ([]BatchResultItem, error) {
	items, err := ItemsFromRecords(records)
	if err != nil {
		return nil, err
	}
	return BatchCalculate(items)
}

// BatchCalculateRecordsEach is the record form of BatchCalculateEach. A
// record with a missing or mistyped field fails alone.
func BatchCalculateRecordsEach(records []map[string]any) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(records))
	for i, record := range records {
		item, err := itemFromRecord(record)
		if err != nil {
			id, _ := record[FieldProductID].(string)
			outcomes[i] = BatchOutcome{ProductID: id, Err: err}
			continue
		}
		price, err := CalculatePrice(item.BasePrice, item.MarkupPercent)
		outcomes[i] = BatchOutcome{ProductID: item.ProductID, FinalPrice: price, Err: err}
	}
	return outcomes
}

// ItemsFromRecords validates and converts records into batch items.
func ItemsFromRecords(records []map[string]any) ([]BatchItem, error) {
	items := make([]BatchItem, 0, len(records))
	for i, record := range records {
		item, err := itemFromRecord(record)
		if err != nil {
			id, _ := record[FieldProductID].(string)
			return nil, &ItemError{Index: i, ProductID: id, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func itemFromRecord(record map[string]any) (BatchItem, error) {
	var item BatchItem
	var err error
	if item.ProductID, err = stringField(record, FieldProductID); err != nil {
		return BatchItem{}, err
	}
	if item.BasePrice, err = stringField(record, FieldBasePrice); err != nil {
		return BatchItem{}, err
	}
	if item.MarkupPercent, err = stringField(record, FieldMarkupPercent); err != nil {
		return BatchItem{}, err
	}
	return item, nil
}

func stringField(record map[string]any, field string) (string, error) {
	v, ok := record[field]
	if !ok {
		return "", &MissingFieldError{Field: field}
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeMismatchError{Field: field, Got: typeName(v)}
	}
	return s, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
