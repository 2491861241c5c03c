package pb

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// Struct numbers are float64 on the wire. Integers outside ±2^53 are rejected
// instead of being silently rounded.
const maxExactInt = 1 << 53

func ItemToStruct(item domain.Item) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       item.ID,
		"title":    item.Title,
		"topic":    item.Topic.String(),
		"price":    item.Price,
		"quantity": item.Quantity,
	})
}

func ItemFromStruct(s *structpb.Struct) (domain.Item, error) {
	var item domain.Item
	var err error

	if item.ID, err = Int64Field(s, "id"); err != nil {
		return domain.Item{}, err
	}
	if item.Price, err = Int64Field(s, "price"); err != nil {
		return domain.Item{}, err
	}
	if item.Quantity, err = Int64Field(s, "quantity"); err != nil {
		return domain.Item{}, err
	}
	item.Title = s.GetFields()["title"].GetStringValue()
	item.Topic = domain.Topic(s.GetFields()["topic"].GetStringValue())

	return item, nil
}

func AdjustRequest(id, delta int64) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": id, "delta": delta})
}

func SetPriceRequest(id, price int64) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": id, "price": price})
}

func Int64Field(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, fmt.Errorf("field %q is not an integer", name)
	}
	return int64(f), nil
}
