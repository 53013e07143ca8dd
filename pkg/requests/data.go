package requests

import (
	"fmt"
	"io"
	"iter"
	"net/url"
	"reflect"
	"sort"
)

// dataKind classifies a form data payload.
type dataKind int

const (
	dataNone dataKind = iota
	dataMapping
	dataGenerator
	dataStream
	dataBinary
	dataText
)

// formField is one rendered key/value pair of a mapping payload.
type formField struct {
	name  string
	value string
}

// classifyData tells how a form data payload is rendered and transmitted.
// Empty payloads are dataNone, like a missing one.
func classifyData(data any) dataKind {
	switch v := data.(type) {
	case nil:
		return dataNone
	case iter.Seq[[]byte], iter.Seq[string], func(func([]byte) bool), func(func(string) bool):
		return dataGenerator
	case []byte:
		if len(v) == 0 {
			return dataNone
		}

		return dataBinary
	case string:
		if v == "" {
			return dataNone
		}

		return dataText
	case io.Reader:
		return dataStream
	}

	value := reflect.ValueOf(data)

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return dataText
		}

		if value.Len() == 0 {
			return dataNone
		}

		return dataMapping
	case reflect.Pointer, reflect.Interface, reflect.Slice:
		if value.IsNil() {
			return dataNone
		}

		return dataText
	default:
		return dataText
	}
}

// formFields flattens a mapping payload into key-sorted fields.
// Slice values, as in url.Values, yield one field per element.
func formFields(data any) []formField {
	if values, ok := data.(url.Values); ok {
		data = map[string][]string(values)
	}

	value := reflect.ValueOf(data)
	if value.Kind() != reflect.Map {
		return nil
	}

	keys := value.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	var result []formField

	for _, key := range keys {
		item := value.MapIndex(key)
		if item.Kind() == reflect.Interface {
			item = item.Elem()
		}

		if item.Kind() == reflect.Slice && item.Type().Elem().Kind() != reflect.Uint8 {
			for i := range item.Len() {
				result = append(result, formField{name: key.String(), value: fmt.Sprint(item.Index(i).Interface())})
			}

			continue
		}

		var rendered string
		if item.IsValid() {
			rendered = fmt.Sprint(item.Interface())
		}

		result = append(result, formField{name: key.String(), value: rendered})
	}

	return result
}

// urlValues converts a mapping payload into url.Values.
func urlValues(data any) url.Values {
	result := url.Values{}
	for _, field := range formFields(data) {
		result.Add(field.name, field.value)
	}

	return result
}

// drainGenerator feeds every chunk of a generator payload to yield until yield returns false.
func drainGenerator(data any, yield func([]byte) bool) {
	fromStrings := func(s string) bool {
		return yield([]byte(s))
	}

	switch g := data.(type) {
	case iter.Seq[[]byte]:
		g(yield)
	case func(func([]byte) bool):
		g(yield)
	case iter.Seq[string]:
		g(fromStrings)
	case func(func(string) bool):
		g(fromStrings)
	}
}
