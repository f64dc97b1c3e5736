package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
)

// configKey describes one leapparse.yaml key.
type configKey struct {
	Key     string
	Env     string
	Type    string
	Default string
}

// configKeys lists the keys of config.Config in declaration order, with
// their environment variables and default values.
func configKeys() []configKey {
	def := reflect.ValueOf(config.Default()).Elem()
	typ := def.Type()

	keys := make([]configKey, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}
		keys = append(keys, configKey{
			Key:     key,
			Env:     "LEAPPARSE_" + strings.ToUpper(key),
			Type:    field.Type.String(),
			Default: defaultString(def.Field(i)),
		})
	}
	return keys
}

func defaultString(v reflect.Value) string {
	if v.IsZero() {
		return ""
	}
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return InlineCode(strings.Join(parts, ","))
	}
	return InlineCode(fmt.Sprint(v.Interface()))
}
