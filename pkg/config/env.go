package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// InvalidTargetError é retornado quando o alvo não é um ponteiro para struct.
type InvalidTargetError struct {
	Type reflect.Type
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("config: target must be a pointer to struct, got %v", e.Type)
}

// EnvError indica que o valor de uma variável (ou de um envDefault) não pôde
// ser convertido para o tipo do campo.
type EnvError struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("config: field %s from %s=%q: %v", e.Field, e.EnvVar, e.Value, e.Err)
}

func (e *EnvError) Unwrap() error { return e.Err }

// ApplyDefaults preenche, a partir da tag "envDefault", os campos que ainda
// estão com o valor zero.
func ApplyDefaults(target any) error {
	return walkEnv(target, func(field reflect.Value, sf reflect.StructField) (string, bool) {
		def, ok := sf.Tag.Lookup("envDefault")
		return def, ok && field.IsZero()
	})
}

// LoadEnv sobrescreve os campos cuja variável da tag "env" está definida.
func LoadEnv(target any) error {
	return walkEnv(target, func(_ reflect.Value, sf reflect.StructField) (string, bool) {
		name := sf.Tag.Get("env")
		if name == "" {
			return "", false
		}
		return os.LookupEnv(name)
	})
}

type valueSource func(field reflect.Value, sf reflect.StructField) (string, bool)

func walkEnv(target any, source valueSource) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return &InvalidTargetError{Type: reflect.TypeOf(target)}
	}
	return walkStruct(val.Elem(), source)
}

func walkStruct(val reflect.Value, source valueSource) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		sf := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := walkStruct(field, source); err != nil {
				return err
			}
			continue
		}

		raw, ok := source(field, sf)
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			return &EnvError{Field: sf.Name, EnvVar: sf.Tag.Get("env"), Value: raw, Err: err}
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		out := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = reflect.Append(out, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(out)
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}
